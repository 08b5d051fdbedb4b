//go:build wireinject
// +build wireinject

package app

import (
	"github.com/bloom-dao/bloomgov/internal/adapters"
	"github.com/bloom-dao/bloomgov/internal/config"
	"github.com/bloom-dao/bloomgov/internal/logging"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance. The cleanup closes the state
// store.
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewTransactor,
		usecase.NewMintTokens,
		usecase.NewTransferTokens,
		usecase.NewDelegateVotes,
		usecase.NewShowAccount,
		usecase.NewCreateProposal,
		usecase.NewCastVote,
		usecase.NewExecuteProposal,
		usecase.NewCancelProposal,
		usecase.NewListProposals,
		usecase.NewShowProposal,
		usecase.NewShowPaymaster,
		usecase.NewCheckEligibility,
		usecase.NewManagePaymaster,
		usecase.NewAdvanceTime,
		usecase.NewFundAccount,
		usecase.NewRelayTransaction,
		usecase.NewSetConfig,
		usecase.NewShowConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil, nil
}
