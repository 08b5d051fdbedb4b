package app

import (
	"log/slog"

	"github.com/bloom-dao/bloomgov/internal/api"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Shared dependencies
	Chain    *ledger.Ledger
	Registry *prometheus.Registry
	Selector usecase.ProposalSelector
	Progress usecase.ProgressSink

	// Token use cases
	MintTokens     *usecase.MintTokens
	TransferTokens *usecase.TransferTokens
	DelegateVotes  *usecase.DelegateVotes
	ShowAccount    *usecase.ShowAccount

	// Proposal use cases
	CreateProposal  *usecase.CreateProposal
	CastVote        *usecase.CastVote
	ExecuteProposal *usecase.ExecuteProposal
	CancelProposal  *usecase.CancelProposal
	ListProposals   *usecase.ListProposals
	ShowProposal    *usecase.ShowProposal

	// Paymaster use cases
	ShowPaymaster    *usecase.ShowPaymaster
	CheckEligibility *usecase.CheckEligibility
	ManagePaymaster  *usecase.ManagePaymaster

	// Dev and relay use cases
	AdvanceTime      *usecase.AdvanceTime
	FundAccount      *usecase.FundAccount
	RelayTransaction *usecase.RelayTransaction

	// Config use cases
	SetConfig    *usecase.SetConfig
	ShowConfig   *usecase.ShowConfig
	RemoveConfig *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	chain *ledger.Ledger,
	registry *prometheus.Registry,
	selector usecase.ProposalSelector,
	progress usecase.ProgressSink,
	mintTokens *usecase.MintTokens,
	transferTokens *usecase.TransferTokens,
	delegateVotes *usecase.DelegateVotes,
	showAccount *usecase.ShowAccount,
	createProposal *usecase.CreateProposal,
	castVote *usecase.CastVote,
	executeProposal *usecase.ExecuteProposal,
	cancelProposal *usecase.CancelProposal,
	listProposals *usecase.ListProposals,
	showProposal *usecase.ShowProposal,
	showPaymaster *usecase.ShowPaymaster,
	checkEligibility *usecase.CheckEligibility,
	managePaymaster *usecase.ManagePaymaster,
	advanceTime *usecase.AdvanceTime,
	fundAccount *usecase.FundAccount,
	relayTransaction *usecase.RelayTransaction,
	setConfig *usecase.SetConfig,
	showConfig *usecase.ShowConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:           cfg,
		Logger:           logger,
		Chain:            chain,
		Registry:         registry,
		Selector:         selector,
		Progress:         progress,
		MintTokens:       mintTokens,
		TransferTokens:   transferTokens,
		DelegateVotes:    delegateVotes,
		ShowAccount:      showAccount,
		CreateProposal:   createProposal,
		CastVote:         castVote,
		ExecuteProposal:  executeProposal,
		CancelProposal:   cancelProposal,
		ListProposals:    listProposals,
		ShowProposal:     showProposal,
		ShowPaymaster:    showPaymaster,
		CheckEligibility: checkEligibility,
		ManagePaymaster:  managePaymaster,
		AdvanceTime:      advanceTime,
		FundAccount:      fundAccount,
		RelayTransaction: relayTransaction,
		SetConfig:        setConfig,
		ShowConfig:       showConfig,
		RemoveConfig:     removeConfig,
	}, nil
}

// NewAPIServer builds the REST API over this app's use cases
func (a *App) NewAPIServer() *api.Server {
	return api.New(
		api.Config{ListenAddress: a.Config.ListenAddr},
		api.Services{
			Chain:            a.Chain,
			ListProposals:    a.ListProposals,
			ShowProposal:     a.ShowProposal,
			ShowAccount:      a.ShowAccount,
			ShowPaymaster:    a.ShowPaymaster,
			CheckEligibility: a.CheckEligibility,
			RelayTransaction: a.RelayTransaction,
		},
		a.Registry,
		a.Logger,
	)
}
