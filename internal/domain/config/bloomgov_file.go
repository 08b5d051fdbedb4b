package config

import (
	"math/big"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// FileConfig is the bloomgov.toml document. Amounts are decimal strings in
// the unit named by the key suffix.
type FileConfig struct {
	Chain     ChainFileConfig     `toml:"chain"`
	Token     TokenFileConfig     `toml:"token"`
	Paymaster PaymasterFileConfig `toml:"paymaster"`
	Server    ServerFileConfig    `toml:"server"`
}

type ChainFileConfig struct {
	ChainID             uint64 `toml:"chain_id"`
	Owner               string `toml:"owner"`
	OwnerBalanceEther   string `toml:"owner_balance_ether"`
	DefaultGasPriceGwei string `toml:"default_gas_price_gwei"`
	DefaultGasLimit     uint64 `toml:"default_gas_limit"`
}

type TokenFileConfig struct {
	Name                string        `toml:"name"`
	Symbol              string        `toml:"symbol"`
	ProposalThreshold   string        `toml:"proposal_threshold"` // tokens
	DefaultVotingPeriod time.Duration `toml:"default_voting_period"`
	MinVotingPeriod     time.Duration `toml:"min_voting_period"`
	MaxVotingPeriod     time.Duration `toml:"max_voting_period"`
	ExecutionPolicy     string        `toml:"execution_policy"`
	AllowLateVotes      *bool         `toml:"allow_late_votes"`
}

type PaymasterFileConfig struct {
	MaxGasPriceGwei string `toml:"max_gas_price_gwei"`
	MaxGasLimit     uint64 `toml:"max_gas_limit"`
	MinVotingPower  string `toml:"min_voting_power"` // tokens
	BalanceEther    string `toml:"balance_ether"`
}

type ServerFileConfig struct {
	Listen string `toml:"listen"`
}

// ChainConfig is the resolved genesis of the local ledger
type ChainConfig struct {
	ChainID         uint64
	Owner           common.Address
	OwnerBalance    *big.Int
	DefaultGasPrice *big.Int
	DefaultGasLimit uint64

	Token     TokenConfig
	Paymaster models.PaymasterParameters
	// PaymasterBalance is deposited into the paymaster at genesis
	PaymasterBalance *big.Int
}

// TokenConfig holds the governance rules of the token
type TokenConfig struct {
	Name                string
	Symbol              string
	ProposalThreshold   *big.Int
	DefaultVotingPeriod time.Duration
	MinVotingPeriod     time.Duration
	MaxVotingPeriod     time.Duration
	ExecutionPolicy     string
	AllowLateVotes      bool
}
