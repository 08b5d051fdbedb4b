package config

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// StoreKind selects the backend the ledger document is persisted in
type StoreKind string

const (
	StoreJSON   StoreKind = "json"
	StoreBadger StoreKind = "badger"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	Store       StoreKind

	// From is the account transactions are sent as
	From common.Address

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Gas settings for submitted transactions. A nil GasPrice or zero
	// GasLimit falls back to the chain defaults.
	Sponsored bool
	GasPrice  *big.Int
	GasLimit  uint64

	// ListenAddr is where `bloomgov serve` binds the REST API
	ListenAddr string

	// Config source tracking
	ConfigSource string // "bloomgov.toml" or "defaults"

	// Resolved chain genesis and rules
	Chain *ChainConfig
}
