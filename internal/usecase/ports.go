package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/governance"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/paymaster"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Chain is the ledger host the use cases read from and submit to
type Chain interface {
	Submit(ctx context.Context, tx *ledger.Transaction) (*ledger.Receipt, error)
	SigningHash(tx *ledger.Transaction) (common.Hash, error)
	Snapshot() *ledger.State
	Token() *governance.Token
	Paymaster() *paymaster.Paymaster
	TokenAddress() common.Address
	PaymasterAddress() common.Address
	NativeBalance(addr common.Address) *big.Int
	Nonce(addr common.Address) uint64
	ChainID() uint64
	Now() time.Time
	BlockNumber() uint64
	AdvanceTime(d time.Duration) (time.Time, error)
	SetBalance(addr common.Address, amount *big.Int) error
	FilterLogs(q ethereum.FilterQuery) []types.Log
	DecodeLog(log *types.Log) (domain.ParsedEvent, error)
}

// StateStore persists the ledger document between runs
type StateStore interface {
	// Load returns nil and no error when nothing has been saved yet
	Load(ctx context.Context) (*ledger.State, error)
	Save(ctx context.Context, state *ledger.State) error
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// ProposalSelector handles interactive selection of proposals
type ProposalSelector interface {
	SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
