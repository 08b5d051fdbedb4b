package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// Call describes a contract call or value transfer sent as the configured
// account
type Call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
	// Label is shown while the transaction is submitted
	Label string
}

// Transactor submits transactions to the chain and persists the resulting
// state. Every write use case goes through it.
type Transactor struct {
	mu       sync.Mutex
	chain    Chain
	store    StateStore
	cfg      *config.RuntimeConfig
	progress ProgressSink
	pmABI    *bindings.GovernancePaymaster
}

// NewTransactor creates a new transactor
func NewTransactor(chain Chain, store StateStore, cfg *config.RuntimeConfig, progress ProgressSink) *Transactor {
	return &Transactor{
		chain:    chain,
		store:    store,
		cfg:      cfg,
		progress: progress,
		pmABI:    bindings.NewGovernancePaymaster(),
	}
}

// Sender returns the account calls are sent as
func (t *Transactor) Sender() common.Address {
	return t.cfg.From
}

// Send builds a transaction from call using the configured sender and gas
// settings, and submits it. A reverted transaction is returned together with
// an error wrapping its revert error.
func (t *Transactor) Send(ctx context.Context, call Call) (*ledger.Receipt, error) {
	tx := &ledger.Transaction{
		From:     t.cfg.From,
		To:       call.To,
		Value:    call.Value,
		Data:     call.Data,
		GasPrice: t.cfg.GasPrice,
		GasLimit: t.cfg.GasLimit,
	}
	if t.cfg.Sponsored {
		pm := t.chain.PaymasterAddress()
		tx.Paymaster = &pm
		tx.PaymasterInput = t.pmABI.PackGeneralFlow(nil)
	}

	label := call.Label
	if label == "" {
		label = "Submitting transaction"
	}
	t.progress.OnProgress(ctx, ProgressEvent{Stage: "submitting", Message: label, Spinner: true})
	receipt, err := t.Submit(ctx, tx)
	t.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: label})
	if err != nil {
		return nil, err
	}
	if !receipt.Succeeded() {
		return receipt, revertError(receipt)
	}
	return receipt, nil
}

// Submit submits tx as is and saves the ledger when it was included,
// reverted or not.
func (t *Transactor) Submit(ctx context.Context, tx *ledger.Transaction) (*ledger.Receipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	receipt, err := t.chain.Submit(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("transaction rejected: %w", err)
	}
	if err := t.store.Save(ctx, t.chain.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}
	return receipt, nil
}

// Persist runs fn, which changes the chain outside of a transaction, and
// saves the result
func (t *Transactor) Persist(ctx context.Context, fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	if err := t.store.Save(ctx, t.chain.Snapshot()); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Events decodes the logs of a receipt
func (t *Transactor) Events(receipt *ledger.Receipt) []domain.ParsedEvent {
	return decodeEvents(t.chain, receipt)
}

func decodeEvents(chain Chain, receipt *ledger.Receipt) []domain.ParsedEvent {
	events := make([]domain.ParsedEvent, 0, len(receipt.Logs))
	for _, log := range receipt.Logs {
		event, err := chain.DecodeLog(log)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}

func revertError(receipt *ledger.Receipt) error {
	if receipt.Err != nil {
		return fmt.Errorf("transaction %s reverted: %w", receipt.TxHash.Hex(), receipt.Err)
	}
	return fmt.Errorf("transaction %s reverted: %s", receipt.TxHash.Hex(), receipt.RevertReason)
}
