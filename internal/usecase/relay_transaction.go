package usecase

import (
	"context"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// RelayTransactionResult contains the receipt of a relayed transaction and
// its decoded events
type RelayTransactionResult struct {
	Receipt *ledger.Receipt
	Events  []domain.ParsedEvent
}

// SigningHashResult is what a client signs before relaying a transaction
type SigningHashResult struct {
	Hash    common.Hash `json:"hash"`
	Nonce   uint64      `json:"nonce"`
	ChainID uint64      `json:"chainId"`
}

// RelayTransaction submits a transaction built and signed by a client, such
// as a frontend sending sponsored governance calls. The signature must
// recover to the sender; the ledger checks it against the hash the
// transaction is included under. A reverted transaction is a result, not an
// error.
type RelayTransaction struct {
	tx    *Transactor
	chain Chain
}

// NewRelayTransaction creates a new RelayTransaction use case
func NewRelayTransaction(tx *Transactor, chain Chain) *RelayTransaction {
	return &RelayTransaction{tx: tx, chain: chain}
}

// SigningHash returns the hash the client must sign for tx to be relayed now
func (uc *RelayTransaction) SigningHash(_ context.Context, tx *ledger.Transaction) (*SigningHashResult, error) {
	hash, err := uc.chain.SigningHash(tx)
	if err != nil {
		return nil, err
	}
	return &SigningHashResult{
		Hash:    hash,
		Nonce:   uc.chain.Nonce(tx.From),
		ChainID: uc.chain.ChainID(),
	}, nil
}

// Run submits tx. Unsigned transactions are refused before they reach the
// ledger.
func (uc *RelayTransaction) Run(ctx context.Context, tx *ledger.Transaction) (*RelayTransactionResult, error) {
	if tx == nil || len(tx.Signature) == 0 {
		return nil, domain.ErrMissingSignature
	}
	receipt, err := uc.tx.Submit(ctx, tx)
	if err != nil {
		return nil, err
	}
	return &RelayTransactionResult{Receipt: receipt, Events: uc.tx.Events(receipt)}, nil
}
