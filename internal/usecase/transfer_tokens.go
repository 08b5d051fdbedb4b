package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// TransferTokensParams contains parameters for a token transfer
type TransferTokensParams struct {
	To     common.Address
	Amount *big.Int
}

// TransferTokensResult contains the result of a token transfer
type TransferTokensResult struct {
	Receipt       *ledger.Receipt
	From          common.Address
	To            common.Address
	Amount        *big.Int
	SenderBalance *big.Int
}

// TransferTokens moves governance tokens from the sender
type TransferTokens struct {
	tx       *Transactor
	chain    Chain
	tokenABI *bindings.GovernanceToken
}

// NewTransferTokens creates a new TransferTokens use case
func NewTransferTokens(tx *Transactor, chain Chain) *TransferTokens {
	return &TransferTokens{tx: tx, chain: chain, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the transfer
func (uc *TransferTokens) Run(ctx context.Context, params TransferTokensParams) (*TransferTokensResult, error) {
	if params.Amount == nil {
		return nil, fmt.Errorf("amount is required")
	}
	receipt, err := uc.tx.Send(ctx, Call{
		To:    uc.chain.TokenAddress(),
		Data:  uc.tokenABI.PackTransfer(params.To, params.Amount),
		Label: fmt.Sprintf("Transferring %s to %s", domain.FormatTokenAmount(params.Amount), params.To.Hex()),
	})
	if err != nil {
		return nil, err
	}

	sender := uc.tx.Sender()
	return &TransferTokensResult{
		Receipt:       receipt,
		From:          sender,
		To:            params.To,
		Amount:        params.Amount,
		SenderBalance: uc.chain.Token().BalanceOf(sender),
	}, nil
}
