package usecase

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Allocation is one recipient of a mint
type Allocation struct {
	Recipient common.Address
	Amount    *big.Int
}

// MintBatchFile is the YAML document accepted by batch minting
//
//	reason: points exchange
//	allocations:
//	  - recipient: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
//	    amount: "100"
//	  - recipient: "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
//	    amount: "12.5"
type MintBatchFile struct {
	Reason      string `yaml:"reason"`
	Allocations []struct {
		Recipient string `yaml:"recipient"`
		Amount    string `yaml:"amount"`
	} `yaml:"allocations"`
}

// MintTokensParams contains parameters for minting tokens
type MintTokensParams struct {
	Allocations []Allocation
	Reason      string
	// File is a YAML batch file; its allocations are appended to Allocations
	// and its reason is used when Reason is empty
	File string
}

// MintTokensResult contains the result of a mint
type MintTokensResult struct {
	Receipt     *ledger.Receipt
	Allocations []Allocation
	Total       *big.Int
	Reason      string
	Events      []domain.ParsedEvent
}

// MintTokens mints governance tokens as the token owner. One allocation
// is sent as mintForExchange, several as a single atomic batchMint.
type MintTokens struct {
	tx       *Transactor
	chain    Chain
	tokenABI *bindings.GovernanceToken
}

// NewMintTokens creates a new MintTokens use case
func NewMintTokens(tx *Transactor, chain Chain) *MintTokens {
	return &MintTokens{tx: tx, chain: chain, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the mint
func (uc *MintTokens) Run(ctx context.Context, params MintTokensParams) (*MintTokensResult, error) {
	allocations := append([]Allocation(nil), params.Allocations...)
	reason := params.Reason
	if params.File != "" {
		batch, fileReason, err := LoadMintBatch(params.File)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, batch...)
		if reason == "" {
			reason = fileReason
		}
	}
	if len(allocations) == 0 {
		return nil, fmt.Errorf("no allocations to mint")
	}

	total := new(big.Int)
	for _, a := range allocations {
		if a.Amount != nil {
			total.Add(total, a.Amount)
		}
	}

	var data []byte
	if len(allocations) == 1 {
		data = uc.tokenABI.PackMintForExchange(allocations[0].Recipient, allocations[0].Amount, reason)
	} else {
		recipients := make([]common.Address, len(allocations))
		amounts := make([]*big.Int, len(allocations))
		for i, a := range allocations {
			recipients[i] = a.Recipient
			amounts[i] = a.Amount
		}
		data = uc.tokenABI.PackBatchMint(recipients, amounts, reason)
	}

	receipt, err := uc.tx.Send(ctx, Call{
		To:    uc.chain.TokenAddress(),
		Data:  data,
		Label: fmt.Sprintf("Minting %s %s to %d recipient(s)", domain.FormatTokenAmount(total), uc.chain.Token().Symbol(), len(allocations)),
	})
	if err != nil {
		return nil, err
	}

	return &MintTokensResult{
		Receipt:     receipt,
		Allocations: allocations,
		Total:       total,
		Reason:      reason,
		Events:      uc.tx.Events(receipt),
	}, nil
}

// LoadMintBatch reads a YAML batch file
func LoadMintBatch(path string) ([]Allocation, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read batch file: %w", err)
	}
	var file MintBatchFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, "", fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}

	allocations := make([]Allocation, 0, len(file.Allocations))
	for i, entry := range file.Allocations {
		if !common.IsHexAddress(entry.Recipient) {
			return nil, "", fmt.Errorf("allocation %d: invalid recipient %q", i, entry.Recipient)
		}
		amount, err := domain.ParseTokenAmount(entry.Amount)
		if err != nil {
			return nil, "", fmt.Errorf("allocation %d: %w", i, err)
		}
		allocations = append(allocations, Allocation{
			Recipient: common.HexToAddress(entry.Recipient),
			Amount:    amount,
		})
	}
	return allocations, file.Reason, nil
}
