package usecase

import (
	"context"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/paymaster"
	"github.com/ethereum/go-ethereum/common"
)

// PaymasterInfo is the paymaster's configuration and accounting
type PaymasterInfo struct {
	Address          common.Address             `json:"address"`
	Owner            common.Address             `json:"owner"`
	GovernanceToken  common.Address             `json:"governanceToken"`
	Stats            models.PaymasterStats      `json:"stats"`
	Parameters       models.PaymasterParameters `json:"parameters"`
	AllowedFunctions []string                   `json:"allowedFunctions"`
}

// ShowPaymaster shows paymaster status
type ShowPaymaster struct {
	chain Chain
}

// NewShowPaymaster creates a new ShowPaymaster use case
func NewShowPaymaster(chain Chain) *ShowPaymaster {
	return &ShowPaymaster{chain: chain}
}

// Run executes the use case
func (uc *ShowPaymaster) Run(_ context.Context) (*PaymasterInfo, error) {
	return paymasterInfo(uc.chain), nil
}

func paymasterInfo(chain Chain) *PaymasterInfo {
	pm := chain.Paymaster()
	return &PaymasterInfo{
		Address:          chain.PaymasterAddress(),
		Owner:            pm.Owner(),
		GovernanceToken:  pm.GovernanceToken(),
		Stats:            pm.Stats(),
		Parameters:       pm.Parameters(),
		AllowedFunctions: append([]string(nil), paymaster.AllowedFunctions...),
	}
}
