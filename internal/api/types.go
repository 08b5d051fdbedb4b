package api

import (
	"math/big"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

type HealthResponse struct {
	IsHealthy   bool      `json:"is_healthy"`
	BlockNumber uint64    `json:"block_number"`
	Time        time.Time `json:"time"`
}

type ProposalListResponse struct {
	Proposals []*usecase.ProposalView       `json:"proposals"`
	Summary   map[models.ProposalStatus]int `json:"summary"`
	Time      time.Time                     `json:"time"`
}

type ProposalResponse struct {
	Proposal   *usecase.ProposalView `json:"proposal"`
	Votes      []usecase.VoteRecord  `json:"votes"`
	Executable bool                  `json:"executable"`
	Time       time.Time             `json:"time"`
}

type VoteReceiptResponse struct {
	ProposalID uint64         `json:"proposal_id"`
	Voter      common.Address `json:"voter"`
	models.VoteReceipt
}

type VotingPowerResponse struct {
	Address     common.Address `json:"address"`
	VotingPower *big.Int       `json:"voting_power"`
	Balance     *big.Int       `json:"balance"`
	Delegate    common.Address `json:"delegate"`
}

type UserResponse struct {
	Address common.Address `json:"address"`
	Blocked bool           `json:"blocked"`
	models.UserStats
}

type EventResponse struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type TransactionResponse struct {
	Receipt *ledger.Receipt `json:"receipt"`
	Events  []EventResponse `json:"events"`
	// Error is the revert reason of a reverted transaction
	Error string `json:"error,omitempty"`
}

func newEventResponses(events []domain.ParsedEvent) []EventResponse {
	out := make([]EventResponse, len(events))
	for i, e := range events {
		out[i] = EventResponse{Event: e.ContractEventName(), Data: e}
	}
	return out
}
