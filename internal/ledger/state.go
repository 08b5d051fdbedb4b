package ledger

import (
	"math/big"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/governance"
	"github.com/bloom-dao/bloomgov/internal/paymaster"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// State is the complete persisted ledger document
type State struct {
	ChainID          uint64                      `json:"chainId"`
	TokenAddress     common.Address              `json:"tokenAddress"`
	PaymasterAddress common.Address              `json:"paymasterAddress"`
	BlockNumber      uint64                      `json:"blockNumber"`
	TimeOffset       time.Duration               `json:"timeOffset"`
	LastBlockTime    time.Time                   `json:"lastBlockTime"`
	Nonces           map[common.Address]uint64   `json:"nonces"`
	Balances         map[common.Address]*big.Int `json:"balances"`
	FeesCollected    *big.Int                    `json:"feesCollected"`
	Token            *governance.State           `json:"token"`
	Paymaster        *paymaster.State            `json:"paymaster"`
	Receipts         []*Receipt                  `json:"receipts"`
}

func (s *State) init() {
	if s.Nonces == nil {
		s.Nonces = make(map[common.Address]uint64)
	}
	if s.Balances == nil {
		s.Balances = make(map[common.Address]*big.Int)
	}
	if s.FeesCollected == nil {
		s.FeesCollected = new(big.Int)
	}
}

// Transaction is a call or value transfer submitted to the ledger. Setting
// Paymaster asks that paymaster to cover the gas.
type Transaction struct {
	From           common.Address  `json:"from"`
	To             common.Address  `json:"to"`
	Value          *big.Int        `json:"value,omitempty"`
	Data           hexutil.Bytes   `json:"data,omitempty"`
	GasPrice       *big.Int        `json:"gasPrice,omitempty"`
	GasLimit       uint64          `json:"gasLimit,omitempty"`
	Paymaster      *common.Address `json:"paymaster,omitempty"`
	PaymasterInput hexutil.Bytes   `json:"paymasterInput,omitempty"`
	// Signature is a 65 byte [R || S || V] secp256k1 signature of the
	// transaction hash by From. When present the ledger rejects the
	// transaction unless it recovers to From.
	Signature hexutil.Bytes `json:"signature,omitempty"`
}

// Sponsored reports whether the transaction names a paymaster
func (tx *Transaction) Sponsored() bool {
	return tx.Paymaster != nil && *tx.Paymaster != (common.Address{})
}

// Receipt is the outcome of an included transaction
type Receipt struct {
	TxHash       common.Hash                 `json:"transactionHash"`
	BlockNumber  uint64                      `json:"blockNumber"`
	Timestamp    time.Time                   `json:"timestamp"`
	From         common.Address              `json:"from"`
	To           common.Address              `json:"to"`
	Nonce        uint64                      `json:"nonce"`
	Status       uint64                      `json:"status"`
	Method       string                      `json:"method,omitempty"`
	Sponsorship  *models.SponsorshipDecision `json:"sponsorship,omitempty"`
	Payer        common.Address              `json:"payer"`
	GasCharged   *big.Int                    `json:"gasCharged"`
	Logs         []*types.Log                `json:"logs"`
	ReturnData   hexutil.Bytes               `json:"returnData,omitempty"`
	RevertReason string                      `json:"revertReason,omitempty"`

	// Err is the typed revert error of a failed receipt. It is not persisted.
	Err error `json:"-"`
}

// Succeeded reports whether the call did not revert
func (r *Receipt) Succeeded() bool {
	return r.Status == types.ReceiptStatusSuccessful
}

// Sponsored reports whether a paymaster paid the gas
func (r *Receipt) Sponsored() bool {
	return r.Sponsorship != nil && r.Sponsorship.Approved
}

func cloneReceipt(r *Receipt) *Receipt {
	c := *r
	if r.GasCharged != nil {
		c.GasCharged = new(big.Int).Set(r.GasCharged)
	}
	c.Logs = make([]*types.Log, len(r.Logs))
	for i, l := range r.Logs {
		lc := cloneLog(l)
		c.Logs[i] = &lc
	}
	return &c
}

func cloneLog(l *types.Log) types.Log {
	c := *l
	c.Topics = append([]common.Hash(nil), l.Topics...)
	c.Data = append([]byte(nil), l.Data...)
	return c
}
