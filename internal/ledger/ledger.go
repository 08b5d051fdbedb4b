package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/governance"
	"github.com/bloom-dao/bloomgov/internal/paymaster"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultOwner is the first account of the anvil/hardhat dev mnemonic
var DefaultOwner = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// Config describes the genesis of a ledger and the rules it runs with
type Config struct {
	ChainID          uint64
	Owner            common.Address
	Token            governance.Config
	Paymaster        models.PaymasterParameters
	OwnerBalance     *big.Int
	PaymasterBalance *big.Int

	// DefaultGasPrice and DefaultGasLimit fill in transactions that leave them unset
	DefaultGasPrice *big.Int
	DefaultGasLimit uint64
}

// DefaultConfig returns a local dev chain owned by owner
func DefaultConfig(owner common.Address) Config {
	return Config{
		ChainID:          260,
		Owner:            owner,
		Token:            governance.DefaultConfig(),
		Paymaster:        paymaster.DefaultParameters(),
		OwnerBalance:     new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether)),
		PaymasterBalance: new(big.Int).Mul(big.NewInt(10), big.NewInt(params.Ether)),
		DefaultGasPrice:  big.NewInt(params.GWei),
		DefaultGasLimit:  300_000,
	}
}

type emitted struct {
	contract common.Address
	event    domain.ParsedEvent
}

// Ledger hosts one governance token and its paymaster. It gives every
// transaction a total order, charges gas to the sender or the paymaster,
// and turns emitted events into logs.
type Ledger struct {
	mu        sync.RWMutex
	cfg       Config
	state     *State
	token     *governance.Token
	paymaster *paymaster.Paymaster
	tokenABI  *bindings.GovernanceToken
	pmABI     *bindings.GovernancePaymaster
	clock     *chainClock
	logger    *slog.Logger
	metrics   *metrics

	pendingMu sync.Mutex
	pending   []emitted
}

type options struct {
	state    *State
	clock    domain.Clock
	logger   *slog.Logger
	registry prometheus.Registerer
}

// Option configures a Ledger
type Option func(*options)

// WithState restores the ledger from a persisted document instead of
// deploying a fresh genesis.
func WithState(state *State) Option {
	return func(o *options) {
		o.state = state
	}
}

// WithClock sets the base clock block time is derived from
func WithClock(clock domain.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPromRegistry registers ledger, paymaster metrics on reg
func WithPromRegistry(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// New deploys the contracts described by cfg, or restores them when
// WithState is given.
func New(cfg Config, opts ...Option) (*Ledger, error) {
	o := options{clock: domain.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	l := &Ledger{
		cfg:      cfg,
		tokenABI: bindings.NewGovernanceToken(),
		pmABI:    bindings.NewGovernancePaymaster(),
		clock:    &chainClock{base: o.clock},
		logger:   o.logger.With("component", "ledger"),
		metrics:  newMetrics(o.registry),
	}

	var err error
	if o.state != nil {
		err = l.restore(o.state, o)
	} else {
		err = l.genesis(o)
	}
	if err != nil {
		return nil, err
	}
	l.drain()
	return l, nil
}

func (l *Ledger) tokenOptions(addr common.Address, o options) []governance.Option {
	return []governance.Option{
		governance.WithClock(l.clock),
		governance.WithEmitter(l.collector(addr)),
		governance.WithLogger(o.logger),
	}
}

func (l *Ledger) paymasterOptions(addr common.Address, o options) []paymaster.Option {
	return []paymaster.Option{
		paymaster.WithEmitter(l.collector(addr)),
		paymaster.WithLogger(o.logger),
		paymaster.WithPromRegistry(o.registry),
	}
}

func (l *Ledger) genesis(o options) error {
	cfg := l.cfg
	if cfg.Owner == (common.Address{}) {
		return fmt.Errorf("genesis owner: %w", domain.ErrZeroAddress)
	}
	tokenAddr := crypto.CreateAddress(cfg.Owner, 0)
	pmAddr := crypto.CreateAddress(cfg.Owner, 1)

	token, _, err := governance.New(cfg.Owner, cfg.Token, l.tokenOptions(tokenAddr, o)...)
	if err != nil {
		return fmt.Errorf("failed to deploy governance token: %w", err)
	}
	pm, _, err := paymaster.New(cfg.Owner, tokenAddr, token, cfg.Paymaster, l.paymasterOptions(pmAddr, o)...)
	if err != nil {
		return fmt.Errorf("failed to deploy paymaster: %w", err)
	}
	if cfg.PaymasterBalance != nil && cfg.PaymasterBalance.Sign() > 0 {
		if err := pm.Deposit(cfg.Owner, cfg.PaymasterBalance); err != nil {
			return fmt.Errorf("failed to fund paymaster: %w", err)
		}
	}

	l.token = token
	l.paymaster = pm
	l.state = &State{
		ChainID:          cfg.ChainID,
		TokenAddress:     tokenAddr,
		PaymasterAddress: pmAddr,
	}
	l.state.init()
	l.state.Nonces[cfg.Owner] = 2
	if cfg.OwnerBalance != nil && cfg.OwnerBalance.Sign() > 0 {
		l.state.Balances[cfg.Owner] = new(big.Int).Set(cfg.OwnerBalance)
	}

	l.logger.Info("genesis deployed", "owner", cfg.Owner, "token", tokenAddr, "paymaster", pmAddr)
	return nil
}

func (l *Ledger) restore(state *State, o options) error {
	if state.Token == nil || state.Paymaster == nil {
		return errors.New("ledger state is missing contract storage")
	}
	state.init()
	if l.cfg.ChainID != 0 && state.ChainID != l.cfg.ChainID {
		l.logger.Warn("configured chain id differs from stored state", "configured", l.cfg.ChainID, "stored", state.ChainID)
	}

	token, err := governance.Restore(state.Token, l.cfg.Token, l.tokenOptions(state.TokenAddress, o)...)
	if err != nil {
		return fmt.Errorf("failed to restore governance token: %w", err)
	}
	pm, err := paymaster.Restore(state.Paymaster, token, l.paymasterOptions(state.PaymasterAddress, o)...)
	if err != nil {
		return fmt.Errorf("failed to restore paymaster: %w", err)
	}

	l.token = token
	l.paymaster = pm
	l.clock.offset = state.TimeOffset
	l.clock.last = state.LastBlockTime

	// contract storage now lives in the components
	state.Token = nil
	state.Paymaster = nil
	l.state = state
	l.metrics.setBlock(state.BlockNumber)
	return nil
}

func (l *Ledger) collector(contract common.Address) func(domain.ParsedEvent) {
	return func(event domain.ParsedEvent) {
		l.pendingMu.Lock()
		defer l.pendingMu.Unlock()
		l.pending = append(l.pending, emitted{contract: contract, event: event})
	}
}

func (l *Ledger) drain() []emitted {
	l.pendingMu.Lock()
	defer l.pendingMu.Unlock()
	out := l.pending
	l.pending = nil
	return out
}

// Token returns the hosted governance token
func (l *Ledger) Token() *governance.Token { return l.token }

// Paymaster returns the hosted paymaster
func (l *Ledger) Paymaster() *paymaster.Paymaster { return l.paymaster }

// TokenAddress returns the address the token is deployed at
func (l *Ledger) TokenAddress() common.Address { return l.state.TokenAddress }

// PaymasterAddress returns the address the paymaster is deployed at
func (l *Ledger) PaymasterAddress() common.Address { return l.state.PaymasterAddress }

// ChainID returns the chain id transactions are hashed with
func (l *Ledger) ChainID() uint64 { return l.state.ChainID }

// Now returns the current block time
func (l *Ledger) Now() time.Time { return l.clock.Now() }

// BlockNumber returns the number of the latest block
func (l *Ledger) BlockNumber() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.BlockNumber
}

// NativeBalance returns the native wei balance of addr
func (l *Ledger) NativeBalance(addr common.Address) *big.Int {
	if addr == l.state.PaymasterAddress {
		return l.paymaster.Balance()
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balance(addr))
}

// Nonce returns the number of transactions addr has sent
func (l *Ledger) Nonce(addr common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Nonces[addr]
}

var zero = new(big.Int)

func (l *Ledger) balance(addr common.Address) *big.Int {
	if b, ok := l.state.Balances[addr]; ok {
		return b
	}
	return zero
}

func (l *Ledger) credit(addr common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	b, ok := l.state.Balances[addr]
	if !ok {
		b = new(big.Int)
		l.state.Balances[addr] = b
	}
	b.Add(b, amount)
}

func (l *Ledger) debit(addr common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	b := l.state.Balances[addr]
	b.Sub(b, amount)
	if b.Sign() == 0 {
		delete(l.state.Balances, addr)
	}
}

// SetBalance overwrites the native balance of addr. It is a dev faucet.
func (l *Ledger) SetBalance(addr common.Address, amount *big.Int) error {
	if addr == (common.Address{}) {
		return fmt.Errorf("account: %w", domain.ErrZeroAddress)
	}
	if addr == l.state.PaymasterAddress || addr == l.state.TokenAddress {
		return fmt.Errorf("%w: contract balances change only through transactions", domain.ErrInvalidTransaction)
	}
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrZeroAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.Sign() == 0 {
		delete(l.state.Balances, addr)
	} else {
		l.state.Balances[addr] = new(big.Int).Set(amount)
	}
	l.logger.Info("balance set", "account", addr, "amount", amount)
	return nil
}

// AdvanceTime moves block time forward by d
func (l *Ledger) AdvanceTime(d time.Duration) (time.Time, error) {
	if d <= 0 {
		return time.Time{}, fmt.Errorf("%w: time can only move forward", domain.ErrValidation)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	offset, now := l.clock.advance(d)
	l.state.TimeOffset = offset
	l.logger.Info("time advanced", "by", d, "now", now)
	return now, nil
}

// Snapshot returns a deep copy of the whole ledger, contract storage
// included.
func (l *Ledger) Snapshot() *State {
	l.mu.RLock()
	defer l.mu.RUnlock()

	offset, last := l.clock.snapshot()
	s := &State{
		ChainID:          l.state.ChainID,
		TokenAddress:     l.state.TokenAddress,
		PaymasterAddress: l.state.PaymasterAddress,
		BlockNumber:      l.state.BlockNumber,
		TimeOffset:       offset,
		LastBlockTime:    last,
		Nonces:           make(map[common.Address]uint64, len(l.state.Nonces)),
		Balances:         make(map[common.Address]*big.Int, len(l.state.Balances)),
		FeesCollected:    new(big.Int).Set(l.state.FeesCollected),
		Token:            l.token.Snapshot(),
		Paymaster:        l.paymaster.Snapshot(),
		Receipts:         make([]*Receipt, len(l.state.Receipts)),
	}
	for k, v := range l.state.Nonces {
		s.Nonces[k] = v
	}
	for k, v := range l.state.Balances {
		s.Balances[k] = new(big.Int).Set(v)
	}
	for i, r := range l.state.Receipts {
		s.Receipts[i] = cloneReceipt(r)
	}
	return s
}

// Receipts returns every included transaction's receipt in block order
func (l *Ledger) Receipts() []*Receipt {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Receipt, len(l.state.Receipts))
	for i, r := range l.state.Receipts {
		out[i] = cloneReceipt(r)
	}
	return out
}

// Receipt returns the receipt of the transaction with the given hash
func (l *Ledger) Receipt(hash common.Hash) (*Receipt, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.state.Receipts {
		if r.TxHash == hash {
			return cloneReceipt(r), true
		}
	}
	return nil, false
}

// DecodeLog turns a log emitted by a hosted contract back into its event
func (l *Ledger) DecodeLog(log *types.Log) (domain.ParsedEvent, error) {
	switch log.Address {
	case l.state.TokenAddress:
		return l.tokenABI.UnpackLog(log)
	case l.state.PaymasterAddress:
		return l.pmABI.UnpackLog(log)
	}
	return nil, fmt.Errorf("log emitted by unknown contract %s", log.Address.Hex())
}

func (l *Ledger) txHash(tx *Transaction, nonce uint64, value, gasPrice *big.Int, gasLimit uint64) (common.Hash, error) {
	var pm common.Address
	if tx.Paymaster != nil {
		pm = *tx.Paymaster
	}
	enc, err := rlp.EncodeToBytes([]any{
		l.state.ChainID, tx.From, nonce, tx.To, value, []byte(tx.Data), gasPrice, gasLimit, pm, []byte(tx.PaymasterInput),
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return crypto.Keccak256Hash(enc), nil
}

func (l *Ledger) reject(err error) (*Receipt, error) {
	l.metrics.transaction("rejected")
	return nil, err
}

// Submit executes tx as the next block. An error means the transaction was
// not included. A reverted call is included with status 0 and its revert
// error in Receipt.Err; the gas charge stands.
func (l *Ledger) Submit(ctx context.Context, tx *Transaction) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tx == nil || tx.From == (common.Address{}) || tx.To == (common.Address{}) {
		return l.reject(domain.ErrInvalidTransaction)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	value, gasPrice, gasLimit, err := l.resolve(tx)
	if err != nil {
		return l.reject(err)
	}
	if tx.Sponsored() && *tx.Paymaster != l.state.PaymasterAddress {
		return l.reject(fmt.Errorf("%w: %s", domain.ErrUnknownPaymaster, tx.Paymaster.Hex()))
	}
	if l.balance(tx.From).Cmp(value) < 0 {
		return l.reject(domain.ErrInsufficientFunds)
	}

	nonce := l.state.Nonces[tx.From]
	hash, err := l.txHash(tx, nonce, value, gasPrice, gasLimit)
	if err != nil {
		return l.reject(err)
	}
	if len(tx.Signature) > 0 {
		if err := verifySigner(hash, tx.From, tx.Signature); err != nil {
			return l.reject(err)
		}
	}

	timestamp := l.clock.pin()
	defer l.clock.unpin()
	l.drain()

	receipt := &Receipt{
		TxHash:      hash,
		BlockNumber: l.state.BlockNumber + 1,
		Timestamp:   timestamp,
		From:        tx.From,
		To:          tx.To,
		Nonce:       nonce,
		Payer:       tx.From,
	}

	if tx.Sponsored() {
		decision := l.paymaster.ValidateAndPay(models.SponsorshipRequest{
			From:           tx.From,
			To:             tx.To,
			Data:           tx.Data,
			GasPrice:       gasPrice,
			GasLimit:       gasLimit,
			PaymasterInput: tx.PaymasterInput,
		})
		receipt.Sponsorship = &decision
	}
	if receipt.Sponsored() {
		receipt.Payer = l.state.PaymasterAddress
		receipt.GasCharged = new(big.Int).Set(receipt.Sponsorship.Cost)
	} else {
		cost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
		if l.balance(tx.From).Cmp(new(big.Int).Add(cost, value)) < 0 {
			return l.reject(domain.ErrInsufficientFunds)
		}
		l.debit(tx.From, cost)
		receipt.GasCharged = cost
	}
	sponsorship := l.drain()

	l.state.FeesCollected.Add(l.state.FeesCollected, receipt.GasCharged)
	l.state.Nonces[tx.From] = nonce + 1
	l.state.BlockNumber++

	ret, method, callErr := l.execute(tx.From, tx.To, value, tx.Data)
	events := l.drain()
	receipt.Method = method
	if callErr != nil {
		receipt.Status = types.ReceiptStatusFailed
		receipt.Err = callErr
		receipt.RevertReason = domain.RevertReason(callErr)
		events = nil
	} else {
		receipt.Status = types.ReceiptStatusSuccessful
		receipt.ReturnData = ret
	}
	receipt.Logs = l.buildLogs(receipt, append(sponsorship, events...))
	l.state.Receipts = append(l.state.Receipts, receipt)

	payer := "sender"
	if receipt.Sponsored() {
		payer = "paymaster"
	}
	if receipt.Succeeded() {
		l.metrics.transaction("success")
	} else {
		l.metrics.transaction("reverted")
	}
	l.metrics.included(payer, receipt.BlockNumber)

	l.logger.Debug("transaction included",
		"hash", hash, "block", receipt.BlockNumber, "from", tx.From, "method", method,
		"status", receipt.Status, "payer", payer, "gas", receipt.GasCharged)
	return cloneReceipt(receipt), nil
}

func (l *Ledger) buildLogs(receipt *Receipt, events []emitted) []*types.Log {
	blockHash := crypto.Keccak256Hash(new(big.Int).SetUint64(receipt.BlockNumber).Bytes(), receipt.TxHash.Bytes())
	logs := make([]*types.Log, 0, len(events))
	for _, e := range events {
		var (
			log *types.Log
			err error
		)
		if e.contract == l.state.PaymasterAddress {
			log, err = l.pmABI.PackLog(e.contract, e.event)
		} else {
			log, err = l.tokenABI.PackLog(e.contract, e.event)
		}
		if err != nil {
			l.logger.Error("failed to encode event", "event", e.event.ContractEventName(), "error", err)
			continue
		}
		log.BlockNumber = receipt.BlockNumber
		log.BlockHash = blockHash
		log.TxHash = receipt.TxHash
		log.Index = uint(len(logs))
		logs = append(logs, log)
	}
	return logs
}
