package governance

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// State is the persistent storage of a governance token
type State struct {
	Owner       common.Address                                    `json:"owner"`
	Paused      bool                                              `json:"paused"`
	TotalSupply *big.Int                                          `json:"totalSupply"`
	Balances    map[common.Address]*big.Int                       `json:"balances"`
	Allowances  map[common.Address]map[common.Address]*big.Int    `json:"allowances"`
	Delegates   map[common.Address]common.Address                 `json:"delegates"`
	Votes       map[common.Address]*big.Int                       `json:"votes"`
	Proposals   []*models.Proposal                                `json:"proposals"`
	Receipts    map[uint64]map[common.Address]*models.VoteReceipt `json:"receipts"`
}

// NewState creates the empty storage of a token owned by owner
func NewState(owner common.Address) *State {
	s := &State{Owner: owner}
	s.init()
	return s
}

func (s *State) init() {
	if s.TotalSupply == nil {
		s.TotalSupply = new(big.Int)
	}
	if s.Balances == nil {
		s.Balances = make(map[common.Address]*big.Int)
	}
	if s.Allowances == nil {
		s.Allowances = make(map[common.Address]map[common.Address]*big.Int)
	}
	if s.Delegates == nil {
		s.Delegates = make(map[common.Address]common.Address)
	}
	if s.Votes == nil {
		s.Votes = make(map[common.Address]*big.Int)
	}
	if s.Receipts == nil {
		s.Receipts = make(map[uint64]map[common.Address]*models.VoteReceipt)
	}
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	c := &State{
		Owner:       s.Owner,
		Paused:      s.Paused,
		TotalSupply: new(big.Int).Set(s.TotalSupply),
		Balances:    cloneAmounts(s.Balances),
		Allowances:  make(map[common.Address]map[common.Address]*big.Int, len(s.Allowances)),
		Delegates:   make(map[common.Address]common.Address, len(s.Delegates)),
		Votes:       cloneAmounts(s.Votes),
		Proposals:   make([]*models.Proposal, len(s.Proposals)),
		Receipts:    make(map[uint64]map[common.Address]*models.VoteReceipt, len(s.Receipts)),
	}
	for owner, spenders := range s.Allowances {
		c.Allowances[owner] = cloneAmounts(spenders)
	}
	for k, v := range s.Delegates {
		c.Delegates[k] = v
	}
	for i, p := range s.Proposals {
		c.Proposals[i] = p.Clone()
	}
	for id, votes := range s.Receipts {
		m := make(map[common.Address]*models.VoteReceipt, len(votes))
		for voter, r := range votes {
			rc := *r
			rc.Weight = new(big.Int).Set(r.Weight)
			m[voter] = &rc
		}
		c.Receipts[id] = m
	}
	return c
}

func cloneAmounts(m map[common.Address]*big.Int) map[common.Address]*big.Int {
	c := make(map[common.Address]*big.Int, len(m))
	for k, v := range m {
		c[k] = new(big.Int).Set(v)
	}
	return c
}

// Token is an ERC20 governance token with delegated voting power and a
// proposal/vote/execute state machine. All methods are safe for concurrent
// use; every mutating call validates completely before it changes state, so
// a failed call leaves no partial effects.
type Token struct {
	mu     sync.RWMutex
	cfg    Config
	state  *State
	clock  domain.Clock
	emit   func(domain.ParsedEvent)
	logger *slog.Logger
}

// Option configures a Token
type Option func(*Token)

// WithClock sets the source of block time
func WithClock(clock domain.Clock) Option {
	return func(t *Token) {
		t.clock = clock
	}
}

// WithEmitter sets the receiver of emitted events
func WithEmitter(emit func(domain.ParsedEvent)) Option {
	return func(t *Token) {
		t.emit = emit
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(t *Token) {
		t.logger = logger
	}
}

// New deploys a token owned by owner and returns it together with the
// owner's admin capability.
func New(owner common.Address, cfg Config, opts ...Option) (*Token, *Admin, error) {
	if owner == (common.Address{}) {
		return nil, nil, fmt.Errorf("owner: %w", domain.ErrZeroAddress)
	}
	t, err := Restore(NewState(owner), cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	t.emitEvent(&domain.OwnershipTransferredEvent{NewOwner: owner})
	return t, &Admin{token: t, holder: owner}, nil
}

// Restore rebuilds a token from previously persisted state
func Restore(state *State, cfg Config, opts ...Option) (*Token, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid governance config: %w", err)
	}
	if state == nil {
		return nil, fmt.Errorf("token state is nil")
	}
	state.init()

	t := &Token{
		cfg:   cfg,
		state: state,
		clock: domain.SystemClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t.logger = t.logger.With("component", "governance")
	return t, nil
}

// Config returns the governance rules
func (t *Token) Config() Config {
	return t.cfg
}

func (t *Token) emitEvent(event domain.ParsedEvent) {
	if t.emit != nil {
		t.emit(event)
	}
}

// Name returns the token name
func (t *Token) Name() string { return t.cfg.Name }

// Symbol returns the token symbol
func (t *Token) Symbol() string { return t.cfg.Symbol }

// Decimals returns the token precision
func (t *Token) Decimals() uint8 { return domain.TokenDecimals }

// Owner returns the current owner address
func (t *Token) Owner() common.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Owner
}

// Paused reports whether the token is paused
func (t *Token) Paused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Paused
}

// TotalSupply returns the number of tokens in existence
func (t *Token) TotalSupply() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.state.TotalSupply)
}

// BalanceOf returns the balance of account
func (t *Token) BalanceOf(account common.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.balance(account))
}

// Allowance returns how much spender may move on behalf of owner
func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.allowance(owner, spender))
}

// Delegates returns the delegatee of account, or the zero address
func (t *Token) Delegates(account common.Address) common.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Delegates[account]
}

// VotingPower returns the sum of balances delegated to account
func (t *Token) VotingPower(account common.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.votes(account))
}

// Snapshot returns a deep copy of the token storage
func (t *Token) Snapshot() *State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone()
}

var zero = new(big.Int)

func (t *Token) balance(account common.Address) *big.Int {
	if b, ok := t.state.Balances[account]; ok {
		return b
	}
	return zero
}

func (t *Token) votes(account common.Address) *big.Int {
	if v, ok := t.state.Votes[account]; ok {
		return v
	}
	return zero
}

func (t *Token) allowance(owner, spender common.Address) *big.Int {
	if a, ok := t.state.Allowances[owner][spender]; ok {
		return a
	}
	return zero
}

func addTo(m map[common.Address]*big.Int, account common.Address, delta *big.Int) *big.Int {
	v, ok := m[account]
	if !ok {
		v = new(big.Int)
		m[account] = v
	}
	v.Add(v, delta)
	if v.Sign() == 0 {
		delete(m, account)
	}
	return v
}

// mint credits amount to account. Callers validate beforehand.
func (t *Token) mint(to common.Address, amount *big.Int) {
	t.state.TotalSupply.Add(t.state.TotalSupply, amount)
	addTo(t.state.Balances, to, amount)
	t.emitEvent(&domain.TransferEvent{To: to, Value: new(big.Int).Set(amount)})
	t.moveVotingPower(common.Address{}, t.state.Delegates[to], amount)
}

// moveVotingPower shifts amount of voting power from src's tally to dst's.
// The zero address stands for "no delegatee" and has no tally.
func (t *Token) moveVotingPower(src, dst common.Address, amount *big.Int) {
	if src == dst || amount.Sign() == 0 {
		return
	}
	if src != (common.Address{}) {
		previous := new(big.Int).Set(t.votes(src))
		updated := addTo(t.state.Votes, src, new(big.Int).Neg(amount))
		t.emitEvent(&domain.DelegateVotesChangedEvent{
			Delegate:      src,
			PreviousVotes: previous,
			NewVotes:      new(big.Int).Set(updated),
		})
	}
	if dst != (common.Address{}) {
		previous := new(big.Int).Set(t.votes(dst))
		updated := addTo(t.state.Votes, dst, amount)
		t.emitEvent(&domain.DelegateVotesChangedEvent{
			Delegate:      dst,
			PreviousVotes: previous,
			NewVotes:      new(big.Int).Set(updated),
		})
	}
}

func (t *Token) checkTransfer(from, to common.Address, amount *big.Int) error {
	if t.state.Paused {
		return domain.ErrEnforcedPause
	}
	if to == (common.Address{}) {
		return fmt.Errorf("receiver: %w", domain.ErrZeroAddress)
	}
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidCalldata
	}
	if t.balance(from).Cmp(amount) < 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (t *Token) transfer(from, to common.Address, amount *big.Int) {
	addTo(t.state.Balances, from, new(big.Int).Neg(amount))
	addTo(t.state.Balances, to, amount)
	t.emitEvent(&domain.TransferEvent{From: from, To: to, Value: new(big.Int).Set(amount)})
	t.moveVotingPower(t.state.Delegates[from], t.state.Delegates[to], amount)
}

// Transfer moves amount from sender to to, carrying its voting power along
// to the recipient's delegatee.
func (t *Token) Transfer(sender, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkTransfer(sender, to, amount); err != nil {
		return err
	}
	t.transfer(sender, to, amount)
	return nil
}

// Approve sets the amount spender may transfer on behalf of owner
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if spender == (common.Address{}) {
		return fmt.Errorf("spender: %w", domain.ErrZeroAddress)
	}
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidCalldata
	}
	spenders, ok := t.state.Allowances[owner]
	if !ok {
		spenders = make(map[common.Address]*big.Int)
		t.state.Allowances[owner] = spenders
	}
	if amount.Sign() == 0 {
		delete(spenders, spender)
	} else {
		spenders[spender] = new(big.Int).Set(amount)
	}
	t.emitEvent(&domain.ApprovalEvent{Owner: owner, Spender: spender, Value: new(big.Int).Set(amount)})
	return nil
}

// TransferFrom moves amount from from to to using spender's allowance
func (t *Token) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkTransfer(from, to, amount); err != nil {
		return err
	}
	if t.allowance(from, spender).Cmp(amount) < 0 {
		return domain.ErrInsufficientAllowance
	}
	if amount.Sign() > 0 {
		addTo(t.state.Allowances[from], spender, new(big.Int).Neg(amount))
	}
	t.transfer(from, to, amount)
	return nil
}

// Delegate points delegator's voting power at delegatee. Delegating to the
// zero address withdraws it. This backs both delegate(address) and
// delegateVoting(address).
func (t *Token) Delegate(delegator, delegatee common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.state.Delegates[delegator]
	if delegatee == (common.Address{}) {
		delete(t.state.Delegates, delegator)
	} else {
		t.state.Delegates[delegator] = delegatee
	}
	t.emitEvent(&domain.DelegateChangedEvent{
		Delegator:    delegator,
		FromDelegate: current,
		ToDelegate:   delegatee,
	})
	t.moveVotingPower(current, delegatee, t.balance(delegator))

	t.logger.Debug("delegated voting power", "delegator", delegator, "delegatee", delegatee)
	return nil
}
