package paymaster

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/prometheus/client_golang/prometheus"
)

// VotingPowerSource reports live voting power. *governance.Token satisfies it.
type VotingPowerSource interface {
	VotingPower(account common.Address) *big.Int
}

func selector(signature string) [4]byte {
	var s [4]byte
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

var (
	// GeneralFlowSelector identifies the general(bytes) paymaster flow
	GeneralFlowSelector = selector("general(bytes)")

	// AllowedFunctions are the governance calls eligible for sponsorship
	AllowedFunctions = []string{
		"vote(uint256,bool)",
		"createProposal(string,uint256)",
		"delegateVoting(address)",
		"delegate(address)",
	}

	allowedSelectors = func() map[[4]byte]string {
		m := make(map[[4]byte]string, len(AllowedFunctions))
		for _, sig := range AllowedFunctions {
			m[selector(sig)] = sig
		}
		return m
	}()
)

// DefaultParameters returns the limits the paymaster is deployed with
func DefaultParameters() models.PaymasterParameters {
	return models.PaymasterParameters{
		MaxGasPrice:    big.NewInt(50 * params.GWei),
		MaxGasLimit:    1_000_000,
		MinVotingPower: domain.Tokens(1),
	}
}

// State is the persistent storage of a paymaster
type State struct {
	Owner             common.Address                       `json:"owner"`
	GovernanceToken   common.Address                       `json:"governanceToken"`
	Paused            bool                                 `json:"paused"`
	Parameters        models.PaymasterParameters           `json:"parameters"`
	Blocked           map[common.Address]bool              `json:"blocked"`
	Balance           *big.Int                             `json:"balance"`
	TotalTransactions uint64                               `json:"totalTransactions"`
	TotalGasPaid      *big.Int                             `json:"totalGasPaid"`
	Users             map[common.Address]*models.UserStats `json:"users"`
}

// NewState creates the storage of a freshly deployed paymaster
func NewState(owner, token common.Address, p models.PaymasterParameters) *State {
	s := &State{
		Owner:           owner,
		GovernanceToken: token,
		Parameters:      p.Clone(),
	}
	s.init()
	return s
}

func (s *State) init() {
	if s.Blocked == nil {
		s.Blocked = make(map[common.Address]bool)
	}
	if s.Balance == nil {
		s.Balance = new(big.Int)
	}
	if s.TotalGasPaid == nil {
		s.TotalGasPaid = new(big.Int)
	}
	if s.Users == nil {
		s.Users = make(map[common.Address]*models.UserStats)
	}
	// parameters missing from persisted state fall back to the defaults
	d := DefaultParameters()
	if s.Parameters.MaxGasPrice == nil {
		s.Parameters.MaxGasPrice = d.MaxGasPrice
	}
	if s.Parameters.MaxGasLimit == 0 {
		s.Parameters.MaxGasLimit = d.MaxGasLimit
	}
	if s.Parameters.MinVotingPower == nil {
		s.Parameters.MinVotingPower = d.MinVotingPower
	}
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	c := &State{
		Owner:             s.Owner,
		GovernanceToken:   s.GovernanceToken,
		Paused:            s.Paused,
		Parameters:        s.Parameters.Clone(),
		Blocked:           make(map[common.Address]bool, len(s.Blocked)),
		Balance:           new(big.Int).Set(s.Balance),
		TotalTransactions: s.TotalTransactions,
		TotalGasPaid:      new(big.Int).Set(s.TotalGasPaid),
		Users:             make(map[common.Address]*models.UserStats, len(s.Users)),
	}
	for k, v := range s.Blocked {
		c.Blocked[k] = v
	}
	for k, v := range s.Users {
		c.Users[k] = &models.UserStats{TxCount: v.TxCount, GasPaid: new(big.Int).Set(v.GasPaid)}
	}
	return c
}

// Paymaster sponsors the gas of allowlisted governance calls for eligible
// token holders.
type Paymaster struct {
	mu      sync.RWMutex
	state   *State
	votes   VotingPowerSource
	emit    func(domain.ParsedEvent)
	logger  *slog.Logger
	metrics *metrics
}

// Option configures a Paymaster
type Option func(*Paymaster)

// WithEmitter sets the receiver of emitted events
func WithEmitter(emit func(domain.ParsedEvent)) Option {
	return func(p *Paymaster) {
		p.emit = emit
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Paymaster) {
		p.logger = logger
	}
}

// WithPromRegistry registers the sponsorship metrics on reg
func WithPromRegistry(reg prometheus.Registerer) Option {
	return func(p *Paymaster) {
		p.metrics = newMetrics(reg)
	}
}

// New deploys a paymaster for token owned by owner and returns it together
// with the owner's admin capability.
func New(owner, token common.Address, votes VotingPowerSource, p models.PaymasterParameters, opts ...Option) (*Paymaster, *Admin, error) {
	if owner == (common.Address{}) {
		return nil, nil, fmt.Errorf("owner: %w", domain.ErrZeroAddress)
	}
	if token == (common.Address{}) {
		return nil, nil, domain.ErrInvalidGovernanceToken
	}
	if err := validateParameters(p.MaxGasPrice, p.MaxGasLimit, p.MinVotingPower); err != nil {
		return nil, nil, err
	}
	pm, err := Restore(NewState(owner, token, p), votes, opts...)
	if err != nil {
		return nil, nil, err
	}
	pm.emitEvent(&domain.OwnershipTransferredEvent{NewOwner: owner})
	return pm, &Admin{paymaster: pm, holder: owner}, nil
}

// Restore rebuilds a paymaster from previously persisted state
func Restore(state *State, votes VotingPowerSource, opts ...Option) (*Paymaster, error) {
	if state == nil {
		return nil, fmt.Errorf("paymaster state is nil")
	}
	if votes == nil {
		return nil, fmt.Errorf("voting power source is nil")
	}
	if state.GovernanceToken == (common.Address{}) {
		return nil, domain.ErrInvalidGovernanceToken
	}
	state.init()
	stored := state.Parameters
	if err := validateParameters(stored.MaxGasPrice, stored.MaxGasLimit, stored.MinVotingPower); err != nil {
		return nil, fmt.Errorf("invalid paymaster parameters: %w", err)
	}

	p := &Paymaster{state: state, votes: votes}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.logger = p.logger.With("component", "paymaster")
	p.metrics.setBalance(state.Balance)
	return p, nil
}

func (p *Paymaster) emitEvent(event domain.ParsedEvent) {
	if p.emit != nil {
		p.emit(event)
	}
}

// IsAllowedGovernanceFunction reports whether calls with this selector may be
// sponsored. It backs both isAllowedGovernanceFunction and isFunctionSupported.
func IsAllowedGovernanceFunction(sel [4]byte) bool {
	_, ok := allowedSelectors[sel]
	return ok
}

// Owner returns the current owner address
func (p *Paymaster) Owner() common.Address {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Owner
}

// GovernanceToken returns the address of the token whose calls are sponsored
func (p *Paymaster) GovernanceToken() common.Address {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.GovernanceToken
}

// Paused reports whether sponsorship is paused
func (p *Paymaster) Paused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Paused
}

// IsBlocked reports whether user is denied sponsorship
func (p *Paymaster) IsBlocked(user common.Address) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Blocked[user]
}

// Parameters returns the current sponsorship limits
func (p *Paymaster) Parameters() models.PaymasterParameters {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Parameters.Clone()
}

// Balance returns the native balance held for sponsorship
func (p *Paymaster) Balance() *big.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return new(big.Int).Set(p.state.Balance)
}

// Stats returns the global sponsorship accounting
func (p *Paymaster) Stats() models.PaymasterStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return models.PaymasterStats{
		TotalTransactions: p.state.TotalTransactions,
		TotalGasPaid:      new(big.Int).Set(p.state.TotalGasPaid),
		Balance:           new(big.Int).Set(p.state.Balance),
		Paused:            p.state.Paused,
	}
}

// UserStats returns the sponsorship accounting of user
func (p *Paymaster) UserStats(user common.Address) models.UserStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.state.Users[user]; ok {
		return models.UserStats{TxCount: s.TxCount, GasPaid: new(big.Int).Set(s.GasPaid)}
	}
	return models.UserStats{GasPaid: new(big.Int)}
}

// Snapshot returns a deep copy of the paymaster storage
func (p *Paymaster) Snapshot() *State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Clone()
}

// IsEligible reports whether user would currently qualify for sponsorship.
// The answer is informational; ValidateAndPay re-evaluates it.
func (p *Paymaster) IsEligible(user common.Address) bool {
	return p.Eligibility(user) == models.DeclineNone
}

// Eligibility returns why user would be declined, or DeclineNone
func (p *Paymaster) Eligibility(user common.Address) models.DeclineReason {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.eligibility(user)
}

func (p *Paymaster) eligibility(user common.Address) models.DeclineReason {
	switch {
	case p.state.Paused:
		return models.DeclinePaused
	case p.state.Blocked[user]:
		return models.DeclineUserBlocked
	case p.votes.VotingPower(user).Cmp(p.state.Parameters.MinVotingPower) < 0:
		return models.DeclineInsufficientVotingPower
	}
	return models.DeclineNone
}

// ValidateAndPay decides whether to sponsor req and, on approval, debits
// gasPrice*gasLimit from the balance and records the sponsorship. The decision
// and the debit happen under one lock. A decline is a value, not an error.
func (p *Paymaster) ValidateAndPay(req models.SponsorshipRequest) models.SponsorshipDecision {
	p.mu.Lock()
	defer p.mu.Unlock()

	decision := p.decide(req)
	if !decision.Approved {
		p.metrics.declined(decision.Reason)
		p.logger.Debug("sponsorship declined", "user", req.From, "reason", decision.Reason)
		return decision
	}

	cost := decision.Cost
	p.state.Balance.Sub(p.state.Balance, cost)
	p.state.TotalTransactions++
	p.state.TotalGasPaid.Add(p.state.TotalGasPaid, cost)
	user, ok := p.state.Users[req.From]
	if !ok {
		user = &models.UserStats{GasPaid: new(big.Int)}
		p.state.Users[req.From] = user
	}
	user.TxCount++
	user.GasPaid.Add(user.GasPaid, cost)

	sel, _ := callSelector(req.Data)
	p.emitEvent(&domain.TransactionSponsoredEvent{
		User:     req.From,
		Selector: sel,
		GasPrice: new(big.Int).Set(req.GasPrice),
		GasLimit: new(big.Int).SetUint64(req.GasLimit),
		Cost:     new(big.Int).Set(cost),
	})
	p.metrics.sponsored(cost, p.state.Balance)

	p.logger.Info("transaction sponsored", "user", req.From, "selector", allowedSelectors[sel], "cost", cost)
	return decision
}

func callSelector(data []byte) ([4]byte, bool) {
	var s [4]byte
	if len(data) < 4 {
		return s, false
	}
	copy(s[:], data[:4])
	return s, true
}

func (p *Paymaster) decide(req models.SponsorshipRequest) models.SponsorshipDecision {
	decline := func(r models.DeclineReason) models.SponsorshipDecision {
		return models.SponsorshipDecision{Reason: r}
	}

	if p.state.Paused {
		return decline(models.DeclinePaused)
	}
	if flow, ok := callSelector(req.PaymasterInput); !ok || flow != GeneralFlowSelector {
		return decline(models.DeclineUnsupportedFlow)
	}
	if req.To != p.state.GovernanceToken {
		return decline(models.DeclineUnsupportedTarget)
	}
	if sel, ok := callSelector(req.Data); !ok || !IsAllowedGovernanceFunction(sel) {
		return decline(models.DeclineFunctionNotAllowed)
	}
	if reason := p.eligibility(req.From); reason != models.DeclineNone {
		return decline(reason)
	}
	if req.GasPrice == nil || req.GasPrice.Cmp(p.state.Parameters.MaxGasPrice) > 0 {
		return decline(models.DeclineGasPriceTooHigh)
	}
	if req.GasLimit > p.state.Parameters.MaxGasLimit {
		return decline(models.DeclineGasLimitTooHigh)
	}
	cost := new(big.Int).Mul(req.GasPrice, new(big.Int).SetUint64(req.GasLimit))
	if p.state.Balance.Cmp(cost) < 0 {
		return decline(models.DeclineInsufficientPaymasterBal)
	}
	return models.SponsorshipDecision{Approved: true, Cost: cost}
}

// Deposit credits a plain value transfer to the sponsorship balance
func (p *Paymaster) Deposit(from common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidTransaction
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Balance.Add(p.state.Balance, amount)
	p.emitEvent(&domain.FundsReceivedEvent{Sender: from, Amount: new(big.Int).Set(amount)})
	p.metrics.setBalance(p.state.Balance)
	return nil
}
