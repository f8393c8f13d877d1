package page

import (
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SweepInterval is how often expired sessions are dropped
const SweepInterval = time.Minute

// Dependencies are the backend repositories shared by every session
type Dependencies struct {
	ExpenseTypes domain.ExpenseTypeRepository
	Funds        domain.MonetaryFundRepository
	Budgets      domain.BudgetRepository
	Deposits     domain.DepositRepository
	Expenses     domain.ExpenseRepository
	Reports      domain.ReportRepository
}

// Session is the set of pages one browser works with
type Session struct {
	ID           uuid.UUID
	ExpenseTypes *ExpenseTypesPage
	Funds        *FundsPage
	Budgets      *BudgetsPage
	Deposits     *DepositsPage
	Expenses     *ExpenseLogPage
	Movements    *MovementsReport
	Comparison   *ComparisonReport
}

func NewSession(id uuid.UUID, deps Dependencies, opts ...Option) *Session {
	return &Session{
		ID:           id,
		ExpenseTypes: NewExpenseTypesPage(deps.ExpenseTypes, opts...),
		Funds:        NewFundsPage(deps.Funds, opts...),
		Budgets:      NewBudgetsPage(deps.Budgets, deps.ExpenseTypes, opts...),
		Deposits:     NewDepositsPage(deps.Deposits, deps.Funds, opts...),
		Expenses:     NewExpenseLogPage(deps.Expenses, deps.ExpenseTypes, deps.Funds, opts...),
		Movements:    NewMovementsReport(deps.Reports, opts...),
		Comparison:   NewComparisonReport(deps.Reports, opts...),
	}
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// Registry creates sessions on first use and drops them after ttl without
// activity
type Registry struct {
	deps      Dependencies
	ttl       time.Duration
	clock     Clock
	publisher websocket.EventPublisher
	onExpire  func(uuid.UUID)

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRegistry starts the sweeper. Call Stop to end it.
func NewRegistry(deps Dependencies, ttl time.Duration, opts ...Option) *Registry {
	o := buildOptions(opts)
	r := &Registry{
		deps:     deps,
		ttl:      ttl,
		clock:    o.clock,
		sessions: make(map[uuid.UUID]*sessionEntry),
		stopCh:   make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

// SetEventPublisher sets where new sessions publish their page events
func (r *Registry) SetEventPublisher(publisher websocket.EventPublisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publisher = publisher
}

// OnExpire registers a hook run for every expired session
func (r *Registry) OnExpire(fn func(uuid.UUID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpire = fn
}

// Get returns the session for id, creating it when unknown, and marks it
// active
func (r *Registry) Get(id uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	if entry, ok := r.sessions[id]; ok {
		entry.lastSeen = now
		return entry.session
	}

	session := NewSession(id, r.deps, WithClock(r.clock), WithEvents(id, r.publisher))
	r.sessions[id] = &sessionEntry{session: session, lastSeen: now}
	log.Debug().Str("session_id", id.String()).Msg("Page session created")
	return session
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the ttl
func (r *Registry) Sweep() {
	r.mu.Lock()
	now := r.clock()
	var expired []uuid.UUID
	for id, entry := range r.sessions {
		if now.Sub(entry.lastSeen) > r.ttl {
			delete(r.sessions, id)
			expired = append(expired, id)
		}
	}
	hook := r.onExpire
	r.mu.Unlock()

	for _, id := range expired {
		log.Debug().Str("session_id", id.String()).Msg("Page session expired")
		if hook != nil {
			hook(id)
		}
	}
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.stopCh:
			return
		}
	}
}

// Stop ends the sweeper. Safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}
