package page

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/shopspring/decimal"
)

// maxRecentDeposits bounds the deposits kept for the session's history
const maxRecentDeposits = 20

type DepositsState struct {
	Funds       []*domain.MonetaryFund `json:"funds"`
	Draft       domain.DepositDraft    `json:"draft"`
	LastSaved   *domain.Deposit        `json:"lastSaved,omitempty"`
	Recent      []*domain.Deposit      `json:"recent"`
	Loading     bool                   `json:"loading"`
	Saving      bool                   `json:"saving"`
	Error       string                 `json:"error,omitempty"`
	FieldErrors []domain.FieldError    `json:"fieldErrors,omitempty"`
}

// DepositsPage records deposits into a fund. Deposits are append-only so
// the page keeps no list beyond what this session saved.
type DepositsPage struct {
	deposits domain.DepositRepository
	funds    domain.MonetaryFundRepository
	clock    Clock
	events   notifier

	mu          sync.Mutex
	catalogue   []*domain.MonetaryFund
	draft       domain.DepositDraft
	lastSaved   *domain.Deposit
	recent      []*domain.Deposit
	loading     bool
	saving      bool
	errMsg      string
	fieldErrors []domain.FieldError
}

func NewDepositsPage(deposits domain.DepositRepository, funds domain.MonetaryFundRepository, opts ...Option) *DepositsPage {
	o := buildOptions(opts)
	p := &DepositsPage{
		deposits:  deposits,
		funds:     funds,
		clock:     o.clock,
		events:    o.events,
		catalogue: []*domain.MonetaryFund{},
		recent:    []*domain.Deposit{},
	}
	p.draft = domain.DepositDraft{Date: domain.DateOf(p.clock()), Amount: decimal.Zero}
	return p
}

// Load fetches the fund catalogue and preselects the first fund when the
// draft has none
func (p *DepositsPage) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	p.loading = true
	p.mu.Unlock()

	funds, err := p.funds.List(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.catalogue = []*domain.MonetaryFund{}
		p.errMsg = failureMessage(err, loadFailedMessage)
		return err
	}
	p.catalogue = funds
	p.errMsg = ""
	if p.draft.FundID == 0 && len(funds) > 0 {
		p.draft.FundID = funds[0].ID
	}
	return nil
}

func (p *DepositsPage) SetDraft(draft domain.DepositDraft) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	p.draft = draft
	p.fieldErrors = nil
	return nil
}

// Save posts the deposit and resets the amount so the next one can be
// entered for the same date and fund
func (p *DepositsPage) Save(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	draft := p.draft
	if err := draft.Validate(); err != nil {
		p.fieldErrors = fieldErrorsOf(err)
		p.mu.Unlock()
		return err
	}
	p.saving = true
	p.errMsg = ""
	p.fieldErrors = nil
	p.mu.Unlock()

	saved, err := p.deposits.Create(ctx, draft)
	if errors.Is(err, domain.ErrNoRecord) {
		// accepted without an echo
		saved, err = nil, nil
	}

	p.mu.Lock()
	p.saving = false
	if err != nil {
		p.errMsg = failureMessage(err, saveFailedMessage)
		p.mu.Unlock()
		return err
	}
	p.lastSaved = saved
	if saved != nil {
		p.recent = append([]*domain.Deposit{saved}, p.recent...)
		if len(p.recent) > maxRecentDeposits {
			p.recent = p.recent[:maxRecentDeposits]
		}
	}
	p.draft.Amount = decimal.Zero
	p.mu.Unlock()

	if saved != nil {
		p.events.publish(websocket.DepositCreated(saved))
	}
	return nil
}

func (p *DepositsPage) State() DepositsState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return DepositsState{
		Funds:       append([]*domain.MonetaryFund{}, p.catalogue...),
		Draft:       p.draft,
		LastSaved:   p.lastSaved,
		Recent:      append([]*domain.Deposit{}, p.recent...),
		Loading:     p.loading,
		Saving:      p.saving,
		Error:       p.errMsg,
		FieldErrors: slices.Clone(p.fieldErrors),
	}
}
