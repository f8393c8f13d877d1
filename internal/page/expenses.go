package page

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type ExpenseLogState struct {
	ExpenseTypes []*domain.ExpenseType     `json:"expenseTypes"`
	Funds        []*domain.MonetaryFund    `json:"funds"`
	Draft        domain.ExpenseDraft       `json:"draft"`
	Total        decimal.Decimal           `json:"total"`
	LastResult   *domain.ExpenseSaveResult `json:"lastResult,omitempty"`
	Overdrafts   []domain.Overdraft        `json:"overdrafts"`
	Loading      bool                      `json:"loading"`
	Saving       bool                      `json:"saving"`
	Error        string                    `json:"error,omitempty"`
	FieldErrors  []domain.FieldError       `json:"fieldErrors,omitempty"`
}

// ExpenseLogPage posts expense headers with their detail lines and shows
// the budget overdrafts the backend reports for them
type ExpenseLogPage struct {
	expenses domain.ExpenseRepository
	types    domain.ExpenseTypeRepository
	funds    domain.MonetaryFundRepository
	clock    Clock
	events   notifier

	mu          sync.Mutex
	typeList    []*domain.ExpenseType
	fundList    []*domain.MonetaryFund
	draft       domain.ExpenseDraft
	lastResult  *domain.ExpenseSaveResult
	overdrafts  []domain.Overdraft
	loading     bool
	saving      bool
	errMsg      string
	fieldErrors []domain.FieldError
}

func NewExpenseLogPage(expenses domain.ExpenseRepository, types domain.ExpenseTypeRepository, funds domain.MonetaryFundRepository, opts ...Option) *ExpenseLogPage {
	o := buildOptions(opts)
	p := &ExpenseLogPage{
		expenses:   expenses,
		types:      types,
		funds:      funds,
		clock:      o.clock,
		events:     o.events,
		typeList:   []*domain.ExpenseType{},
		fundList:   []*domain.MonetaryFund{},
		overdrafts: []domain.Overdraft{},
	}
	p.draft = p.defaultDraft()
	return p
}

func blankLine() domain.ExpenseLine {
	return domain.ExpenseLine{Amount: decimal.Zero}
}

// must hold p.mu
func (p *ExpenseLogPage) defaultDraft() domain.ExpenseDraft {
	draft := domain.ExpenseDraft{
		Date:         domain.DateOf(p.clock()),
		DocumentKind: domain.DocumentInvoice,
		Lines:        []domain.ExpenseLine{blankLine()},
	}
	if len(p.fundList) > 0 {
		draft.FundID = p.fundList[0].ID
	}
	return draft
}

// Load fetches both catalogues concurrently. A failing catalogue is left
// empty while the other still loads; the first failure is returned.
func (p *ExpenseLogPage) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	p.loading = true
	p.mu.Unlock()

	var types []*domain.ExpenseType
	var funds []*domain.MonetaryFund
	var g errgroup.Group
	g.Go(func() error {
		list, err := p.types.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Expense type catalogue unavailable for expense log")
			list = []*domain.ExpenseType{}
		}
		types = list
		return err
	})
	g.Go(func() error {
		list, err := p.funds.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Fund catalogue unavailable for expense log")
			list = []*domain.MonetaryFund{}
		}
		funds = list
		return err
	})
	err := g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	p.typeList = types
	p.fundList = funds
	if p.draft.FundID == 0 && len(funds) > 0 {
		p.draft.FundID = funds[0].ID
	}

	if err != nil {
		p.errMsg = failureMessage(err, loadFailedMessage)
		return err
	}
	p.errMsg = ""
	return nil
}

func (p *ExpenseLogPage) SetDraft(draft domain.ExpenseDraft) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	draft.Lines = append([]domain.ExpenseLine(nil), draft.Lines...)
	p.draft = draft
	p.fieldErrors = nil
	return nil
}

// AddLine appends an empty detail line
func (p *ExpenseLogPage) AddLine() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	p.draft.Lines = append(p.draft.Lines, blankLine())
	return nil
}

// RemoveLine drops the detail line at index
func (p *ExpenseLogPage) RemoveLine(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	if index < 0 || index >= len(p.draft.Lines) {
		return domain.ErrNotFound
	}
	p.draft.Lines = slices.Delete(slices.Clone(p.draft.Lines), index, index+1)
	return nil
}

// Total is the display total of the draft's lines
func (p *ExpenseLogPage) Total() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.Total()
}

// Save posts the expense. On success the header's date, fund, document kind
// and user are kept for the next entry while merchant, observations and
// lines are cleared.
func (p *ExpenseLogPage) Save(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	draft := p.draft.Normalize()
	if err := draft.Validate(); err != nil {
		p.fieldErrors = fieldErrorsOf(err)
		p.mu.Unlock()
		return err
	}
	p.saving = true
	p.errMsg = ""
	p.fieldErrors = nil
	p.mu.Unlock()

	result, err := p.expenses.Create(ctx, draft)
	if errors.Is(err, domain.ErrNoRecord) {
		result, err = &domain.ExpenseSaveResult{Saved: true, Overdrafts: []domain.Overdraft{}}, nil
	}

	p.mu.Lock()
	p.saving = false
	if err != nil {
		p.errMsg = failureMessage(err, saveFailedMessage)
		p.mu.Unlock()
		return err
	}
	if result.Overdrafts == nil {
		result.Overdrafts = []domain.Overdraft{}
	}
	p.lastResult = result
	p.overdrafts = result.Overdrafts
	p.draft.Merchant = ""
	p.draft.Observations = nil
	p.draft.Lines = []domain.ExpenseLine{blankLine()}
	p.mu.Unlock()

	if len(result.Overdrafts) > 0 {
		log.Info().
			Int64("expense_id", result.HeaderID).
			Int("overdrafts", len(result.Overdrafts)).
			Msg("Expense exceeds budget")
	}
	p.events.publish(websocket.ExpenseCreated(result))
	return nil
}

// Reset restores the form defaults and clears the last result
func (p *ExpenseLogPage) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	p.draft = p.defaultDraft()
	p.lastResult = nil
	p.overdrafts = []domain.Overdraft{}
	p.errMsg = ""
	p.fieldErrors = nil
	return nil
}

func (p *ExpenseLogPage) State() ExpenseLogState {
	p.mu.Lock()
	defer p.mu.Unlock()

	draft := p.draft
	draft.Lines = slices.Clone(p.draft.Lines)
	return ExpenseLogState{
		ExpenseTypes: append([]*domain.ExpenseType{}, p.typeList...),
		Funds:        append([]*domain.MonetaryFund{}, p.fundList...),
		Draft:        draft,
		Total:        p.draft.Total(),
		LastResult:   p.lastResult,
		Overdrafts:   slices.Clone(p.overdrafts),
		Loading:      p.loading,
		Saving:       p.saving,
		Error:        p.errMsg,
		FieldErrors:  slices.Clone(p.fieldErrors),
	}
}
