package page

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BudgetRow is a budget with its expense type name resolved
type BudgetRow struct {
	*domain.Budget
	ExpenseTypeName string `json:"expenseTypeName"`
}

type BudgetsState struct {
	Filter       domain.BudgetFilter   `json:"filter"`
	Items        []BudgetRow           `json:"items"`
	ExpenseTypes []*domain.ExpenseType `json:"expenseTypes"`
	Draft        domain.BudgetUpsert   `json:"draft"`
	Loading      bool                  `json:"loading"`
	Saving       bool                  `json:"saving"`
	Error        string                `json:"error,omitempty"`
	FieldErrors  []domain.FieldError   `json:"fieldErrors,omitempty"`
}

// BudgetsPage shows the budgets of one period and upserts them by
// (year, month, expense type, user). Saving a row for a key that already
// has one overwrites it.
type BudgetsPage struct {
	budgets domain.BudgetRepository
	types   domain.ExpenseTypeRepository
	clock   Clock
	events  notifier

	mu          sync.Mutex
	filter      domain.BudgetFilter
	items       []*domain.Budget
	catalogue   []*domain.ExpenseType
	draft       domain.BudgetUpsert
	loading     bool
	saving      bool
	errMsg      string
	fieldErrors []domain.FieldError
}

func NewBudgetsPage(budgets domain.BudgetRepository, types domain.ExpenseTypeRepository, opts ...Option) *BudgetsPage {
	o := buildOptions(opts)
	p := &BudgetsPage{
		budgets:   budgets,
		types:     types,
		clock:     o.clock,
		events:    o.events,
		items:     []*domain.Budget{},
		catalogue: []*domain.ExpenseType{},
	}
	now := p.clock()
	p.filter = domain.BudgetFilter{Year: now.Year(), Month: int(now.Month())}
	p.draft = p.blankDraft()
	return p
}

// Load fetches the expense type catalogue and the budgets of the current
// filter. A missing catalogue only degrades the type names.
func (p *BudgetsPage) Load(ctx context.Context) error {
	p.mu.Lock()
	filter, err := p.beginLoad()
	p.mu.Unlock()
	if err != nil {
		return err
	}
	return p.fetch(ctx, filter)
}

// must hold p.mu
func (p *BudgetsPage) beginLoad() (domain.BudgetFilter, error) {
	if p.loading || p.saving {
		return domain.BudgetFilter{}, domain.ErrBusy
	}
	if !p.filter.Valid() {
		return domain.BudgetFilter{}, domain.ErrInvalidFilter
	}
	p.loading = true
	return p.filter, nil
}

func (p *BudgetsPage) fetch(ctx context.Context, filter domain.BudgetFilter) error {
	var types []*domain.ExpenseType
	var items []*domain.Budget
	var g errgroup.Group
	g.Go(func() error {
		list, err := p.types.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Expense type catalogue unavailable for budgets")
			list = []*domain.ExpenseType{}
		}
		types = list
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = p.budgets.List(ctx, filter)
		return err
	})
	err := g.Wait()

	p.mu.Lock()
	p.loading = false
	p.catalogue = types
	if err != nil {
		p.items = []*domain.Budget{}
		p.errMsg = failureMessage(err, loadFailedMessage)
		p.mu.Unlock()
		return err
	}
	p.items = items
	p.errMsg = ""
	p.mu.Unlock()

	p.events.publish(websocket.Loaded(websocket.EntityTypeBudget, len(items)))
	return nil
}

// SetFilter changes the period shown and reloads when the period is valid.
// While a load or save is in flight the filter is left unchanged. Rows of
// the previous period are dropped as soon as the period changes.
func (p *BudgetsPage) SetFilter(ctx context.Context, filter domain.BudgetFilter) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	p.filter = filter
	p.items = []*domain.Budget{}
	current, err := p.beginLoad()
	p.mu.Unlock()
	if err != nil {
		return err
	}
	return p.fetch(ctx, current)
}

// StartNew resets the form for the current period
func (p *BudgetsPage) StartNew() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	p.draft = p.blankDraft()
	p.errMsg = ""
	p.fieldErrors = nil
	return nil
}

func (p *BudgetsPage) SetDraft(draft domain.BudgetUpsert) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	p.draft = draft
	p.fieldErrors = nil
	return nil
}

// Save upserts the draft. The echoed row replaces the entry with the same
// id, else the entry with the same key, else it is prepended. Rows outside
// the current filter are not shown.
func (p *BudgetsPage) Save(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	upsert := p.draft
	if err := upsert.Validate(); err != nil {
		p.fieldErrors = fieldErrorsOf(err)
		p.mu.Unlock()
		return err
	}
	filter := p.filter
	p.saving = true
	p.errMsg = ""
	p.fieldErrors = nil
	p.mu.Unlock()

	saved, err := p.budgets.Upsert(ctx, upsert)
	if errors.Is(err, domain.ErrNoRecord) {
		return p.reload(ctx, filter)
	}

	p.mu.Lock()
	p.saving = false
	if err != nil {
		p.errMsg = failureMessage(err, saveFailedMessage)
		p.mu.Unlock()
		return err
	}
	if inFilter(p.filter, saved) {
		p.items = mergeBudget(p.items, saved)
	}
	p.mu.Unlock()

	p.events.publish(websocket.BudgetUpserted(saved))
	return nil
}

// reload refetches the budgets after an upsert that echoed no row
func (p *BudgetsPage) reload(ctx context.Context, filter domain.BudgetFilter) error {
	items, err := p.budgets.List(ctx, filter)

	p.mu.Lock()
	p.saving = false
	if err != nil {
		p.items = []*domain.Budget{}
		p.errMsg = failureMessage(err, loadFailedMessage)
		p.mu.Unlock()
		return err
	}
	p.items = items
	p.mu.Unlock()

	p.events.publish(websocket.Loaded(websocket.EntityTypeBudget, len(items)))
	return nil
}

// ExpenseTypeName resolves a type id against the loaded catalogue
func (p *BudgetsPage) ExpenseTypeName(id int64) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typeName(id)
}

func (p *BudgetsPage) State() BudgetsState {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows := make([]BudgetRow, len(p.items))
	for i, b := range p.items {
		rows[i] = BudgetRow{Budget: b, ExpenseTypeName: p.typeName(b.ExpenseTypeID)}
	}
	return BudgetsState{
		Filter:       p.filter,
		Items:        rows,
		ExpenseTypes: append([]*domain.ExpenseType{}, p.catalogue...),
		Draft:        p.draft,
		Loading:      p.loading,
		Saving:       p.saving,
		Error:        p.errMsg,
		FieldErrors:  slices.Clone(p.fieldErrors),
	}
}

// must hold p.mu
func (p *BudgetsPage) typeName(id int64) string {
	for _, t := range p.catalogue {
		if t.ID == id {
			return t.Name
		}
	}
	return fmt.Sprintf("Tipo %d", id)
}

// must hold p.mu
func (p *BudgetsPage) blankDraft() domain.BudgetUpsert {
	month := p.filter.Month
	if month < domain.MinMonth || month > domain.MaxMonth {
		month = int(p.clock().Month())
	}
	return domain.BudgetUpsert{
		Year:   p.clock().Year(),
		Month:  month,
		Amount: decimal.Zero,
		UserID: p.filter.UserID,
	}
}

func inFilter(filter domain.BudgetFilter, b *domain.Budget) bool {
	if b.Year != filter.Year || b.Month != filter.Month {
		return false
	}
	if filter.UserID == nil {
		return true
	}
	return b.UserID != nil && *b.UserID == *filter.UserID
}

func mergeBudget(items []*domain.Budget, saved *domain.Budget) []*domain.Budget {
	if i := slices.IndexFunc(items, func(b *domain.Budget) bool { return b.ID == saved.ID }); i >= 0 {
		items[i] = saved
		return items
	}
	key := saved.Key()
	if i := slices.IndexFunc(items, func(b *domain.Budget) bool { return b.Key() == key }); i >= 0 {
		items[i] = saved
		return items
	}
	return append([]*domain.Budget{saved}, items...)
}
