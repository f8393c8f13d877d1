package page

import (
	"context"
	"sync"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/util"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
)

const reportFailedMessage = "Could not load the report."

// currentMonth returns the first and last day of the month containing now
func currentMonth(clock Clock) domain.DateRange {
	first, last := util.MonthBounds(clock())
	return domain.DateRange{From: domain.DateOf(first), To: domain.DateOf(last)}
}

// MovementsState is the transaction inquiry report
type MovementsState struct {
	Filter  domain.DateRange      `json:"filter"`
	Rows    []*domain.Movement    `json:"rows"`
	Totals  domain.MovementTotals `json:"totals"`
	Loading bool                  `json:"loading"`
	Error   string                `json:"error,omitempty"`
}

// MovementsReport lists deposits and expenses of a date range
type MovementsReport struct {
	reports domain.ReportRepository
	events  notifier

	mu      sync.Mutex
	filter  domain.DateRange
	rows    []*domain.Movement
	loading bool
	errMsg  string
}

func NewMovementsReport(reports domain.ReportRepository, opts ...Option) *MovementsReport {
	o := buildOptions(opts)
	return &MovementsReport{
		reports: reports,
		events:  o.events,
		filter:  currentMonth(o.clock),
		rows:    []*domain.Movement{},
	}
}

// SetFilter stores the range and drops the rows of the previous one. An
// invalid range is kept so the form can show it, but it cannot be loaded.
// While a load is in flight the filter is left unchanged.
func (r *MovementsReport) SetFilter(filter domain.DateRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loading {
		return domain.ErrBusy
	}
	r.filter = filter
	r.rows = []*domain.Movement{}
	if !filter.Valid() {
		return domain.ErrInvalidFilter
	}
	return nil
}

func (r *MovementsReport) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.loading {
		r.mu.Unlock()
		return domain.ErrBusy
	}
	if !r.filter.Valid() {
		r.mu.Unlock()
		return domain.ErrInvalidFilter
	}
	period := r.filter
	r.loading = true
	r.errMsg = ""
	r.mu.Unlock()

	rows, err := r.reports.Movements(ctx, period)

	r.mu.Lock()
	r.loading = false
	if err != nil {
		r.rows = []*domain.Movement{}
		r.errMsg = failureMessage(err, reportFailedMessage)
		r.mu.Unlock()
		return err
	}
	r.rows = rows
	r.mu.Unlock()

	r.events.publish(websocket.Loaded(websocket.EntityTypeMovementsReport, len(rows)))
	return nil
}

func (r *MovementsReport) State() MovementsState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return MovementsState{
		Filter:  r.filter,
		Rows:    append([]*domain.Movement{}, r.rows...),
		Totals:  domain.SumMovements(r.rows),
		Loading: r.loading,
		Error:   r.errMsg,
	}
}

// ComparisonFilter is a date range plus an optional user
type ComparisonFilter struct {
	domain.DateRange
	UserID *int64 `json:"userId"`
}

// ComparisonState is the budget vs execution report
type ComparisonState struct {
	Filter  ComparisonFilter        `json:"filter"`
	Rows    []*domain.ComparisonItem `json:"rows"`
	Totals  domain.ComparisonTotals  `json:"totals"`
	Loading bool                     `json:"loading"`
	Error   string                   `json:"error,omitempty"`
}

// ComparisonReport compares budgeted and executed amounts per expense type
type ComparisonReport struct {
	reports domain.ReportRepository
	events  notifier

	mu      sync.Mutex
	filter  ComparisonFilter
	rows    []*domain.ComparisonItem
	loading bool
	errMsg  string
}

func NewComparisonReport(reports domain.ReportRepository, opts ...Option) *ComparisonReport {
	o := buildOptions(opts)
	return &ComparisonReport{
		reports: reports,
		events:  o.events,
		filter:  ComparisonFilter{DateRange: currentMonth(o.clock)},
		rows:    []*domain.ComparisonItem{},
	}
}

// SetFilter stores the range and user like MovementsReport.SetFilter
func (r *ComparisonReport) SetFilter(filter ComparisonFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loading {
		return domain.ErrBusy
	}
	r.filter = filter
	r.rows = []*domain.ComparisonItem{}
	if !filter.Valid() {
		return domain.ErrInvalidFilter
	}
	return nil
}

func (r *ComparisonReport) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.loading {
		r.mu.Unlock()
		return domain.ErrBusy
	}
	if !r.filter.Valid() {
		r.mu.Unlock()
		return domain.ErrInvalidFilter
	}
	filter := r.filter
	r.loading = true
	r.errMsg = ""
	r.mu.Unlock()

	rows, err := r.reports.Comparison(ctx, filter.DateRange, filter.UserID)

	r.mu.Lock()
	r.loading = false
	if err != nil {
		r.rows = []*domain.ComparisonItem{}
		r.errMsg = failureMessage(err, reportFailedMessage)
		r.mu.Unlock()
		return err
	}
	r.rows = rows
	r.mu.Unlock()

	r.events.publish(websocket.Loaded(websocket.EntityTypeComparisonReport, len(rows)))
	return nil
}

func (r *ComparisonReport) State() ComparisonState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return ComparisonState{
		Filter:  r.filter,
		Rows:    append([]*domain.ComparisonItem{}, r.rows...),
		Totals:  domain.SumComparison(r.rows),
		Loading: r.loading,
		Error:   r.errMsg,
	}
}
