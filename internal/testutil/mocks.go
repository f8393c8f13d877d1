package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
)

// MockExpenseTypeRepository is an in-memory domain.ExpenseTypeRepository
type MockExpenseTypeRepository struct {
	Items  []*domain.ExpenseType
	NextID int64

	ListFn   func(ctx context.Context) ([]*domain.ExpenseType, error)
	CreateFn func(ctx context.Context, draft domain.ExpenseTypeDraft) (*domain.ExpenseType, error)
	UpdateFn func(ctx context.Context, id int64, draft domain.ExpenseTypeDraft) (*domain.ExpenseType, error)
	DeleteFn func(ctx context.Context, id int64) error

	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	mu sync.Mutex
}

// NewMockExpenseTypeRepository creates a repository holding items
func NewMockExpenseTypeRepository(items ...*domain.ExpenseType) *MockExpenseTypeRepository {
	return &MockExpenseTypeRepository{Items: items, NextID: 100}
}

func (m *MockExpenseTypeRepository) List(ctx context.Context) ([]*domain.ExpenseType, error) {
	m.mu.Lock()
	m.ListCalls++
	fn := m.ListFn
	items := slices.Clone(m.Items)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if items == nil {
		items = []*domain.ExpenseType{}
	}
	return items, nil
}

func (m *MockExpenseTypeRepository) Create(ctx context.Context, draft domain.ExpenseTypeDraft) (*domain.ExpenseType, error) {
	m.mu.Lock()
	m.CreateCalls++
	fn := m.CreateFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.NextID++
	created := &domain.ExpenseType{
		ID:          m.NextID,
		Code:        fmt.Sprintf("TG-%03d", m.NextID),
		Name:        draft.Name,
		Description: draft.Description,
	}
	m.Items = append([]*domain.ExpenseType{created}, m.Items...)
	return created, nil
}

func (m *MockExpenseTypeRepository) Update(ctx context.Context, id int64, draft domain.ExpenseTypeDraft) (*domain.ExpenseType, error) {
	m.mu.Lock()
	m.UpdateCalls++
	fn := m.UpdateFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.Items, func(t *domain.ExpenseType) bool { return t.ID == id })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	m.Items[i] = m.Items[i].Apply(draft)
	return m.Items[i], nil
}

func (m *MockExpenseTypeRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.DeleteCalls++
	fn := m.DeleteFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.Items, func(t *domain.ExpenseType) bool { return t.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.Items = slices.Delete(m.Items, i, i+1)
	return nil
}

// MockMonetaryFundRepository is an in-memory domain.MonetaryFundRepository
type MockMonetaryFundRepository struct {
	Items  []*domain.MonetaryFund
	NextID int64

	ListFn   func(ctx context.Context) ([]*domain.MonetaryFund, error)
	CreateFn func(ctx context.Context, draft domain.MonetaryFundDraft) (*domain.MonetaryFund, error)
	UpdateFn func(ctx context.Context, id int64, draft domain.MonetaryFundDraft) (*domain.MonetaryFund, error)
	DeleteFn func(ctx context.Context, id int64) error

	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	mu sync.Mutex
}

func NewMockMonetaryFundRepository(items ...*domain.MonetaryFund) *MockMonetaryFundRepository {
	return &MockMonetaryFundRepository{Items: items, NextID: 100}
}

func (m *MockMonetaryFundRepository) List(ctx context.Context) ([]*domain.MonetaryFund, error) {
	m.mu.Lock()
	m.ListCalls++
	fn := m.ListFn
	items := slices.Clone(m.Items)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if items == nil {
		items = []*domain.MonetaryFund{}
	}
	return items, nil
}

func (m *MockMonetaryFundRepository) Create(ctx context.Context, draft domain.MonetaryFundDraft) (*domain.MonetaryFund, error) {
	m.mu.Lock()
	m.CreateCalls++
	fn := m.CreateFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.NextID++
	created := &domain.MonetaryFund{
		ID:            m.NextID,
		Name:          draft.Name,
		Kind:          draft.Kind,
		AccountNumber: draft.AccountNumber,
		Description:   draft.Description,
	}
	m.Items = append([]*domain.MonetaryFund{created}, m.Items...)
	return created, nil
}

func (m *MockMonetaryFundRepository) Update(ctx context.Context, id int64, draft domain.MonetaryFundDraft) (*domain.MonetaryFund, error) {
	m.mu.Lock()
	m.UpdateCalls++
	fn := m.UpdateFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.Items, func(f *domain.MonetaryFund) bool { return f.ID == id })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	m.Items[i] = m.Items[i].Apply(draft)
	return m.Items[i], nil
}

func (m *MockMonetaryFundRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.DeleteCalls++
	fn := m.DeleteFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.Items, func(f *domain.MonetaryFund) bool { return f.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.Items = slices.Delete(m.Items, i, i+1)
	return nil
}

// MockBudgetRepository is an in-memory domain.BudgetRepository that upserts
// by composite key
type MockBudgetRepository struct {
	Items  []*domain.Budget
	NextID int64

	ListFn   func(ctx context.Context, filter domain.BudgetFilter) ([]*domain.Budget, error)
	UpsertFn func(ctx context.Context, upsert domain.BudgetUpsert) (*domain.Budget, error)

	ListCalls   int
	UpsertCalls int
	LastFilter  domain.BudgetFilter

	mu sync.Mutex
}

func NewMockBudgetRepository(items ...*domain.Budget) *MockBudgetRepository {
	return &MockBudgetRepository{Items: items, NextID: 100}
}

func (m *MockBudgetRepository) List(ctx context.Context, filter domain.BudgetFilter) ([]*domain.Budget, error) {
	m.mu.Lock()
	m.ListCalls++
	m.LastFilter = filter
	fn := m.ListFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Budget{}
	for _, b := range m.Items {
		if b.Year != filter.Year || b.Month != filter.Month {
			continue
		}
		if filter.UserID != nil && (b.UserID == nil || *b.UserID != *filter.UserID) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *MockBudgetRepository) Upsert(ctx context.Context, upsert domain.BudgetUpsert) (*domain.Budget, error) {
	m.mu.Lock()
	m.UpsertCalls++
	fn := m.UpsertFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, upsert)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := upsert.Key()
	for i, b := range m.Items {
		if b.Key() == key {
			updated := *b
			updated.Amount = upsert.Amount
			m.Items[i] = &updated
			return &updated, nil
		}
	}
	m.NextID++
	created := &domain.Budget{
		ID:            m.NextID,
		Year:          upsert.Year,
		Month:         upsert.Month,
		ExpenseTypeID: upsert.ExpenseTypeID,
		Amount:        upsert.Amount,
		UserID:        upsert.UserID,
	}
	m.Items = append(m.Items, created)
	return created, nil
}

// MockDepositRepository records created deposits
type MockDepositRepository struct {
	Created []domain.DepositDraft
	NextID  int64

	CreateFn func(ctx context.Context, draft domain.DepositDraft) (*domain.Deposit, error)

	mu sync.Mutex
}

func NewMockDepositRepository() *MockDepositRepository {
	return &MockDepositRepository{NextID: 100}
}

func (m *MockDepositRepository) Create(ctx context.Context, draft domain.DepositDraft) (*domain.Deposit, error) {
	m.mu.Lock()
	m.Created = append(m.Created, draft)
	fn := m.CreateFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.NextID++
	return &domain.Deposit{ID: m.NextID, Date: draft.Date, FundID: draft.FundID, Amount: draft.Amount}, nil
}

// CreateCalls returns how many deposits were posted
func (m *MockDepositRepository) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

// MockExpenseRepository records posted expenses and answers with Result
type MockExpenseRepository struct {
	Created []domain.ExpenseDraft
	NextID  int64
	// Overdrafts are returned with every save
	Overdrafts []domain.Overdraft

	CreateFn func(ctx context.Context, draft domain.ExpenseDraft) (*domain.ExpenseSaveResult, error)

	mu sync.Mutex
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{NextID: 100}
}

func (m *MockExpenseRepository) Create(ctx context.Context, draft domain.ExpenseDraft) (*domain.ExpenseSaveResult, error) {
	m.mu.Lock()
	m.Created = append(m.Created, draft)
	fn := m.CreateFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.NextID++
	return &domain.ExpenseSaveResult{
		HeaderID:   m.NextID,
		Saved:      true,
		Overdrafts: slices.Clone(m.Overdrafts),
	}, nil
}

func (m *MockExpenseRepository) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

// MockReportRepository returns canned report rows and records the queries
type MockReportRepository struct {
	MovementRows   []*domain.Movement
	ComparisonRows []*domain.ComparisonItem

	MovementsFn  func(ctx context.Context, period domain.DateRange) ([]*domain.Movement, error)
	ComparisonFn func(ctx context.Context, period domain.DateRange, userID *int64) ([]*domain.ComparisonItem, error)

	Periods    []domain.DateRange
	LastUserID *int64

	mu sync.Mutex
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{}
}

func (m *MockReportRepository) Movements(ctx context.Context, period domain.DateRange) ([]*domain.Movement, error) {
	m.mu.Lock()
	m.Periods = append(m.Periods, period)
	fn := m.MovementsFn
	rows := slices.Clone(m.MovementRows)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, period)
	}
	if rows == nil {
		rows = []*domain.Movement{}
	}
	return rows, nil
}

func (m *MockReportRepository) Comparison(ctx context.Context, period domain.DateRange, userID *int64) ([]*domain.ComparisonItem, error) {
	m.mu.Lock()
	m.Periods = append(m.Periods, period)
	m.LastUserID = userID
	fn := m.ComparisonFn
	rows := slices.Clone(m.ComparisonRows)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, period, userID)
	}
	if rows == nil {
		rows = []*domain.ComparisonItem{}
	}
	return rows, nil
}

// Calls returns how many report queries were issued
func (m *MockReportRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Periods)
}

var (
	_ domain.ExpenseTypeRepository  = (*MockExpenseTypeRepository)(nil)
	_ domain.MonetaryFundRepository = (*MockMonetaryFundRepository)(nil)
	_ domain.BudgetRepository       = (*MockBudgetRepository)(nil)
	_ domain.DepositRepository      = (*MockDepositRepository)(nil)
	_ domain.ExpenseRepository      = (*MockExpenseRepository)(nil)
	_ domain.ReportRepository       = (*MockReportRepository)(nil)
)
