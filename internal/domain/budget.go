package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Budget is the budgeted amount for one (year, month, expense type[, user])
type Budget struct {
	ID            int64           `json:"id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	ExpenseTypeID int64           `json:"expenseTypeId"`
	Amount        decimal.Decimal `json:"amount"`
	UserID        *int64          `json:"userId,omitempty"`
}

// BudgetKey is the composite business key budgets are upserted by
type BudgetKey struct {
	Year          int
	Month         int
	ExpenseTypeID int64
	UserID        int64
	HasUser       bool
}

func (b *Budget) Key() BudgetKey {
	return newBudgetKey(b.Year, b.Month, b.ExpenseTypeID, b.UserID)
}

func newBudgetKey(year, month int, typeID int64, userID *int64) BudgetKey {
	key := BudgetKey{Year: year, Month: month, ExpenseTypeID: typeID}
	if userID != nil {
		key.UserID = *userID
		key.HasUser = true
	}
	return key
}

// BudgetUpsert is the create-or-update request for a budget row
type BudgetUpsert struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	ExpenseTypeID int64           `json:"expenseTypeId"`
	Amount        decimal.Decimal `json:"amount"`
	UserID        *int64          `json:"userId"`
}

func (u BudgetUpsert) Key() BudgetKey {
	return newBudgetKey(u.Year, u.Month, u.ExpenseTypeID, u.UserID)
}

func (u BudgetUpsert) Validate() error {
	var errs fieldErrors
	if u.Year < 1 {
		errs.add("year", "is required")
	}
	if u.Month < MinMonth || u.Month > MaxMonth {
		errs.add("month", "must be between 1 and 12")
	}
	if u.ExpenseTypeID <= 0 {
		errs.add("expenseTypeId", "is required")
	}
	checkAmount(&errs, "amount", u.Amount)
	return errs.err()
}

// BudgetFilter selects the budgets shown for a period
type BudgetFilter struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	UserID *int64 `json:"userId"`
}

func (f BudgetFilter) Valid() bool {
	return f.Year > 0 && f.Month >= MinMonth && f.Month <= MaxMonth
}

type BudgetRepository interface {
	List(ctx context.Context, filter BudgetFilter) ([]*Budget, error)
	// Upsert returns ErrNoRecord when the backend only returns an identifier
	Upsert(ctx context.Context, upsert BudgetUpsert) (*Budget, error)
}
