package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MovementKind tags a movement row as an expense or a deposit
type MovementKind string

const (
	MovementExpense MovementKind = "Gasto"
	MovementDeposit MovementKind = "Deposito"
)

// UnmarshalJSON accepts the string tag or the numeric code (0 expense, 1 deposit)
func (k *MovementKind) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch MovementKind(s) {
		case MovementExpense, MovementDeposit:
			*k = MovementKind(s)
			return nil
		}
		return fmt.Errorf("%w: %q", ErrUnknownMovementKind, s)
	}
	var code int
	if err := json.Unmarshal(b, &code); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownMovementKind, b)
	}
	switch code {
	case 0:
		*k = MovementExpense
	case 1:
		*k = MovementDeposit
	default:
		return fmt.Errorf("%w: code %d", ErrUnknownMovementKind, code)
	}
	return nil
}

// Movement is a read-only report row derived by the backend
type Movement struct {
	Kind        MovementKind    `json:"kind"`
	Date        Date            `json:"date"`
	FundID      int64           `json:"fundId"`
	Description *string         `json:"description,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

type MovementTotals struct {
	Deposits decimal.Decimal `json:"deposits"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// SumMovements totals deposit and expense rows and their difference
func SumMovements(rows []*Movement) MovementTotals {
	totals := MovementTotals{Deposits: decimal.Zero, Expenses: decimal.Zero}
	for _, row := range rows {
		switch row.Kind {
		case MovementDeposit:
			totals.Deposits = totals.Deposits.Add(row.Total)
		case MovementExpense:
			totals.Expenses = totals.Expenses.Add(row.Total)
		}
	}
	totals.Net = totals.Deposits.Sub(totals.Expenses)
	return totals
}

// ComparisonItem is budgeted vs executed for one expense type
type ComparisonItem struct {
	ExpenseTypeID   int64           `json:"expenseTypeId"`
	ExpenseTypeName string          `json:"expenseTypeName"`
	Budgeted        decimal.Decimal `json:"budgeted"`
	Executed        decimal.Decimal `json:"executed"`
}

type ComparisonTotals struct {
	Budgeted decimal.Decimal `json:"budgeted"`
	Executed decimal.Decimal `json:"executed"`
	Delta    decimal.Decimal `json:"delta"`
}

func SumComparison(rows []*ComparisonItem) ComparisonTotals {
	totals := ComparisonTotals{Budgeted: decimal.Zero, Executed: decimal.Zero}
	for _, row := range rows {
		totals.Budgeted = totals.Budgeted.Add(row.Budgeted)
		totals.Executed = totals.Executed.Add(row.Executed)
	}
	totals.Delta = totals.Budgeted.Sub(totals.Executed)
	return totals
}

// DateRange is an inclusive pair of calendar days
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

func (r DateRange) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.To.Before(r.From)
}

type ReportRepository interface {
	Movements(ctx context.Context, period DateRange) ([]*Movement, error)
	Comparison(ctx context.Context, period DateRange, userID *int64) ([]*ComparisonItem, error)
}
