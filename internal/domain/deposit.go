package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Deposit is an append-only credit to a monetary fund
type Deposit struct {
	ID     int64           `json:"id"`
	Date   Date            `json:"date"`
	FundID int64           `json:"fundId"`
	Amount decimal.Decimal `json:"amount"`
}

type DepositDraft struct {
	Date   Date            `json:"date"`
	FundID int64           `json:"fundId"`
	Amount decimal.Decimal `json:"amount"`
}

func (d DepositDraft) Validate() error {
	var errs fieldErrors
	if d.Date.IsZero() {
		errs.add("date", "is required")
	}
	if d.FundID <= 0 {
		errs.add("fundId", "is required")
	}
	checkAmount(&errs, "amount", d.Amount)
	return errs.err()
}

type DepositRepository interface {
	Create(ctx context.Context, draft DepositDraft) (*Deposit, error)
}
