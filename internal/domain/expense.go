package domain

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentKind is the supporting document of an expense
type DocumentKind string

const (
	DocumentInvoice DocumentKind = "Factura"
	DocumentReceipt DocumentKind = "Comprobante"
	DocumentOther   DocumentKind = "Otro"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentInvoice, DocumentReceipt, DocumentOther:
		return true
	}
	return false
}

type ExpenseLine struct {
	ExpenseTypeID int64           `json:"expenseTypeId"`
	Amount        decimal.Decimal `json:"amount"`
}

// ExpenseDraft is an expense header with its detail lines
type ExpenseDraft struct {
	Date         Date          `json:"date"`
	FundID       int64         `json:"fundId"`
	DocumentKind DocumentKind  `json:"documentKind"`
	UserID       *int64        `json:"userId"`
	Merchant     string        `json:"merchant"`
	Observations *string       `json:"observations"`
	Lines        []ExpenseLine `json:"lines"`
}

// Total sums the detail lines. Display only, the backend computes the
// authoritative total.
func (d ExpenseDraft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

func (d ExpenseDraft) Normalize() ExpenseDraft {
	n := d
	n.Merchant = strings.TrimSpace(d.Merchant)
	n.Observations = trimOptional(d.Observations)
	n.Lines = append([]ExpenseLine(nil), d.Lines...)
	return n
}

func (d ExpenseDraft) Validate() error {
	var errs fieldErrors
	if d.Date.IsZero() {
		errs.add("date", "is required")
	}
	if d.FundID <= 0 {
		errs.add("fundId", "is required")
	}
	if !d.DocumentKind.Valid() {
		errs.add("documentKind", "must be Factura, Comprobante or Otro")
	}
	checkName(&errs, "merchant", d.Merchant, MinMerchantLength)
	if len(d.Lines) == 0 {
		errs.add("lines", "at least one line is required")
	}
	for i, line := range d.Lines {
		prefix := "lines[" + strconv.Itoa(i) + "]."
		if line.ExpenseTypeID <= 0 {
			errs.add(prefix+"expenseTypeId", "is required")
		}
		checkAmount(&errs, prefix+"amount", line.Amount)
	}
	return errs.err()
}

// Overdraft is a budget line exceeded by a newly posted expense
type Overdraft struct {
	ExpenseTypeID      int64           `json:"expenseTypeId"`
	ExpenseTypeName    string          `json:"expenseTypeName"`
	Budgeted           decimal.Decimal `json:"budgeted"`
	PreviouslyExecuted decimal.Decimal `json:"previouslyExecuted"`
	NewAmount          decimal.Decimal `json:"newAmount"`
	Excess             decimal.Decimal `json:"excess"`
}

type ExpenseSaveResult struct {
	HeaderID   int64       `json:"headerId"`
	Saved      bool        `json:"saved"`
	Overdrafts []Overdraft `json:"overdrafts"`
}

type ExpenseRepository interface {
	Create(ctx context.Context, draft ExpenseDraft) (*ExpenseSaveResult, error)
}
