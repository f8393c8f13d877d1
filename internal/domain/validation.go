package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinNameLength     = 2
	MinMerchantLength = 2
	MinMonth          = 1
	MaxMonth          = 12
)

// MinAmount is the smallest amount accepted for deposits, budgets and expense lines
var MinAmount = decimal.RequireFromString("0.01")

func checkName(errs *fieldErrors, field, value string, min int) {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.add(field, "is required")
		return
	}
	if utf8.RuneCountInString(value) < min {
		errs.add(field, "is too short")
	}
}

func checkAmount(errs *fieldErrors, field string, amount decimal.Decimal) {
	if amount.LessThan(MinAmount) {
		errs.add(field, "must be at least "+MinAmount.StringFixed(2))
	}
}

// trimOptional trims s and turns an empty result into nil
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
