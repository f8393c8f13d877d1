package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validUpsert() BudgetUpsert {
	return BudgetUpsert{Year: 2025, Month: 11, ExpenseTypeID: 3, Amount: decimal.NewFromInt(100)}
}

func TestBudgetUpsert_AmountBounds(t *testing.T) {
	negative := validUpsert()
	negative.Amount = decimal.NewFromInt(-1)
	assert.Error(t, negative.Validate())

	zero := validUpsert()
	zero.Amount = decimal.Zero
	assert.Error(t, zero.Validate())

	minimum := validUpsert()
	minimum.Amount = decimal.RequireFromString("0.01")
	assert.NoError(t, minimum.Validate())
}

func TestBudgetUpsert_MonthRange(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		u := validUpsert()
		u.Month = month
		err := u.Validate()
		var verr *ValidationError
		if assert.True(t, errors.As(err, &verr), "month %d", month) {
			assert.Equal(t, "month", verr.Fields[0].Field)
		}
	}
	for _, month := range []int{1, 12} {
		u := validUpsert()
		u.Month = month
		assert.NoError(t, u.Validate())
	}
}

func TestBudgetKey_UserDistinguishes(t *testing.T) {
	user := int64(9)
	shared := validUpsert()
	personal := validUpsert()
	personal.UserID = &user

	assert.NotEqual(t, shared.Key(), personal.Key())

	b := &Budget{Year: 2025, Month: 11, ExpenseTypeID: 3, UserID: &user}
	assert.Equal(t, personal.Key(), b.Key())
}

func TestBudgetFilter_Valid(t *testing.T) {
	assert.True(t, BudgetFilter{Year: 2025, Month: 1}.Valid())
	assert.False(t, BudgetFilter{Year: 2025, Month: 13}.Valid())
	assert.False(t, BudgetFilter{Year: 0, Month: 5}.Valid())
}
