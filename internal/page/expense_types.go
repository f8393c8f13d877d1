package page

import (
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
)

// ExpenseTypesPage maintains the expense type catalogue
type ExpenseTypesPage = CRUDPage[domain.ExpenseType, domain.ExpenseTypeDraft]

// ExpenseTypesState is a snapshot of an ExpenseTypesPage
type ExpenseTypesState = CRUDState[domain.ExpenseType, domain.ExpenseTypeDraft]

var expenseTypeBinding = binding[domain.ExpenseType, domain.ExpenseTypeDraft]{
	entity:    websocket.EntityTypeExpenseType,
	id:        func(t *domain.ExpenseType) int64 { return t.ID },
	name:      func(t *domain.ExpenseType) string { return t.Name },
	blank:     func() domain.ExpenseTypeDraft { return domain.ExpenseTypeDraft{} },
	draft:     (*domain.ExpenseType).Draft,
	apply:     (*domain.ExpenseType).Apply,
	normalize: domain.ExpenseTypeDraft.Normalize,
	validate:  domain.ExpenseTypeDraft.Validate,
}

func NewExpenseTypesPage(repo domain.ExpenseTypeRepository, opts ...Option) *ExpenseTypesPage {
	return newCRUDPage[domain.ExpenseType, domain.ExpenseTypeDraft](repo, expenseTypeBinding, opts)
}
