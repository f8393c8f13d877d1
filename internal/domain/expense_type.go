package domain

import (
	"context"
	"strings"
)

type ExpenseType struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ExpenseTypeDraft holds the editable fields of an expense type
type ExpenseTypeDraft struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (d ExpenseTypeDraft) Normalize() ExpenseTypeDraft {
	return ExpenseTypeDraft{
		Name:        strings.TrimSpace(d.Name),
		Description: trimOptional(d.Description),
	}
}

func (d ExpenseTypeDraft) Validate() error {
	var errs fieldErrors
	checkName(&errs, "name", d.Name, MinNameLength)
	return errs.err()
}

// Draft copies the record's editable fields
func (t *ExpenseType) Draft() ExpenseTypeDraft {
	return ExpenseTypeDraft{Name: t.Name, Description: copyString(t.Description)}
}

// Apply returns a copy of t with the draft's fields applied
func (t *ExpenseType) Apply(d ExpenseTypeDraft) *ExpenseType {
	updated := *t
	updated.Name = d.Name
	updated.Description = copyString(d.Description)
	return &updated
}

type ExpenseTypeRepository interface {
	List(ctx context.Context) ([]*ExpenseType, error)
	// Create returns ErrNoRecord when the backend does not echo the record
	Create(ctx context.Context, draft ExpenseTypeDraft) (*ExpenseType, error)
	// Update returns ErrNoRecord when the backend does not echo the record
	Update(ctx context.Context, id int64, draft ExpenseTypeDraft) (*ExpenseType, error)
	Delete(ctx context.Context, id int64) error
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
