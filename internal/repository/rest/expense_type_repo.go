package rest

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
)

const expenseTypesPath = "api/TipoGasto"

type tipoGasto struct {
	ID          int64   `json:"id"`
	Codigo      string  `json:"codigo"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
}

type tipoGastoWrite struct {
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
}

func (w tipoGasto) toDomain() *domain.ExpenseType {
	return &domain.ExpenseType{ID: w.ID, Code: w.Codigo, Name: w.Nombre, Description: w.Descripcion}
}

// ExpenseTypeRepository implements domain.ExpenseTypeRepository
type ExpenseTypeRepository struct {
	client Transport
}

// NewExpenseTypeRepository creates a new ExpenseTypeRepository
func NewExpenseTypeRepository(client Transport) *ExpenseTypeRepository {
	return &ExpenseTypeRepository{client: client}
}

var _ domain.ExpenseTypeRepository = (*ExpenseTypeRepository)(nil)

func (r *ExpenseTypeRepository) List(ctx context.Context) ([]*domain.ExpenseType, error) {
	raw, err := r.client.Get(ctx, expenseTypesPath, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("list expense types: %w", err)
	}
	rows, err := api.DecodeList[tipoGasto](raw)
	if err != nil {
		return nil, fmt.Errorf("list expense types: %w", err)
	}
	items := make([]*domain.ExpenseType, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

func (r *ExpenseTypeRepository) Create(ctx context.Context, draft domain.ExpenseTypeDraft) (*domain.ExpenseType, error) {
	raw, err := r.client.Post(ctx, expenseTypesPath, tipoGastoWrite{Nombre: draft.Name, Descripcion: draft.Description}, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("create expense type: %w", err)
	}
	created, err := decodeRecord[tipoGasto](raw)
	if err != nil {
		return nil, err
	}
	return created.toDomain(), nil
}

func (r *ExpenseTypeRepository) Update(ctx context.Context, id int64, draft domain.ExpenseTypeDraft) (*domain.ExpenseType, error) {
	raw, err := r.client.Put(ctx, idPath(expenseTypesPath, id), tipoGastoWrite{Nombre: draft.Name, Descripcion: draft.Description}, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("update expense type %d: %w", id, err)
	}
	updated, err := decodeRecord[tipoGasto](raw)
	if err != nil {
		return nil, err
	}
	return updated.toDomain(), nil
}

func (r *ExpenseTypeRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.client.Delete(ctx, idPath(expenseTypesPath, id), api.Options{}); err != nil {
		return fmt.Errorf("delete expense type %d: %w", id, err)
	}
	return nil
}
