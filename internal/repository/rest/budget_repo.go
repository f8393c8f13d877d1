package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	budgetsPath      = "api/Presupuesto"
	budgetUpsertPath = "api/Presupuesto/upsert"
)

type presupuesto struct {
	ID                 int64           `json:"id"`
	Anio               int             `json:"anio"`
	Mes                int             `json:"mes"`
	TipoGastoID        int64           `json:"tipoGastoId"`
	MontoPresupuestado decimal.Decimal `json:"montoPresupuestado"`
	UsuarioID          *int64          `json:"usuarioId"`
}

type presupuestoUpsert struct {
	Anio               int         `json:"anio"`
	Mes                int         `json:"mes"`
	TipoGastoID        int64       `json:"tipoGastoId"`
	MontoPresupuestado json.Number `json:"montoPresupuestado"`
	UsuarioID          *int64      `json:"usuarioId"`
}

func (w presupuesto) toDomain() *domain.Budget {
	return &domain.Budget{
		ID:            w.ID,
		Year:          w.Anio,
		Month:         w.Mes,
		ExpenseTypeID: w.TipoGastoID,
		Amount:        w.MontoPresupuestado,
		UserID:        w.UsuarioID,
	}
}

// BudgetRepository implements domain.BudgetRepository
type BudgetRepository struct {
	client Transport
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(client Transport) *BudgetRepository {
	return &BudgetRepository{client: client}
}

var _ domain.BudgetRepository = (*BudgetRepository)(nil)

func (r *BudgetRepository) List(ctx context.Context, filter domain.BudgetFilter) ([]*domain.Budget, error) {
	q := url.Values{}
	q.Set("anio", strconv.Itoa(filter.Year))
	q.Set("mes", strconv.Itoa(filter.Month))
	if filter.UserID != nil {
		q.Set("usuarioId", formatInt(*filter.UserID))
	}

	raw, err := r.client.Get(ctx, budgetsPath, api.WithQuery(q))
	if err != nil {
		return nil, fmt.Errorf("list budgets %d-%02d: %w", filter.Year, filter.Month, err)
	}
	rows, err := api.DecodeList[presupuesto](raw)
	if err != nil {
		return nil, fmt.Errorf("list budgets %d-%02d: %w", filter.Year, filter.Month, err)
	}
	budgets := make([]*domain.Budget, len(rows))
	for i, row := range rows {
		budgets[i] = row.toDomain()
	}
	return budgets, nil
}

func (r *BudgetRepository) Upsert(ctx context.Context, upsert domain.BudgetUpsert) (*domain.Budget, error) {
	body := presupuestoUpsert{
		Anio:               upsert.Year,
		Mes:                upsert.Month,
		TipoGastoID:        upsert.ExpenseTypeID,
		MontoPresupuestado: number(upsert.Amount),
		UsuarioID:          upsert.UserID,
	}
	raw, err := r.client.Post(ctx, budgetUpsertPath, body, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("upsert budget: %w", err)
	}
	saved, err := decodeRecord[presupuesto](raw)
	if err != nil {
		return nil, err
	}
	return saved.toDomain(), nil
}
