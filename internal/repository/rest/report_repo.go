package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	movementsPath  = "api/Reportes/movimientos"
	comparisonPath = "api/Reportes/comparativo"
)

type movimiento struct {
	Tipo             domain.MovementKind `json:"tipo"`
	Fecha            domain.Date         `json:"fecha"`
	FondoMonetarioID int64               `json:"fondoMonetarioId"`
	Descripcion      *string             `json:"descripcion"`
	MontoTotal       decimal.Decimal     `json:"montoTotal"`
}

type comparativo struct {
	TipoGastoID     int64           `json:"tipoGastoId"`
	TipoGastoNombre string          `json:"tipoGastoNombre"`
	Presupuestado   decimal.Decimal `json:"presupuestado"`
	Ejecutado       decimal.Decimal `json:"ejecutado"`
}

// ReportRepository implements domain.ReportRepository
type ReportRepository struct {
	client Transport
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(client Transport) *ReportRepository {
	return &ReportRepository{client: client}
}

var _ domain.ReportRepository = (*ReportRepository)(nil)

func periodQuery(period domain.DateRange) url.Values {
	q := url.Values{}
	q.Set("desde", period.From.Timestamp())
	q.Set("hasta", period.To.Timestamp())
	return q
}

func (r *ReportRepository) Movements(ctx context.Context, period domain.DateRange) ([]*domain.Movement, error) {
	raw, err := r.client.Get(ctx, movementsPath, api.WithQuery(periodQuery(period)))
	if err != nil {
		return nil, fmt.Errorf("movements report: %w", err)
	}
	rows, err := api.DecodeList[movimiento](raw)
	if err != nil {
		return nil, fmt.Errorf("movements report: %w", err)
	}
	movements := make([]*domain.Movement, len(rows))
	for i, row := range rows {
		movements[i] = &domain.Movement{
			Kind:        row.Tipo,
			Date:        row.Fecha,
			FundID:      row.FondoMonetarioID,
			Description: row.Descripcion,
			Total:       row.MontoTotal,
		}
	}
	return movements, nil
}

func (r *ReportRepository) Comparison(ctx context.Context, period domain.DateRange, userID *int64) ([]*domain.ComparisonItem, error) {
	q := periodQuery(period)
	if userID != nil {
		q.Set("usuarioId", formatInt(*userID))
	}
	raw, err := r.client.Get(ctx, comparisonPath, api.WithQuery(q))
	if err != nil {
		return nil, fmt.Errorf("comparison report: %w", err)
	}
	rows, err := api.DecodeList[comparativo](raw)
	if err != nil {
		return nil, fmt.Errorf("comparison report: %w", err)
	}
	items := make([]*domain.ComparisonItem, len(rows))
	for i, row := range rows {
		items[i] = &domain.ComparisonItem{
			ExpenseTypeID:   row.TipoGastoID,
			ExpenseTypeName: row.TipoGastoNombre,
			Budgeted:        row.Presupuestado,
			Executed:        row.Ejecutado,
		}
	}
	return items, nil
}
