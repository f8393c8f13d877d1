package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/shopspring/decimal"
)

const expensesPath = "api/Gastos"

type gastoDetalle struct {
	TipoGastoID int64       `json:"tipoGastoId"`
	Monto       json.Number `json:"monto"`
}

type gastoCreate struct {
	Fecha            string         `json:"fecha"`
	FondoMonetarioID int64          `json:"fondoMonetarioId"`
	Observaciones    *string        `json:"observaciones"`
	NombreComercio   string         `json:"nombreComercio"`
	TipoDocumento    string         `json:"tipoDocumento"`
	UsuarioID        *int64         `json:"usuarioId"`
	Detalles         []gastoDetalle `json:"detalles"`
}

type sobregiro struct {
	TipoGastoID     int64           `json:"tipoGastoId"`
	TipoGastoNombre string          `json:"tipoGastoNombre"`
	Presupuestado   decimal.Decimal `json:"presupuestado"`
	EjecutadoPrevio decimal.Decimal `json:"ejecutadoPrevio"`
	MontoNuevo      decimal.Decimal `json:"montoNuevo"`
	Exceso          decimal.Decimal `json:"exceso"`
}

type gastoSaveResult struct {
	GastoEncabezadoID int64       `json:"gastoEncabezadoId"`
	Guardado          bool        `json:"guardado"`
	Sobregiros        []sobregiro `json:"sobregiros"`
}

// ExpenseRepository implements domain.ExpenseRepository
type ExpenseRepository struct {
	client Transport
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(client Transport) *ExpenseRepository {
	return &ExpenseRepository{client: client}
}

var _ domain.ExpenseRepository = (*ExpenseRepository)(nil)

// Create posts the header with its lines. The result lists any budget
// lines the expense overdraws.
func (r *ExpenseRepository) Create(ctx context.Context, draft domain.ExpenseDraft) (*domain.ExpenseSaveResult, error) {
	body := gastoCreate{
		Fecha:            draft.Date.String(),
		FondoMonetarioID: draft.FundID,
		Observaciones:    draft.Observations,
		NombreComercio:   draft.Merchant,
		TipoDocumento:    string(draft.DocumentKind),
		UsuarioID:        draft.UserID,
		Detalles:         make([]gastoDetalle, len(draft.Lines)),
	}
	for i, line := range draft.Lines {
		body.Detalles[i] = gastoDetalle{TipoGastoID: line.ExpenseTypeID, Monto: number(line.Amount)}
	}

	raw, err := r.client.Post(ctx, expensesPath, body, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	saved, err := decodeRecord[gastoSaveResult](raw)
	if err != nil {
		return nil, err
	}

	result := &domain.ExpenseSaveResult{
		HeaderID:   saved.GastoEncabezadoID,
		Saved:      saved.Guardado,
		Overdrafts: make([]domain.Overdraft, len(saved.Sobregiros)),
	}
	for i, s := range saved.Sobregiros {
		result.Overdrafts[i] = domain.Overdraft{
			ExpenseTypeID:      s.TipoGastoID,
			ExpenseTypeName:    s.TipoGastoNombre,
			Budgeted:           s.Presupuestado,
			PreviouslyExecuted: s.EjecutadoPrevio,
			NewAmount:          s.MontoNuevo,
			Excess:             s.Exceso,
		}
	}
	return result, nil
}
