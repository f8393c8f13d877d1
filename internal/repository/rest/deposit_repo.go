package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/shopspring/decimal"
)

const depositsPath = "api/Depositos"

type deposito struct {
	ID               int64           `json:"id"`
	Fecha            domain.Date     `json:"fecha"`
	FondoMonetarioID int64           `json:"fondoMonetarioId"`
	Monto            decimal.Decimal `json:"monto"`
}

type depositoCreate struct {
	Fecha            string      `json:"fecha"`
	FondoMonetarioID int64       `json:"fondoMonetarioId"`
	Monto            json.Number `json:"monto"`
}

// DepositRepository implements domain.DepositRepository
type DepositRepository struct {
	client Transport
}

// NewDepositRepository creates a new DepositRepository
func NewDepositRepository(client Transport) *DepositRepository {
	return &DepositRepository{client: client}
}

var _ domain.DepositRepository = (*DepositRepository)(nil)

func (r *DepositRepository) Create(ctx context.Context, draft domain.DepositDraft) (*domain.Deposit, error) {
	body := depositoCreate{
		Fecha:            draft.Date.String(),
		FondoMonetarioID: draft.FundID,
		Monto:            number(draft.Amount),
	}
	raw, err := r.client.Post(ctx, depositsPath, body, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}
	saved, err := decodeRecord[deposito](raw)
	if err != nil {
		return nil, err
	}
	return &domain.Deposit{
		ID:     saved.ID,
		Date:   saved.Fecha,
		FundID: saved.FondoMonetarioID,
		Amount: saved.Monto,
	}, nil
}
