package rest

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
)

const fundsPath = "api/FondoMonetario"

type fondoMonetario struct {
	ID           int64           `json:"id"`
	Nombre       string          `json:"nombre"`
	TipoFondo    domain.FundKind `json:"tipoFondo"`
	NumeroCuenta *string         `json:"numeroCuenta"`
	Descripcion  *string         `json:"descripcion"`
}

// fondoMonetarioWrite carries the fund kind as its numeric code
type fondoMonetarioWrite struct {
	Nombre       string  `json:"nombre"`
	TipoFondo    int     `json:"tipoFondo"`
	NumeroCuenta *string `json:"numeroCuenta"`
	Descripcion  *string `json:"descripcion"`
}

func (w fondoMonetario) toDomain() *domain.MonetaryFund {
	return &domain.MonetaryFund{
		ID:            w.ID,
		Name:          w.Nombre,
		Kind:          w.TipoFondo,
		AccountNumber: w.NumeroCuenta,
		Description:   w.Descripcion,
	}
}

func newFondoMonetarioWrite(draft domain.MonetaryFundDraft) (fondoMonetarioWrite, error) {
	code, err := draft.Kind.Code()
	if err != nil {
		return fondoMonetarioWrite{}, err
	}
	return fondoMonetarioWrite{
		Nombre:       draft.Name,
		TipoFondo:    code,
		NumeroCuenta: draft.AccountNumber,
		Descripcion:  draft.Description,
	}, nil
}

// MonetaryFundRepository implements domain.MonetaryFundRepository
type MonetaryFundRepository struct {
	client Transport
}

// NewMonetaryFundRepository creates a new MonetaryFundRepository
func NewMonetaryFundRepository(client Transport) *MonetaryFundRepository {
	return &MonetaryFundRepository{client: client}
}

var _ domain.MonetaryFundRepository = (*MonetaryFundRepository)(nil)

func (r *MonetaryFundRepository) List(ctx context.Context) ([]*domain.MonetaryFund, error) {
	raw, err := r.client.Get(ctx, fundsPath, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	rows, err := api.DecodeList[fondoMonetario](raw)
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	funds := make([]*domain.MonetaryFund, len(rows))
	for i, row := range rows {
		funds[i] = row.toDomain()
	}
	return funds, nil
}

func (r *MonetaryFundRepository) Create(ctx context.Context, draft domain.MonetaryFundDraft) (*domain.MonetaryFund, error) {
	body, err := newFondoMonetarioWrite(draft)
	if err != nil {
		return nil, fmt.Errorf("create fund: %w", err)
	}
	raw, err := r.client.Post(ctx, fundsPath, body, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("create fund: %w", err)
	}
	created, err := decodeRecord[fondoMonetario](raw)
	if err != nil {
		return nil, err
	}
	return created.toDomain(), nil
}

func (r *MonetaryFundRepository) Update(ctx context.Context, id int64, draft domain.MonetaryFundDraft) (*domain.MonetaryFund, error) {
	body, err := newFondoMonetarioWrite(draft)
	if err != nil {
		return nil, fmt.Errorf("update fund %d: %w", id, err)
	}
	raw, err := r.client.Put(ctx, idPath(fundsPath, id), body, api.Options{})
	if err != nil {
		return nil, fmt.Errorf("update fund %d: %w", id, err)
	}
	updated, err := decodeRecord[fondoMonetario](raw)
	if err != nil {
		return nil, err
	}
	return updated.toDomain(), nil
}

func (r *MonetaryFundRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.client.Delete(ctx, idPath(fundsPath, id), api.Options{}); err != nil {
		return fmt.Errorf("delete fund %d: %w", id, err)
	}
	return nil
}
