package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositHandler_LoadPreselectsFund(t *testing.T) {
	h := NewDepositHandler(newRegistry(t, newBackend()))

	c, rec := newPageContext(http.MethodPost, "/api/v1/pages/deposits/load", "", uuid.New())
	require.NoError(t, h.Load(c))

	state := decode[page.DepositsState](t, rec)
	require.Len(t, state.Funds, 1)
	assert.Equal(t, int64(1), state.Draft.FundID)
	assert.Equal(t, "2025-11-22", state.Draft.Date.String())
}

func TestDepositHandler_Save(t *testing.T) {
	b := newBackend()
	h := NewDepositHandler(newRegistry(t, b))
	sid := uuid.New()

	c, _ := newPageContext(http.MethodPut, "/api/v1/pages/deposits/draft", `{"date":"2025-11-20","fundId":1,"amount":"75.25"}`, sid)
	require.NoError(t, h.SetDraft(c))

	c, rec := newPageContext(http.MethodPost, "/api/v1/pages/deposits/save", "", sid)
	require.NoError(t, h.Save(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, b.deposits.CreateCalls())
	assert.Equal(t, domain.NewDate(2025, 11, 20), b.deposits.Created[0].Date)

	state := decode[page.DepositsState](t, rec)
	require.NotNil(t, state.LastSaved)
	assert.Equal(t, "75.25", state.LastSaved.Amount.StringFixed(2))
	assert.Len(t, state.Recent, 1)
	assert.True(t, state.Draft.Amount.IsZero(), "amount is cleared for the next deposit")
	assert.Equal(t, int64(1), state.Draft.FundID)
}

func TestDepositHandler_SaveRejectsZeroAmount(t *testing.T) {
	b := newBackend()
	h := NewDepositHandler(newRegistry(t, b))
	sid := uuid.New()

	c, _ := newPageContext(http.MethodPut, "/api/v1/pages/deposits/draft", `{"date":"2025-11-20","fundId":1,"amount":0}`, sid)
	require.NoError(t, h.SetDraft(c))

	c, rec := newPageContext(http.MethodPost, "/api/v1/pages/deposits/save", "", sid)
	require.NoError(t, h.Save(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, b.deposits.CreateCalls())
}
