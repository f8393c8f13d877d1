package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_Movements(t *testing.T) {
	b := newBackend()
	b.reports.MovementRows = []*domain.Movement{
		{Kind: domain.MovementDeposit, Date: domain.NewDate(2025, 10, 2), FundID: 1, Total: decimal.NewFromInt(500)},
		{Kind: domain.MovementExpense, Date: domain.NewDate(2025, 10, 3), FundID: 1, Total: decimal.NewFromInt(120)},
	}
	h := NewReportHandler(newRegistry(t, b))
	sid := uuid.New()

	c, rec := newPageContext(http.MethodGet, "/api/v1/pages/reports/movements", "", sid)
	require.NoError(t, h.GetMovements(c))
	state := decode[page.MovementsState](t, rec)
	assert.Equal(t, "2025-11-01", state.Filter.From.String())
	assert.Equal(t, "2025-11-30", state.Filter.To.String())

	c, rec = newPageContext(http.MethodPut, "/api/v1/pages/reports/movements/filter", `{"from":"2025-10-01","to":"2025-10-31"}`, sid)
	require.NoError(t, h.SetMovementsFilter(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, b.reports.Calls(), "setting the filter does not load")

	c, rec = newPageContext(http.MethodPost, "/api/v1/pages/reports/movements/load", "", sid)
	require.NoError(t, h.LoadMovements(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	state = decode[page.MovementsState](t, rec)
	assert.Len(t, state.Rows, 2)
	assert.Equal(t, "380", state.Totals.Net.String())
	require.Len(t, b.reports.Periods, 1)
	assert.Equal(t, domain.NewDate(2025, 10, 1), b.reports.Periods[0].From)
}

func TestReportHandler_MovementsInvertedRange(t *testing.T) {
	b := newBackend()
	h := NewReportHandler(newRegistry(t, b))
	sid := uuid.New()

	c, rec := newPageContext(http.MethodPut, "/api/v1/pages/reports/movements/filter", `{"from":"2025-10-31","to":"2025-10-01"}`, sid)
	require.NoError(t, h.SetMovementsFilter(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newPageContext(http.MethodPost, "/api/v1/pages/reports/movements/load", "", sid)
	require.NoError(t, h.LoadMovements(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, b.reports.Calls())
}

func TestReportHandler_ComparisonWithUser(t *testing.T) {
	b := newBackend()
	b.reports.ComparisonRows = []*domain.ComparisonItem{
		{ExpenseTypeID: 1, ExpenseTypeName: "Food", Budgeted: decimal.NewFromInt(300), Executed: decimal.NewFromInt(250)},
	}
	h := NewReportHandler(newRegistry(t, b))
	sid := uuid.New()

	c, rec := newPageContext(http.MethodPut, "/api/v1/pages/reports/comparison/filter", `{"from":"2025-11-01","to":"2025-11-30","userId":4}`, sid)
	require.NoError(t, h.SetComparisonFilter(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newPageContext(http.MethodPost, "/api/v1/pages/reports/comparison/load", "", sid)
	require.NoError(t, h.LoadComparison(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, b.reports.LastUserID)
	assert.Equal(t, int64(4), *b.reports.LastUserID)

	c, rec = newPageContext(http.MethodGet, "/api/v1/pages/reports/comparison", "", sid)
	require.NoError(t, h.GetComparison(c))
	state := decode[page.ComparisonState](t, rec)
	require.Len(t, state.Rows, 1)
	assert.Equal(t, "50", state.Totals.Delta.String())
}
