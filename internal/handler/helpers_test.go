package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/dafibh/fortuna/fortuna-admin/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// today is pinned so default periods are predictable
var today = time.Date(2025, time.November, 22, 10, 30, 0, 0, time.UTC)

type backend struct {
	expenseTypes *testutil.MockExpenseTypeRepository
	funds        *testutil.MockMonetaryFundRepository
	budgets      *testutil.MockBudgetRepository
	deposits     *testutil.MockDepositRepository
	expenses     *testutil.MockExpenseRepository
	reports      *testutil.MockReportRepository
}

func newBackend() *backend {
	return &backend{
		expenseTypes: testutil.NewMockExpenseTypeRepository(
			&domain.ExpenseType{ID: 1, Code: "TG-001", Name: "Food"},
			&domain.ExpenseType{ID: 2, Code: "TG-002", Name: "Transport"},
		),
		funds: testutil.NewMockMonetaryFundRepository(
			&domain.MonetaryFund{ID: 1, Name: "Caja chica", Kind: domain.FundKindPettyCash},
		),
		budgets:  testutil.NewMockBudgetRepository(),
		deposits: testutil.NewMockDepositRepository(),
		expenses: testutil.NewMockExpenseRepository(),
		reports:  testutil.NewMockReportRepository(),
	}
}

func (b *backend) deps() page.Dependencies {
	return page.Dependencies{
		ExpenseTypes: b.expenseTypes,
		Funds:        b.funds,
		Budgets:      b.budgets,
		Deposits:     b.deposits,
		Expenses:     b.expenses,
		Reports:      b.reports,
	}
}

func newRegistry(t *testing.T, b *backend) *page.Registry {
	t.Helper()
	r := page.NewRegistry(b.deps(), time.Hour, page.WithClock(func() time.Time { return today }))
	t.Cleanup(r.Stop)
	return r
}

// newPageContext builds a request bound to sessionID the way the session
// middleware would
func newPageContext(method, target, body string, sessionID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sessionID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.SessionIDKey, sessionID))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
