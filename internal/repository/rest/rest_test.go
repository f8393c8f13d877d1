package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded is what the fake backend saw for a single request
type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// newBackend starts a fake backend answering every request with status and
// body, and records the last request it received
func newBackend(t *testing.T, status int, body string) (*api.Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.Query()
		rec.Body = nil
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.Body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL), rec
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func TestExpenseTypeRepository_ListAcceptsBothShapes(t *testing.T) {
	bodies := []string{
		`[{"id":1,"codigo":"TG-001","nombre":"Food","descripcion":null}]`,
		`{"status":200,"message":"","data":[{"id":1,"codigo":"TG-001","nombre":"Food","descripcion":null}]}`,
	}
	for _, body := range bodies {
		client, rec := newBackend(t, http.StatusOK, body)
		repo := NewExpenseTypeRepository(client)

		items, err := repo.List(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "/api/TipoGasto", rec.Path)
		require.Len(t, items, 1)
		assert.Equal(t, &domain.ExpenseType{ID: 1, Code: "TG-001", Name: "Food"}, items[0])
	}
}

func TestExpenseTypeRepository_CreateSendsWireFields(t *testing.T) {
	client, rec := newBackend(t, http.StatusCreated, `{"status":201,"message":"","data":{"id":9,"codigo":"TG-009","nombre":"Fuel","descripcion":"car"}}`)
	repo := NewExpenseTypeRepository(client)

	created, err := repo.Create(context.Background(), domain.ExpenseTypeDraft{Name: "Fuel", Description: strPtr("car")})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "Fuel", rec.Body["nombre"])
	assert.Equal(t, "car", rec.Body["descripcion"])
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "TG-009", created.Code)
}

func TestExpenseTypeRepository_CreateWithoutEcho(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `{"status":200,"message":"created","data":9}`)
	repo := NewExpenseTypeRepository(client)

	_, err := repo.Create(context.Background(), domain.ExpenseTypeDraft{Name: "Fuel"})
	assert.ErrorIs(t, err, domain.ErrNoRecord)
}

func TestExpenseTypeRepository_UpdateAndDeletePaths(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `{"id":4,"codigo":"TG-004","nombre":"Rent"}`)
	repo := NewExpenseTypeRepository(client)
	ctx := context.Background()

	_, err := repo.Update(ctx, 4, domain.ExpenseTypeDraft{Name: "Rent"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.Method)
	assert.Equal(t, "/api/TipoGasto/4", rec.Path)

	require.NoError(t, repo.Delete(ctx, 4))
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/api/TipoGasto/4", rec.Path)
}

func TestExpenseTypeRepository_ErrorKeepsHTTPError(t *testing.T) {
	client, _ := newBackend(t, http.StatusConflict, `"El tipo de gasto está en uso"`)
	repo := NewExpenseTypeRepository(client)

	err := repo.Delete(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, "El tipo de gasto está en uso", api.UserMessage(err, "fallback"))
}

func TestMonetaryFundRepository_KindReadAsTagWrittenAsCode(t *testing.T) {
	client, rec := newBackend(t, http.StatusCreated, `{"id":2,"nombre":"Banco","tipoFondo":"CuentaBancaria","numeroCuenta":"001-22","descripcion":null}`)
	repo := NewMonetaryFundRepository(client)

	created, err := repo.Create(context.Background(), domain.MonetaryFundDraft{
		Name:          "Banco",
		Kind:          domain.FundKindBankAccount,
		AccountNumber: strPtr("001-22"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/FondoMonetario", rec.Path)
	assert.Equal(t, float64(1), rec.Body["tipoFondo"])
	assert.Equal(t, domain.FundKindBankAccount, created.Kind)
	assert.Equal(t, "001-22", *created.AccountNumber)
}

func TestMonetaryFundRepository_ListAcceptsNumericKind(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `[{"id":1,"nombre":"Caja","tipoFondo":0},{"id":2,"nombre":"Banco","tipoFondo":"CuentaBancaria"}]`)
	repo := NewMonetaryFundRepository(client)

	funds, err := repo.List(context.Background())
	require.NoError(t, err)

	require.Len(t, funds, 2)
	assert.Equal(t, domain.FundKindPettyCash, funds[0].Kind)
	assert.Equal(t, domain.FundKindBankAccount, funds[1].Kind)
}

func TestBudgetRepository_ListQuery(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `[{"id":3,"anio":2025,"mes":11,"tipoGastoId":1,"montoPresupuestado":150.5,"usuarioId":null}]`)
	repo := NewBudgetRepository(client)

	budgets, err := repo.List(context.Background(), domain.BudgetFilter{Year: 2025, Month: 11})
	require.NoError(t, err)

	assert.Equal(t, "/api/Presupuesto", rec.Path)
	assert.Equal(t, "2025", rec.Query.Get("anio"))
	assert.Equal(t, "11", rec.Query.Get("mes"))
	assert.False(t, rec.Query.Has("usuarioId"))
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Amount.Equal(decimal.RequireFromString("150.5")))
	assert.Nil(t, budgets[0].UserID)
}

func TestBudgetRepository_ListQueryWithUser(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `[]`)
	repo := NewBudgetRepository(client)

	_, err := repo.List(context.Background(), domain.BudgetFilter{Year: 2025, Month: 1, UserID: int64Ptr(7)})
	require.NoError(t, err)

	assert.Equal(t, "7", rec.Query.Get("usuarioId"))
}

func TestBudgetRepository_UpsertSendsNumber(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `{"status":200,"message":"","data":{"id":3,"anio":2025,"mes":11,"tipoGastoId":1,"montoPresupuestado":200,"usuarioId":null}}`)
	repo := NewBudgetRepository(client)

	saved, err := repo.Upsert(context.Background(), domain.BudgetUpsert{
		Year: 2025, Month: 11, ExpenseTypeID: 1, Amount: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/Presupuesto/upsert", rec.Path)
	assert.Equal(t, float64(200), rec.Body["montoPresupuestado"])
	assert.Nil(t, rec.Body["usuarioId"])
	assert.Equal(t, int64(3), saved.ID)
}

func TestBudgetRepository_UpsertIdentifierOnly(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `3`)
	repo := NewBudgetRepository(client)

	_, err := repo.Upsert(context.Background(), domain.BudgetUpsert{Year: 2025, Month: 11, ExpenseTypeID: 1, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrNoRecord)
}

func TestDepositRepository_Create(t *testing.T) {
	client, rec := newBackend(t, http.StatusCreated, `{"id":11,"fecha":"2025-11-22T00:00:00","fondoMonetarioId":2,"monto":75.25}`)
	repo := NewDepositRepository(client)

	saved, err := repo.Create(context.Background(), domain.DepositDraft{
		Date:   domain.NewDate(2025, 11, 22),
		FundID: 2,
		Amount: decimal.RequireFromString("75.25"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/Depositos", rec.Path)
	assert.Equal(t, "2025-11-22", rec.Body["fecha"])
	assert.Equal(t, float64(2), rec.Body["fondoMonetarioId"])
	assert.Equal(t, 75.25, rec.Body["monto"])
	assert.True(t, saved.Date.Equal(domain.NewDate(2025, 11, 22)))
	assert.Equal(t, int64(11), saved.ID)
}

func TestExpenseRepository_CreateWithOverdrafts(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `{
		"gastoEncabezadoId": 40,
		"guardado": true,
		"sobregiros": [{"tipoGastoId":1,"tipoGastoNombre":"Food","presupuestado":100,"ejecutadoPrevio":90,"montoNuevo":25,"exceso":15}]
	}`)
	repo := NewExpenseRepository(client)

	result, err := repo.Create(context.Background(), domain.ExpenseDraft{
		Date:         domain.NewDate(2025, 11, 22),
		FundID:       1,
		DocumentKind: domain.DocumentInvoice,
		Merchant:     "Super",
		Lines: []domain.ExpenseLine{
			{ExpenseTypeID: 1, Amount: decimal.NewFromInt(25)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/Gastos", rec.Path)
	assert.Equal(t, "Factura", rec.Body["tipoDocumento"])
	assert.Equal(t, "Super", rec.Body["nombreComercio"])
	lines, ok := rec.Body["detalles"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)

	assert.Equal(t, int64(40), result.HeaderID)
	assert.True(t, result.Saved)
	require.Len(t, result.Overdrafts, 1)
	assert.Equal(t, "Food", result.Overdrafts[0].ExpenseTypeName)
	assert.True(t, result.Overdrafts[0].Excess.Equal(decimal.NewFromInt(15)))
}

func TestReportRepository_MovementsBoundaries(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `[
		{"tipo":"Deposito","fecha":"2025-11-03","fondoMonetarioId":1,"descripcion":null,"montoTotal":100},
		{"tipo":0,"fecha":"2025-11-04T00:00:00","fondoMonetarioId":1,"descripcion":"Super","montoTotal":40}
	]`)
	repo := NewReportRepository(client)

	rows, err := repo.Movements(context.Background(), domain.DateRange{
		From: domain.NewDate(2025, 11, 1),
		To:   domain.NewDate(2025, 11, 30),
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/Reportes/movimientos", rec.Path)
	assert.Equal(t, "2025-11-01T00:00:00.000Z", rec.Query.Get("desde"))
	assert.Equal(t, "2025-11-30T00:00:00.000Z", rec.Query.Get("hasta"))
	require.Len(t, rows, 2)
	assert.Equal(t, domain.MovementDeposit, rows[0].Kind)
	assert.Equal(t, domain.MovementExpense, rows[1].Kind)
}

func TestReportRepository_ComparisonUser(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `{"status":200,"message":"","data":[{"tipoGastoId":1,"tipoGastoNombre":"Food","presupuestado":100,"ejecutado":80}]}`)
	repo := NewReportRepository(client)

	items, err := repo.Comparison(context.Background(), domain.DateRange{
		From: domain.NewDate(2025, 11, 1),
		To:   domain.NewDate(2025, 11, 30),
	}, int64Ptr(3))
	require.NoError(t, err)

	assert.Equal(t, "/api/Reportes/comparativo", rec.Path)
	assert.Equal(t, "3", rec.Query.Get("usuarioId"))
	require.Len(t, items, 1)
	assert.True(t, items[0].Executed.Equal(decimal.NewFromInt(80)))
}

func TestWithCredentials_SendsTokenAndKeepsQuery(t *testing.T) {
	var gotAuth string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.WithToken("secret"))
	repo := NewBudgetRepository(WithCredentials(client))

	_, err := repo.List(context.Background(), domain.BudgetFilter{Year: 2025, Month: 11})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "2025", gotQuery.Get("anio"))
	assert.Equal(t, "11", gotQuery.Get("mes"))
}

func TestWithCredentials_WithoutWrapperSendsNoToken(t *testing.T) {
	gotAuth := "unset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	repo := NewExpenseTypeRepository(api.NewClient(srv.URL, api.WithToken("secret")))

	_, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestWithCredentials_ExplicitOverrideWins(t *testing.T) {
	opts := withCredentials(api.Options{Override: &api.Override{WithCredentials: api.Credentials(false)}})
	require.NotNil(t, opts.Override.WithCredentials)
	assert.False(t, *opts.Override.WithCredentials)

	opts = withCredentials(api.WithQuery(url.Values{"mes": {"3"}}))
	assert.True(t, *opts.Override.WithCredentials)
	assert.Nil(t, opts.Override.Query)
	assert.Equal(t, "3", opts.Query.Get("mes"))
}
