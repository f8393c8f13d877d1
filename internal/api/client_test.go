package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_JoinsBaseAndPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	_, err := c.Get(context.Background(), "api/TipoGasto", Options{})
	require.NoError(t, err)

	assert.Equal(t, "/api/TipoGasto", gotPath)
}

func TestClient_OverrideQueryWins(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Get(context.Background(), "api/Presupuesto", Options{
		Query:    url.Values{"anio": {"2024"}, "mes": {"1"}},
		Override: &Override{Query: url.Values{"anio": {"2025"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "2025", gotQuery.Get("anio"))
	assert.Empty(t, gotQuery.Get("mes"), "nested query replaces the top-level set")
}

func TestClient_TopLevelQueryUsedWithoutOverride(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Get(context.Background(), "api/Presupuesto", WithQuery(url.Values{"anio": {"2024"}, "mes": {"3"}}))
	require.NoError(t, err)

	assert.Equal(t, "2024", gotQuery.Get("anio"))
	assert.Equal(t, "3", gotQuery.Get("mes"))
}

func TestClient_CredentialsExcludedByDefault(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("secret"))
	ctx := context.Background()

	_, err := c.Get(ctx, "a", Options{})
	require.NoError(t, err)
	_, err = c.Get(ctx, "b", Options{Override: &Override{WithCredentials: Credentials(true)}})
	require.NoError(t, err)

	require.Len(t, gotAuth, 2)
	assert.Empty(t, gotAuth[0])
	assert.Equal(t, "Bearer secret", gotAuth[1])
}

func TestClient_SendsJSONBody(t *testing.T) {
	var gotMethod, gotType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	raw, err := c.Post(context.Background(), "api/TipoGasto", map[string]string{"nombre": "Food"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "Food", gotBody["nombre"])
	assert.JSONEq(t, `{"id":1}`, string(raw))
}

func TestClient_AllVerbs(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()
	_, _ = c.Get(ctx, "x", Options{})
	_, _ = c.Post(ctx, "x", struct{}{}, Options{})
	_, _ = c.Put(ctx, "x", struct{}{}, Options{})
	_, _ = c.Patch(ctx, "x", struct{}{}, Options{})
	raw, err := c.Delete(ctx, "x", Options{})

	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE"}, methods)
}

func TestClient_ErrorStatusCarriesBody(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":"One or more validation errors occurred."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Post(context.Background(), "api/Depositos", struct{}{}, Options{})

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.False(t, httpErr.IsTransport())
	assert.Contains(t, string(httpErr.Body), "validation errors")
	assert.Equal(t, 1, calls, "no retry")
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Get(context.Background(), "api/TipoGasto", Options{})

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.True(t, httpErr.IsTransport())
}
