package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
)

type stubValidator struct {
	claims any
	err    error
	tokens []string
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (any, error) {
	s.tokens = append(s.tokens, token)
	return s.claims, s.err
}

func validClaims() *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|admin"},
		CustomClaims:     &CustomClaims{Email: "admin@example.com", Name: "Admin"},
	}
}

func runAuth(t *testing.T, v TokenValidator, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/expense-types", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen echo.Context
	handler := NewAuthMiddlewareWithValidator(v).Authenticate()(func(c echo.Context) error {
		called = true
		seen = c
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return rec, seen, called
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	rec, _, called := runAuth(t, &stubValidator{claims: validClaims()}, "")

	if called {
		t.Error("Handler should not be called without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", rec.Code)
	}

	var body problemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected problem body, got %q", rec.Body.String())
	}
	if body.Type != errorTypeUnauthorized || body.Detail != "missing authorization header" {
		t.Errorf("Unexpected problem %+v", body)
	}
	if body.Instance != "/api/expense-types" {
		t.Errorf("Expected instance to be the request path, got %q", body.Instance)
	}
}

func TestAuthenticate_InvalidHeaderFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "invalid-token"},
		{"wrong prefix", "Basic token123"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &stubValidator{claims: validClaims()}
			rec, _, called := runAuth(t, v, tt.header)

			if called {
				t.Error("Handler should not be called")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
			if len(v.tokens) != 0 {
				t.Error("Validator should not see malformed headers")
			}
		})
	}
}

func TestAuthenticate_RejectedToken(t *testing.T) {
	rec, _, called := runAuth(t, &stubValidator{err: errors.New("expired")}, "Bearer abc")

	if called {
		t.Error("Handler should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestAuthenticate_UnexpectedClaimsType(t *testing.T) {
	rec, _, called := runAuth(t, &stubValidator{claims: "not claims"}, "Bearer abc")

	if called {
		t.Error("Handler should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	v := &stubValidator{claims: validClaims()}
	rec, c, called := runAuth(t, v, "bearer abc.def")

	if !called {
		t.Fatal("Handler should be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if len(v.tokens) != 1 || v.tokens[0] != "abc.def" {
		t.Errorf("Expected token abc.def, got %v", v.tokens)
	}
	if got := GetAuth0ID(c); got != "auth0|admin" {
		t.Errorf("Expected subject auth0|admin, got %q", got)
	}
	custom := GetCustomClaims(c)
	if custom == nil || custom.Email != "admin@example.com" {
		t.Errorf("Expected custom claims, got %+v", custom)
	}
}

func TestGetters_WithoutAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if GetAuth0ID(c) != "" {
		t.Error("Expected empty auth0 id")
	}
	if GetClaims(c) != nil {
		t.Error("Expected nil claims")
	}
	if GetCustomClaims(c) != nil {
		t.Error("Expected nil custom claims")
	}
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := &CustomClaims{Email: "test@example.com", Name: "Test"}

	if err := claims.Validate(context.Background()); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestNewAuthMiddleware(t *testing.T) {
	m, err := NewAuthMiddleware("tenant.example.auth0.com", "https://admin.fortuna.app")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m == nil || m.validator == nil {
		t.Error("Expected a configured validator")
	}
}
