package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	const fallback = "Could not save."

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain text body", &HTTPError{Status: 400, Body: []byte("Monto inválido")}, "Monto inválido"},
		{"json string body", &HTTPError{Status: 400, Body: []byte(`"Fondo no existe"`)}, "Fondo no existe"},
		{"problem title", &HTTPError{Status: 400, Body: []byte(`{"title":"Validation failed","status":400}`)}, "Validation failed"},
		{"envelope message", &HTTPError{Status: 409, Body: []byte(`{"status":409,"message":"Duplicado","data":null}`)}, "Duplicado"},
		{"empty body", &HTTPError{Status: 500}, fallback},
		{"array body", &HTTPError{Status: 500, Body: []byte(`[1,2]`)}, fallback},
		{"transport failure", &HTTPError{Err: errors.New("connection refused")}, fallback},
		{"wrapped", fmt.Errorf("save budget: %w", &HTTPError{Status: 400, Body: []byte("Mes inválido")}), "Mes inválido"},
		{"non http error", errors.New("boom"), fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, fallback))
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{Method: "GET", URL: "http://x/api", Status: 404}
	assert.Equal(t, "GET http://x/api: status 404", err.Error())

	cause := errors.New("dial tcp: refused")
	err = &HTTPError{Method: "GET", URL: "http://x/api", Err: cause}
	assert.ErrorIs(t, err, cause)
}
