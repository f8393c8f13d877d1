package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoPayload is returned when a response carries no record, e.g. a write
// that only echoes an identifier. Callers reload instead of inventing one.
var ErrNoPayload = errors.New("response carries no payload")

// Shape tells how a response was wrapped
type Shape int

const (
	// ShapeBare is a plain array, object or scalar
	ShapeBare Shape = iota
	// ShapeEnvelope is {status, message, data}
	ShapeEnvelope
)

// Payload is a response after envelope normalization
type Payload struct {
	Shape   Shape
	Status  int
	Message string
	// Data is the bare payload; nil when absent or null
	Data json.RawMessage
}

// Normalize unwraps a response that is either a bare payload or a
// {status, message, data} envelope. A sequence is returned unchanged, an
// object with a data field yields that field, anything else is the payload.
func Normalize(raw json.RawMessage) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Payload{Shape: ShapeBare}
	}
	if trimmed[0] != '{' {
		return Payload{Shape: ShapeBare, Data: trimmed}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Payload{Shape: ShapeBare, Data: trimmed}
	}
	data, ok := fields["data"]
	if !ok {
		return Payload{Shape: ShapeBare, Data: trimmed}
	}

	p := Payload{Shape: ShapeEnvelope}
	if s, ok := fields["status"]; ok {
		_ = json.Unmarshal(s, &p.Status)
	}
	if m, ok := fields["message"]; ok {
		_ = json.Unmarshal(m, &p.Message)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		p.Data = data
	}
	return p
}

// DecodeList normalizes raw and decodes the payload as a list. An absent
// payload decodes to an empty list.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	p := Normalize(raw)
	if p.Data == nil {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(p.Data, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// DecodeItem normalizes raw and decodes the payload as a single record.
// Returns ErrNoPayload when the payload is absent or is not an object.
func DecodeItem[T any](raw json.RawMessage) (*T, error) {
	p := Normalize(raw)
	if p.Data == nil || p.Data[0] != '{' {
		return nil, ErrNoPayload
	}
	var item T
	if err := json.Unmarshal(p.Data, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &item, nil
}
