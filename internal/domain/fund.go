package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FundKind is the petty-cash vs bank-account classification of a fund.
// The backend reads it as a string tag and writes it as a numeric code.
type FundKind string

const (
	FundKindPettyCash   FundKind = "CajaMenuda"
	FundKindBankAccount FundKind = "CuentaBancaria"
)

// fundKindTable is the single mapping between tags and write-time codes
var fundKindTable = []struct {
	kind  FundKind
	code  int
	label string
}{
	{FundKindPettyCash, 0, "Caja Menuda"},
	{FundKindBankAccount, 1, "Cuenta Bancaria"},
}

// FundKinds returns all kinds in code order
func FundKinds() []FundKind {
	kinds := make([]FundKind, len(fundKindTable))
	for i, row := range fundKindTable {
		kinds[i] = row.kind
	}
	return kinds
}

// FundKindFromCode decodes a write-time numeric code
func FundKindFromCode(code int) (FundKind, error) {
	for _, row := range fundKindTable {
		if row.code == code {
			return row.kind, nil
		}
	}
	return "", fmt.Errorf("%w: code %d", ErrUnknownFundKind, code)
}

// Code encodes the kind to its write-time numeric code
func (k FundKind) Code() (int, error) {
	for _, row := range fundKindTable {
		if row.kind == k {
			return row.code, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFundKind, string(k))
}

// Label is the human readable name of the kind
func (k FundKind) Label() string {
	for _, row := range fundKindTable {
		if row.kind == k {
			return row.label
		}
	}
	return string(k)
}

func (k FundKind) Valid() bool {
	_, err := k.Code()
	return err == nil
}

// UnmarshalJSON accepts either the string tag or the numeric code
func (k *FundKind) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if code, err := strconv.Atoi(s); err == nil {
			kind, err := FundKindFromCode(code)
			if err != nil {
				return err
			}
			*k = kind
			return nil
		}
		kind := FundKind(strings.TrimSpace(s))
		if !kind.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownFundKind, s)
		}
		*k = kind
		return nil
	}
	var code int
	if err := json.Unmarshal(b, &code); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownFundKind, b)
	}
	kind, err := FundKindFromCode(code)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

type MonetaryFund struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Kind          FundKind `json:"kind"`
	AccountNumber *string  `json:"accountNumber,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// MonetaryFundDraft holds the editable fields of a fund
type MonetaryFundDraft struct {
	Name          string   `json:"name"`
	Kind          FundKind `json:"kind"`
	AccountNumber *string  `json:"accountNumber"`
	Description   *string  `json:"description"`
}

// NewMonetaryFundDraft returns the blank form defaults
func NewMonetaryFundDraft() MonetaryFundDraft {
	return MonetaryFundDraft{Kind: FundKindPettyCash}
}

func (d MonetaryFundDraft) Normalize() MonetaryFundDraft {
	return MonetaryFundDraft{
		Name:          strings.TrimSpace(d.Name),
		Kind:          d.Kind,
		AccountNumber: trimOptional(d.AccountNumber),
		Description:   trimOptional(d.Description),
	}
}

func (d MonetaryFundDraft) Validate() error {
	var errs fieldErrors
	checkName(&errs, "name", d.Name, MinNameLength)
	if !d.Kind.Valid() {
		errs.add("kind", "is required")
	}
	return errs.err()
}

func (f *MonetaryFund) Draft() MonetaryFundDraft {
	return MonetaryFundDraft{
		Name:          f.Name,
		Kind:          f.Kind,
		AccountNumber: copyString(f.AccountNumber),
		Description:   copyString(f.Description),
	}
}

func (f *MonetaryFund) Apply(d MonetaryFundDraft) *MonetaryFund {
	updated := *f
	updated.Name = d.Name
	updated.Kind = d.Kind
	updated.AccountNumber = copyString(d.AccountNumber)
	updated.Description = copyString(d.Description)
	return &updated
}

type MonetaryFundRepository interface {
	List(ctx context.Context) ([]*MonetaryFund, error)
	Create(ctx context.Context, draft MonetaryFundDraft) (*MonetaryFund, error)
	Update(ctx context.Context, id int64, draft MonetaryFundDraft) (*MonetaryFund, error)
	Delete(ctx context.Context, id int64) error
}
