// Package rest implements the domain repositories against the finance
// backend's REST endpoints.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// Transport is the subset of *api.Client the repositories use
type Transport interface {
	Get(ctx context.Context, path string, opts api.Options) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any, opts api.Options) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any, opts api.Options) (json.RawMessage, error)
	Delete(ctx context.Context, path string, opts api.Options) (json.RawMessage, error)
}

var _ Transport = (*api.Client)(nil)

// credentialed opts every request into sending the client's credentials
type credentialed struct {
	next Transport
}

// WithCredentials wraps t so every repository call includes credentials.
// A per-call override that sets WithCredentials explicitly still wins.
func WithCredentials(t Transport) Transport {
	return credentialed{next: t}
}

func withCredentials(opts api.Options) api.Options {
	override := api.Override{}
	if opts.Override != nil {
		override = *opts.Override
	}
	if override.WithCredentials == nil {
		override.WithCredentials = api.Credentials(true)
	}
	opts.Override = &override
	return opts
}

func (c credentialed) Get(ctx context.Context, path string, opts api.Options) (json.RawMessage, error) {
	return c.next.Get(ctx, path, withCredentials(opts))
}

func (c credentialed) Post(ctx context.Context, path string, body any, opts api.Options) (json.RawMessage, error) {
	return c.next.Post(ctx, path, body, withCredentials(opts))
}

func (c credentialed) Put(ctx context.Context, path string, body any, opts api.Options) (json.RawMessage, error) {
	return c.next.Put(ctx, path, body, withCredentials(opts))
}

func (c credentialed) Delete(ctx context.Context, path string, opts api.Options) (json.RawMessage, error) {
	return c.next.Delete(ctx, path, withCredentials(opts))
}

// decodeRecord unwraps a write echo, translating a missing record into
// domain.ErrNoRecord
func decodeRecord[W any](raw json.RawMessage) (*W, error) {
	item, err := api.DecodeItem[W](raw)
	if errors.Is(err, api.ErrNoPayload) {
		return nil, domain.ErrNoRecord
	}
	return item, err
}

// number sends an amount as a JSON number rather than a quoted string
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func idPath(base string, id int64) string {
	return fmt.Sprintf("%s/%d", base, id)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
