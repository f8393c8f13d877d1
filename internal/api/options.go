package api

import (
	"net/http"
	"net/url"
)

// Options carries per-call request settings
type Options struct {
	// Query is the top-level query parameter set
	Query url.Values
	// Override holds explicit per-call settings. Its Query, when non-nil,
	// replaces Query entirely rather than merging with it.
	Override *Override
}

// Override is the nested per-call option set
type Override struct {
	Query           url.Values
	Header          http.Header
	WithCredentials *bool
}

// requestConfig is the single merged configuration a request is built from
type requestConfig struct {
	Query           url.Values
	Header          http.Header
	WithCredentials bool
}

// WithQuery returns Options carrying only a top-level query set
func WithQuery(q url.Values) Options {
	return Options{Query: q}
}

// Credentials returns a pointer for Override.WithCredentials
func Credentials(include bool) *bool {
	return &include
}

func (o Options) merge() requestConfig {
	cfg := requestConfig{Query: o.Query}
	if o.Override == nil {
		return cfg
	}
	if o.Override.Query != nil {
		cfg.Query = o.Override.Query
	}
	cfg.Header = o.Override.Header
	if o.Override.WithCredentials != nil {
		cfg.WithCredentials = *o.Override.WithCredentials
	}
	return cfg
}
