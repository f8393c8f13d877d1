// Package page holds the server-owned state of every administration page.
//
// Each page keeps its loaded rows, the open form draft and its loading and
// saving flags. Pages are safe for concurrent use: state is guarded by a
// mutex that is released for the duration of every backend call, and a
// second load or save while one is in flight fails with domain.ErrBusy.
package page

import (
	"errors"
	"time"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/google/uuid"
)

// Clock returns the current time. Pages default to time.Now.
type Clock func() time.Time

// Mode is the form state of a list page
type Mode string

const (
	ModeBrowsing Mode = "browsing"
	ModeCreating Mode = "creating"
	ModeEditing  Mode = "editing"
)

// Display messages used when the backend gives nothing better
const (
	loadFailedMessage = "Could not load the data."
	saveFailedMessage = "Could not save the changes."
)

// notifier publishes page events for one session
type notifier struct {
	sessionID uuid.UUID
	publisher websocket.EventPublisher
}

func (n notifier) publish(event websocket.Event) {
	if n.publisher != nil {
		n.publisher.Publish(n.sessionID, event)
	}
}

// fieldErrorsOf extracts field errors from a validation failure
func fieldErrorsOf(err error) []domain.FieldError {
	if verr, ok := asValidation(err); ok {
		return verr.Fields
	}
	return nil
}

// failureMessage turns a backend failure into display text
func failureMessage(err error, fallback string) string {
	if _, ok := asValidation(err); ok {
		return ""
	}
	return api.UserMessage(err, fallback)
}

func asValidation(err error) (*domain.ValidationError, bool) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Option configures a page
type Option func(*options)

type options struct {
	clock  Clock
	events notifier
}

// WithClock replaces time.Now, e.g. to pin "today" in tests
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithEvents publishes the page's events to a session's connections
func WithEvents(sessionID uuid.UUID, publisher websocket.EventPublisher) Option {
	return func(o *options) {
		o.events = notifier{sessionID: sessionID, publisher: publisher}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
