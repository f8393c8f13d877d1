package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenericErrorMessage is shown when neither the server nor the transport
// produced anything displayable
const GenericErrorMessage = "The request could not be completed. Please try again."

// HTTPError is returned for any non-success status or transport failure.
// Status is zero when no response was received.
type HTTPError struct {
	Method string
	URL    string
	Status int
	Body   []byte
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the request failed before a response arrived
func (e *HTTPError) IsTransport() bool {
	return e.Status == 0
}

// serverMessage extracts a displayable message from the error body: a plain
// text body, a JSON string, a problem "title" or an envelope "message".
func (e *HTTPError) serverMessage() string {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 {
		return ""
	}

	switch body[0] {
	case '{':
		var fields struct {
			Title   string `json:"title"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &fields); err != nil {
			return ""
		}
		if t := strings.TrimSpace(fields.Title); t != "" {
			return t
		}
		return strings.TrimSpace(fields.Message)
	case '[':
		return ""
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	default:
		return string(body)
	}
}

// UserMessage returns the display-ready message for err: the server-supplied
// message when present, else fallback.
func UserMessage(err error, fallback string) string {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.IsTransport() {
		return fallback
	}
	if msg := httpErr.serverMessage(); msg != "" {
		return msg
	}
	return fallback
}
