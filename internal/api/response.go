package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
)

const parseFailure = "Failed to parse response"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Status  int             `json:"status,omitempty"`

	// Err carries a sentinel for failures the envelope cannot express,
	// such as ErrSessionExpired.
	Err error `json:"-"`
}

// Failure converts an unsuccessful response into an *Error, and returns nil
// for a successful one.
func (r Response) Failure() error {
	if r.Success {
		return nil
	}
	msg := r.Error
	if msg == "" {
		msg = "request failed"
	}
	return &Error{Status: r.Status, Message: msg, Err: r.Err}
}

// Decode unmarshals the data field into v.
func (r Response) Decode(v any) error {
	if err := r.Failure(); err != nil {
		return err
	}
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrUnauthorized:
		return e.Status == 401
	}
	return false
}
