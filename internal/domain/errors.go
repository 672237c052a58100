package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubmissionInFlight is returned when a form instance already has a
// review or booking submission in flight.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrFormClosed is returned when a submission is attempted on a form
// instance that has been torn down.
var ErrFormClosed = errors.New("form instance closed")

// FieldError is one invalid field of a submitted form.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is local and field-scoped; it never reaches the network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransportError wraps a network or HTTP-level failure talking to the
// remote service. Status is zero when the request never completed.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: remote status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the transport succeeded but the response violated the
// wire contract (missing body, missing order id, undecodable JSON).
type ProtocolError struct {
	Op     string
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol violation: %s", e.Op, e.Detail)
}

// BusinessRejection is an explicit non-affirmative outcome from the remote
// service on an otherwise successful exchange. Message carries the
// server-provided text when present.
type BusinessRejection struct {
	Op      string
	Message string
}

func (e *BusinessRejection) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request rejected"
	}
	return e.Op + ": " + msg
}
