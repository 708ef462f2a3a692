// Package router maps verb and path to resource handlers. Routes are
// registered on a Builder at startup and frozen into an immutable Table;
// the Dispatcher answers preflight requests, applies CORS headers and turns
// handler failures into error envelopes.
package router

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/interchange"
)

// Request is what a handler sees of an inbound call.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Header    http.Header
	Params    Params
	Raw       string
	RequestID string
	// Body is the decoded request body. It is only populated for POST, PUT
	// and PATCH and is never nil for those verbs.
	Body interchange.Body
	// Route is the matched route. It is set by the dispatcher before the
	// handler chain runs.
	Route *Route
}

// Response is a status with an already encoded body.
type Response struct {
	Status int
	Body   string
	Header http.Header
}

// Handler serves one route. A returned *Error is rendered with its status;
// any other error becomes a 500 carrying the error's message.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a handler.
type Middleware func(Handler) Handler

// JSON encodes v with the interchange marshaller.
func JSON(status int, v any) *Response {
	return &Response{Status: status, Body: interchange.Marshal(v)}
}

func OK(v any) *Response { return JSON(http.StatusOK, v) }

func Created(v any) *Response { return JSON(http.StatusCreated, v) }

// Message returns a 200 {"message": msg} envelope.
func Message(msg string) *Response {
	return JSON(http.StatusOK, interchange.Object(interchange.M("message", interchange.String(msg))))
}

// ErrorEnvelope returns the {"error": msg} body.
func ErrorEnvelope(msg string) string {
	return interchange.Object(interchange.M("error", interchange.String(msg))).String()
}

// Error is a handler failure with a specific status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

func NotFound(msg string) *Error { return NewError(http.StatusNotFound, msg) }

func BadRequest(msg string) *Error { return NewError(http.StatusBadRequest, msg) }

func Unauthorized(msg string) *Error { return NewError(http.StatusUnauthorized, msg) }

// FromError maps service errors onto response errors: not-found kinds
// become 404, validation kinds and body field errors 400, unauthorized 401.
// Other errors are returned unchanged and surface as 500.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch {
		case errors.Is(ae, apperr.ErrNotFound):
			return NotFound(ae.Message)
		case errors.Is(ae, apperr.ErrValidation):
			return BadRequest(ae.Message)
		case errors.Is(ae, apperr.ErrUnauthorized):
			return Unauthorized(ae.Message)
		}
	}
	var fe *interchange.FieldError
	if errors.As(err, &fe) {
		return BadRequest(fe.Error())
	}
	return err
}
