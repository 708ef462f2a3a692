package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcare/medcare/internal/platform/interchange"
)

const (
	allowOrigin  = "*"
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization"

	// DefaultMaxBodyBytes bounds request bodies unless WithMaxBodySize
	// says otherwise.
	DefaultMaxBodyBytes = 1 << 20
)

// Observer is notified once per dispatched request. Unmatched requests are
// reported with an empty pattern.
type Observer interface {
	ObserveDispatch(verb, pattern string, status int, elapsed time.Duration)
}

type Option func(*Dispatcher)

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithDecoder(dec interchange.Decoder) Option {
	return func(d *Dispatcher) { d.decoder = dec }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// WithMaxBodySize sets the largest request body the dispatcher reads.
// Larger bodies are answered with 413. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxBody = n
		}
	}
}

// Dispatcher serves requests against a Table.
type Dispatcher struct {
	table    *Table
	decoder  interchange.Decoder
	logger   zerolog.Logger
	observer Observer
	maxBody  int64
}

func NewDispatcher(table *Table, opts ...Option) *Dispatcher {
	d := &Dispatcher{table: table, logger: zerolog.Nop(), maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the request through preflight handling, route matching
// and the matched handler. It always returns a response with CORS headers
// set.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	start := time.Now()
	resp, pattern := d.dispatch(ctx, req)
	finalize(resp)
	if d.observer != nil && req.Method != http.MethodOptions {
		d.observer.ObserveDispatch(req.Method, pattern, resp.Status, time.Since(start))
	}
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, req *Request) (*Response, string) {
	if req.Method == http.MethodOptions {
		return &Response{Status: http.StatusOK}, ""
	}

	route, params, ok := d.table.Match(req.Method, req.Path)
	if !ok {
		return errorResponse(http.StatusNotFound, "Not Found"), ""
	}
	pattern := route.Pattern.String()
	req.Params = params
	req.Route = route

	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		body, err := d.decoder.Decode(req.Raw)
		if err != nil {
			return errorResponse(http.StatusBadRequest, err.Error()), pattern
		}
		req.Body = body
	}

	resp, err := d.invoke(ctx, route.Handler, req)
	if err != nil {
		var herr *Error
		if errors.As(err, &herr) {
			return errorResponse(herr.Status, herr.Message), pattern
		}
		d.logger.Error().
			Err(err).
			Str("request_id", req.RequestID).
			Str("method", req.Method).
			Str("route", pattern).
			Int("status", http.StatusInternalServerError).
			Msg("handler failed")
		return errorResponse(http.StatusInternalServerError, err.Error()), pattern
	}
	if resp == nil {
		resp = &Response{Status: http.StatusNoContent}
	}
	return resp, pattern
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			var stack [4096]byte
			n := runtime.Stack(stack[:], false)
			d.logger.Error().
				Str("request_id", req.RequestID).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(stack[:n])).
				Msg("panic recovered")
			resp, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return h(ctx, req)
}

func errorResponse(status int, msg string) *Response {
	return &Response{Status: status, Body: ErrorEnvelope(msg)}
}

func finalize(resp *Response) {
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	resp.Header.Set("Access-Control-Allow-Origin", allowOrigin)
	resp.Header.Set("Access-Control-Allow-Methods", allowMethods)
	resp.Header.Set("Access-Control-Allow-Headers", allowHeaders)
	if resp.Body != "" {
		resp.Header.Set("Content-Type", "application/json")
	}
}

// ServeHTTP adapts the dispatcher to net/http.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.serve(w, r, r.Header.Get(echo.HeaderXRequestID))
}

// ServeEcho adapts the dispatcher to echo. It is meant to be mounted as
// the catch-all route so that the dispatcher owns routing for the API.
func (d *Dispatcher) ServeEcho(c echo.Context) error {
	rid, _ := c.Get("request_id").(string)
	d.serve(c.Response(), c.Request(), rid)
	return nil
}

func (d *Dispatcher) serve(w http.ResponseWriter, r *http.Request, requestID string) {
	var raw []byte
	var err error
	if r.Body != nil {
		raw, err = io.ReadAll(http.MaxBytesReader(w, r.Body, d.maxBody))
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, BodyTooLarge(tooLarge.Limit))
		return
	}
	if err != nil {
		raw = nil
	}
	req := &Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		Header:    r.Header,
		Raw:       string(raw),
		RequestID: requestID,
	}
	write(w, d.Dispatch(r.Context(), req))
}

// WriteError writes an error envelope with the CORS headers every API
// response carries. It is for code that answers before the dispatcher runs.
func WriteError(w http.ResponseWriter, status int, msg string) {
	resp := errorResponse(status, msg)
	finalize(resp)
	write(w, resp)
}

// BodyTooLarge is the 413 message for a body over limit bytes.
func BodyTooLarge(limit int64) string {
	return "Request body exceeds maximum allowed size of " + strconv.FormatInt(limit, 10) + " bytes"
}

func write(w http.ResponseWriter, resp *Response) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	if resp.Body != "" {
		_, _ = io.WriteString(w, resp.Body)
	}
}
