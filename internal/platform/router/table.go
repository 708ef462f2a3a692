package router

import (
	"net/http"
	"strings"
)

// Route is a single registered verb and pattern bound to its handler.
type Route struct {
	Verb    string
	Pattern Pattern
	Handler Handler
	// Public routes are reachable without a principal when RequireAuth is
	// in effect.
	Public bool
}

// RouteOption adjusts a route at registration time.
type RouteOption func(*Route)

// AllowAnonymous marks a route as reachable without a principal.
func AllowAnonymous() RouteOption {
	return func(r *Route) { r.Public = true }
}

// Builder collects routes. It is not safe for concurrent use; build the
// table once at startup and share the resulting Table.
type Builder struct {
	routes     []Route
	middleware []Middleware
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Use appends middleware applied to every route when the table is built.
// The first middleware added is the outermost.
func (b *Builder) Use(mw ...Middleware) {
	b.middleware = append(b.middleware, mw...)
}

// Handle registers a route. An invalid template panics, as it is a
// programming error detected at startup.
func (b *Builder) Handle(verb, template string, h Handler, opts ...RouteOption) {
	r := Route{
		Verb:    strings.ToUpper(verb),
		Pattern: MustCompile(template),
		Handler: h,
	}
	for _, opt := range opts {
		opt(&r)
	}
	b.routes = append(b.routes, r)
}

func (b *Builder) GET(template string, h Handler, opts ...RouteOption) {
	b.Handle(http.MethodGet, template, h, opts...)
}

func (b *Builder) POST(template string, h Handler, opts ...RouteOption) {
	b.Handle(http.MethodPost, template, h, opts...)
}

func (b *Builder) PUT(template string, h Handler, opts ...RouteOption) {
	b.Handle(http.MethodPut, template, h, opts...)
}

func (b *Builder) DELETE(template string, h Handler, opts ...RouteOption) {
	b.Handle(http.MethodDelete, template, h, opts...)
}

// Build freezes the registered routes into a Table. Later registrations on
// the builder do not affect tables already built.
func (b *Builder) Build() *Table {
	routes := make([]Route, len(b.routes))
	copy(routes, b.routes)
	for i := range routes {
		h := routes[i].Handler
		for j := len(b.middleware) - 1; j >= 0; j-- {
			h = b.middleware[j](h)
		}
		routes[i].Handler = h
	}
	return &Table{routes: routes}
}

// Table is an immutable, ordered route list and is safe for concurrent
// use.
type Table struct {
	routes []Route
}

// Match returns the first route in registration order whose verb and
// pattern match.
func (t *Table) Match(verb, path string) (*Route, Params, bool) {
	for i := range t.routes {
		r := &t.routes[i]
		if r.Verb != verb {
			continue
		}
		if params, ok := r.Pattern.Match(path); ok {
			return r, params, true
		}
	}
	return nil, nil, false
}

// Routes returns a copy of the registered routes in order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}
