package router

import (
	"context"
	"net/http"
	"testing"
)

type staticResolver map[string]Principal

func (r staticResolver) Resolve(_ context.Context, tok string) (Principal, bool) {
	p, ok := r[tok]
	return p, ok
}

func whoami(ctx context.Context, req *Request) (*Response, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return OK("anonymous"), nil
	}
	return OK(p.Email), nil
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		req := &Request{Header: http.Header{}}
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, ok := BearerToken(req)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, got, ok)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	resolver := staticResolver{"good": {ID: 1, Email: "admin@medcare.com", Role: "admin"}}
	b := NewBuilder()
	b.Use(Authenticate(resolver))
	b.GET("/api/auth/me", whoami)
	d := NewDispatcher(b.Build())

	tests := []struct {
		name   string
		header string
		body   string
	}{
		{"valid token", "Bearer good", `"admin@medcare.com"`},
		{"unknown token", "Bearer bad", `"anonymous"`},
		{"no header", "", `"anonymous"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			resp := d.Dispatch(context.Background(), &Request{Method: http.MethodGet, Path: "/api/auth/me", Header: h})
			if resp.Body != tt.body {
				t.Errorf("got %s, want %s", resp.Body, tt.body)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	resolver := staticResolver{"good": {ID: 1, Email: "a@b.c"}}
	b := NewBuilder()
	b.Use(Authenticate(resolver), RequireAuth())
	b.POST("/api/auth/login", whoami, AllowAnonymous())
	b.GET("/api/patients", whoami)
	d := NewDispatcher(b.Build())

	resp := d.Dispatch(context.Background(), &Request{Method: http.MethodGet, Path: "/api/patients", Header: http.Header{}})
	if resp.Status != http.StatusUnauthorized || resp.Body != `{"error":"Unauthorized"}` {
		t.Errorf("anonymous resource call: got %d %s", resp.Status, resp.Body)
	}

	resp = d.Dispatch(context.Background(), &Request{Method: http.MethodPost, Path: "/api/auth/login", Header: http.Header{}})
	if resp.Status != http.StatusOK {
		t.Errorf("anonymous login: got %d %s", resp.Status, resp.Body)
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer good")
	resp = d.Dispatch(context.Background(), &Request{Method: http.MethodGet, Path: "/api/patients", Header: h})
	if resp.Status != http.StatusOK {
		t.Errorf("authenticated call: got %d %s", resp.Status, resp.Body)
	}
}
