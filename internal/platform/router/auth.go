package router

import (
	"context"
	"strings"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	ID    int64
	Email string
	Role  string
}

// Resolver turns a bearer token into a principal. It reports false for
// any token that does not resolve; it never fails the request itself.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Principal, bool)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(req *Request) (string, bool) {
	h := req.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// Authenticate resolves the bearer token, if any, and stores the principal
// in the handler context. Requests without a resolvable token pass through
// anonymously.
func Authenticate(resolver Resolver) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if tok, ok := BearerToken(req); ok {
				if p, ok := resolver.Resolve(ctx, tok); ok {
					ctx = WithPrincipal(ctx, p)
				}
			}
			return next(ctx, req)
		}
	}
}

// RequireAuth rejects anonymous calls with 401 unless the matched route
// allows anonymous access. It must run inside Authenticate.
func RequireAuth() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.Route != nil && req.Route.Public {
				return next(ctx, req)
			}
			if _, ok := PrincipalFromContext(ctx); !ok {
				return nil, Unauthorized("Unauthorized")
			}
			return next(ctx, req)
		}
	}
}
