package user

import (
	"context"

	"github.com/medcare/medcare/internal/platform/router"
	"github.com/medcare/medcare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(b *router.Builder) {
	b.POST("/api/auth/login", h.Login, router.AllowAnonymous())
	b.POST("/api/auth/register", h.Register, router.AllowAnonymous())
	b.GET("/api/auth/me", h.Me, router.AllowAnonymous())
	b.GET("/api/users", h.ListUsers)
	b.GET("/api/users/{id}", h.GetUser)
}

func (h *Handler) Login(ctx context.Context, req *router.Request) (*router.Response, error) {
	sess, err := h.svc.Login(ctx, req.Body.String("email"), req.Body.String("password"))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(sess), nil
}

func (h *Handler) Register(ctx context.Context, req *router.Request) (*router.Response, error) {
	sess, err := h.svc.Register(ctx, RegistrationFromBody(req.Body))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.Created(sess), nil
}

// Me returns the caller. It answers 401 itself so that it works whether or
// not authentication is enforced globally.
func (h *Handler) Me(ctx context.Context, req *router.Request) (*router.Response, error) {
	p, ok := router.PrincipalFromContext(ctx)
	if !ok {
		return nil, router.Unauthorized("Unauthorized")
	}
	u, err := h.svc.GetUser(ctx, p.ID)
	if err != nil {
		return nil, router.Unauthorized("Unauthorized")
	}
	return router.OK(u), nil
}

// User listings expose email addresses, so they need a caller even when
// authentication is not enforced globally.
func signedIn(ctx context.Context) error {
	if _, ok := router.PrincipalFromContext(ctx); !ok {
		return router.Unauthorized("Unauthorized")
	}
	return nil
}

func (h *Handler) ListUsers(ctx context.Context, req *router.Request) (*router.Response, error) {
	if err := signedIn(ctx); err != nil {
		return nil, err
	}
	items, err := h.svc.ListUsers(ctx, pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) GetUser(ctx context.Context, req *router.Request) (*router.Response, error) {
	if err := signedIn(ctx); err != nil {
		return nil, err
	}
	u, err := h.svc.GetUser(ctx, req.Params.Int64("id"))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(u), nil
}

// Resolver adapts the service to router.Authenticate.
type Resolver struct {
	svc *Service
}

func NewResolver(svc *Service) *Resolver {
	return &Resolver{svc: svc}
}

func (r *Resolver) Resolve(ctx context.Context, tok string) (router.Principal, bool) {
	u, ok := r.svc.Authenticate(ctx, tok)
	if !ok {
		return router.Principal{}, false
	}
	return router.Principal{ID: u.ID, Email: u.Email, Role: string(u.Role)}, true
}
