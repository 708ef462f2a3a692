package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/token"
	"github.com/medcare/medcare/pkg/pagination"
)

var (
	ErrNotFound           = apperr.NotFound("User not found")
	ErrDuplicateEmail     = apperr.Invalid("User with email already exists")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
)

type Service struct {
	repo     Repository
	tokens   token.Codec
	hashCost int
}

func NewService(repo Repository, tokens token.Codec) *Service {
	return &Service{repo: repo, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

// Register creates an account and opens a session for it.
func (s *Service) Register(ctx context.Context, reg Registration) (*Session, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return nil, apperr.Invalid("Name, email and password are required")
	}
	role, ok := ParseRole(reg.Role)
	if !ok {
		return nil, apperr.Invalidf("Invalid role %q", reg.Role)
	}

	if _, err := s.repo.GetByEmail(ctx, reg.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{Name: reg.Name, Email: reg.Email, PasswordHash: string(hash), Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.open(u)
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Invalid("Email and password are required")
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.open(u)
}

func (s *Service) open(u *User) (*Session, error) {
	tok, err := s.tokens.Mint(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	return &Session{User: u, Token: tok}, nil
}

// Authenticate resolves a session token to its user. Any failure, including
// a malformed token or an unknown subject, reports false.
func (s *Service) Authenticate(ctx context.Context, tok string) (*User, bool) {
	claims, err := s.tokens.Decode(tok)
	if err != nil {
		return nil, false
	}
	u, err := s.repo.GetByID(ctx, claims.SubjectID)
	if err != nil {
		return nil, false
	}
	return u, true
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, pg pagination.Params) ([]*User, error) {
	return s.repo.List(ctx, pg)
}
