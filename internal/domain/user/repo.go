package user

import (
	"context"

	"github.com/medcare/medcare/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, pg pagination.Params) ([]*User, error)
}
