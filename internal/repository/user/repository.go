package user

import (
	"context"

	"tapsihan-storefront/internal/domain"
)

// ProfileUpdate carries optional profile fields; nil means "leave as is".
type ProfileUpdate struct {
	Username *string
	Contact  *string
	Address  *string
}

// Repository persists and fetches users.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error)
}
