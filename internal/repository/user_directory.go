package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/guitar-lab/internal/auth"
)

// Directory adapts UserRepo to the auth.UserDirectory contract. Every
// credential failure collapses into auth.ErrUnauthorized so the token
// service cannot leak whether an email exists.
type Directory struct{ Users *UserRepo }

func NewDirectory(u *UserRepo) *Directory { return &Directory{Users: u} }

func (d *Directory) VerifyCredentials(ctx context.Context, email, password string) (auth.Identity, error) {
	u, err := d.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Identity{}, auth.ErrUnauthorized
		}
		return auth.Identity{}, err
	}
	if !u.IsActive || !auth.VerifyPassword(u.PasswordHash, password) {
		return auth.Identity{}, auth.ErrUnauthorized
	}
	return auth.Identity{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}

func (d *Directory) GetByID(ctx context.Context, id uint64) (auth.Identity, error) {
	u, err := d.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The owner of a stored token vanished; to the caller the
			// token is simply invalid.
			return auth.Identity{}, auth.ErrInvalidToken
		}
		return auth.Identity{}, err
	}
	return auth.Identity{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}
