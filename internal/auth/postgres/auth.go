package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

const credentialsQuery = `SELECT id, role, password_hash, is_active FROM users WHERE `

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	return r.scan(r.db.WithContext(ctx).Raw(credentialsQuery+"email = ?", email).Row())
}

func (r *Repository) GetCredentialsByID(ctx context.Context, id int64) (*auth.Credentials, error) {
	return r.scan(r.db.WithContext(ctx).Raw(credentialsQuery+"id = ?", id).Row())
}

func (r *Repository) scan(row *sql.Row) (*auth.Credentials, error) {
	var c auth.Credentials
	var role string
	if err := row.Scan(&c.UserID, &role, &c.PasswordHash, &c.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	c.Role = internal.Role(role)
	return &c, nil
}
