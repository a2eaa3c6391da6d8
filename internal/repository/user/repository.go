package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/bmjaya/printworks/internal/database"
	"github.com/bmjaya/printworks/internal/entity"
)

// ErrNotFound is returned when no admin account matches.
var ErrNotFound = errors.New("user not found")

// Repository provides read access to admin accounts.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a repository backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// GetByUsername fetches an admin account by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
