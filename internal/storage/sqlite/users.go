package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/robalobadob/codenames/internal/storage"
)

// CreateUser inserts an account. A taken username (case-insensitive)
// returns storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, u storage.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, now())
	return classify("create user", err)
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (storage.User, error) {
	return s.findUser(ctx, `WHERE lower(username) = ?`, strings.ToLower(username))
}

func (s *Store) FindUserByID(ctx context.Context, id string) (storage.User, error) {
	return s.findUser(ctx, `WHERE id = ?`, id)
}

func (s *Store) findUser(ctx context.Context, where string, arg string) (storage.User, error) {
	var u storage.User
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users `+where, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if err != nil {
		return storage.User{}, classify(fmt.Sprintf("user %s", arg), err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}
