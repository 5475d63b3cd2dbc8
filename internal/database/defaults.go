package database

import (
	"context"
	"database/sql"

	"github.com/jask/manttest/internal/database/repository"
)

// SeedDefaults fills an empty users table with the users build returns.
// build is only called when the table is empty, so it is safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, build func() ([]repository.User, error)) error {
	repo := repository.NewUserRepo(db)
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	users, err := build()
	if err != nil {
		return err
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, u := range users {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO users(id, username, password_hash, created_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(username) DO NOTHING;
			`, u.ID, u.Username, u.PasswordHash); err != nil {
				return err
			}
		}
		return nil
	})
}
