package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repo reads user profile fields from the relational Users table.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// DisplayName resolves the username and lastname recorded in modification
// history entries. An unknown user id resolves to empty names, not an
// error, matching how history entries are filled.
func (r *Repo) DisplayName(ctx context.Context, userID int) (string, string, error) {
	const q = `SELECT username, lastname FROM "Users" WHERE "UserID" = $1;`

	var username, lastname sql.NullString
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&username, &lastname)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("query user %d: %w", userID, err)
	}
	return username.String, lastname.String, nil
}
