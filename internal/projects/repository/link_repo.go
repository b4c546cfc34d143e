package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/reqboard/reqboard-backend/internal/projects/domain"
)

// LinkRepository manages the Users_Projects join table. Column names are
// quoted to keep the CamelCase identifiers of the existing schema.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new link repository.
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// ProjectIDs returns the project ids linked to a user, empty when none.
func (r *LinkRepository) ProjectIDs(ctx context.Context, userID int) ([]string, error) {
	const q = `SELECT "ProjectID" FROM "Users_Projects" WHERE "UserID" = $1;`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query user projects: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Link inserts one (user, project) row. No uniqueness check here; the
// schema decides whether duplicates are allowed.
func (r *LinkRepository) Link(ctx context.Context, userID int, projectID string) error {
	const q = `INSERT INTO "Users_Projects" ("UserID", "ProjectID") VALUES ($1, $2);`

	if _, err := r.db.ExecContext(ctx, q, userID, projectID); err != nil {
		return fmt.Errorf("link user %d to project %s: %w", userID, projectID, err)
	}
	return nil
}

// Unlink deletes the (user, project) rows.
func (r *LinkRepository) Unlink(ctx context.Context, userID int, projectID string) error {
	const q = `DELETE FROM "Users_Projects" WHERE "UserID" = $1 AND "ProjectID" = $2;`

	if _, err := r.db.ExecContext(ctx, q, userID, projectID); err != nil {
		return fmt.Errorf("unlink user %d from project %s: %w", userID, projectID, err)
	}
	return nil
}

// TeamMembers returns profile fields for every user linked to the project.
func (r *LinkRepository) TeamMembers(ctx context.Context, projectID string) ([]domain.TeamMember, error) {
	const q = `
SELECT u."UserID", u.username, u.lastname, u.email, u.role
FROM "Users_Projects" up
INNER JOIN "Users" u ON up."UserID" = u."UserID"
WHERE up."ProjectID" = $1;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TeamMember, 0, 8)
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.Lastname, &m.Email, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
