package project

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"testea/pkg/utils"
)

// Repo reads and writes project records over database/sql.
// Name lookups are exact and case-sensitive: the projects.name column
// carries a case-sensitive unique constraint.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) AccessInfoByName(ctx context.Context, name string) (AccessInfo, error) {
	const q = `
SELECT id, name, COALESCE(identifier_hash, '')
FROM projects
WHERE name = $1
`
	var info AccessInfo
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&info.ID, &info.Name, &info.IdentifierHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AccessInfo{}, ErrNotFound
		}
		return AccessInfo{}, err
	}
	return info, nil
}

func (r *Repo) AccessInfoByID(ctx context.Context, id string) (AccessInfo, error) {
	const q = `
SELECT id, name, COALESCE(identifier_hash, '')
FROM projects
WHERE id = $1
`
	var info AccessInfo
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&info.ID, &info.Name, &info.IdentifierHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AccessInfo{}, ErrNotFound
		}
		return AccessInfo{}, err
	}
	return info, nil
}

// Create inserts a new project. The caller provides the already-hashed
// access password; plaintext never reaches this layer.
func (r *Repo) Create(ctx context.Context, p Project) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
INSERT INTO projects (id, name, description, identifier_hash, created_at, updated_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $5)
`
		now := time.Now().UTC()
		_, err := tx.ExecContext(ctx, q, p.ID, p.Name, p.Description, p.IdentifierHash, now)
		return err
	})
}
