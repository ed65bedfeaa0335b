package project

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no project matches the lookup key.
var ErrNotFound = errors.New("project not found")

// Project is the persisted project record. Only the fields the access layer
// needs are modeled here; suites, runs and milestones live elsewhere.
type Project struct {
	ID          string
	Name        string
	Description string

	// IdentifierHash is the bcrypt hash of the project's access password.
	// Empty means the project has no password gate.
	IdentifierHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccessInfo is the slice of a project the access layer reads:
// identity plus the stored password hash.
type AccessInfo struct {
	ID             string
	Name           string
	IdentifierHash string
}

func (p Project) AccessInfo() AccessInfo {
	return AccessInfo{ID: p.ID, Name: p.Name, IdentifierHash: p.IdentifierHash}
}
