package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/zipnivasa/realtime/internal/domain"
)

// SurrealUserDirectory reads public display data from the "user" table. The
// chat service only ever needs the public subset, so that is all this type
// exposes.
type SurrealUserDirectory struct {
	db *surrealdb.DB
}

// NewSurrealUserDirectory creates a user directory backed by SurrealDB.
func NewSurrealUserDirectory(db *surrealdb.DB) *SurrealUserDirectory {
	return &SurrealUserDirectory{db: db}
}

var _ domain.UserDirectory = (*SurrealUserDirectory)(nil)

type userRecord struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
}

// LookupPublic returns the public profile for a user, or nil when the user
// does not exist. Absence is not an error; summaries simply go undecorated.
func (d *SurrealUserDirectory) LookupPublic(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	query := `SELECT userId, name, phone, role FROM user WHERE userId = $id`
	rec, err := QueryOne[userRecord](ctx, d.db, query, map[string]any{"id": userID})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	role, err := domain.ParseRole(rec.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return &domain.PublicProfile{
		ID:    rec.UserID,
		Name:  rec.Name,
		Phone: rec.Phone,
		Role:  role,
	}, nil
}
