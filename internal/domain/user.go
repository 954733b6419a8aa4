package domain

import "context"

// Identity is the authenticated principal bound to a request or websocket
// connection. It is established once at connect time and trusted for the
// lifetime of the connection.
type Identity struct {
	UserID string
	Role   Role
}

// PublicProfile is the subset of a user record safe to show to other users.
// It decorates conversation summaries with counterpart display info.
type PublicProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

// UserDirectory resolves user IDs to public display data. A missing user is
// reported as (nil, nil); callers tolerate the absence.
type UserDirectory interface {
	LookupPublic(ctx context.Context, userID string) (*PublicProfile, error)
}
