package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password hash never leaves the server; it is excluded from
// JSON serialization. Role is either ADMIN or USER and drives the
// RequireRole middleware on destructive endpoints.
type User struct {
	ID           string     `json:"id"`         // users.id (uuid)
	Email        string     `json:"email"`      // users.email
	Username     string     `json:"username"`   // users.username
	PasswordHash string     `json:"-"`          // users.password_hash
	Role         string     `json:"role"`       // users.role (ADMIN | USER)
	IsActive     bool       `json:"is_active"`  // users.is_active
	CreatedAt    time.Time  `json:"created_at"` // users.created_at
	UpdatedAt    *time.Time `json:"updated_at"` // users.updated_at (nullable)
	CreatedBy    *string    `json:"created_by"` // users.created_by (nullable)
	UpdatedBy    *string    `json:"updated_by"` // users.updated_by (nullable)
}

// RefreshToken models an entry in the `refresh_tokens` table. The plain
// token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
