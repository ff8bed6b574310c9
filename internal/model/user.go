package model

import "time"

// User represents a row in the `users` table. The password is never
// stored in plain text; only the bcrypt hash is persisted. Soft
// deletion is expressed through DeletedAt: repository reads filter
// rows where the column is non-null.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (lower-cased before storage).
//  Phone        – optional phone number.
//  Name         – optional display name.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
//  DeletedAt    – soft-delete timestamp (nil while the user is live).
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	Phone        *string    // users.phone (nullable)
	Name         *string    // users.name (nullable)
	PasswordHash string     // users.password_hash
	IsActive     bool       // users.is_active
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
	DeletedAt    *time.Time // users.deleted_at (nullable)
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation. The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
