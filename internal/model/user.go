package model

import "time"

// User represents an account record as stored in the `users` table.  The
// password hash is an encoded Argon2id string and never leaves the server;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique display name, at least three characters.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – encoded Argon2id hash (salt embedded).
//  Role         – owner, committee or admin.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}
