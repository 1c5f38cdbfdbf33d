package models

import "time"

// User mirrors the users table.
type User struct {
	UserID       string     `db:"user_id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Role         string     `db:"role"`
	PasswordHash string     `db:"password_hash"`
	DeletedAt    *time.Time `db:"deleted_at"`
	AuditFields
}
