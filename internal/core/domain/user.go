package domain

import "time"

// User represents a platform user in the domain.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// Principal returns the authorization principal for this user.
func (u *User) Principal() Principal {
	return Principal{UserID: u.UserID, Role: u.Role}
}
