package users

import "time"

// User is an account holder. The password hash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	RoleID       int64     `json:"role_id"`
	RoleName     string    `json:"role_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PrimaryAdminID is exempt from deletion.
const PrimaryAdminID int64 = 1

// CreateParams carries the fields of a new user.
type CreateParams struct {
	Username  string
	Email     string
	Password  string
	Firstname string
	Lastname  string
	RoleID    int64
}

// UpdateParams carries the optional fields of a user update.
type UpdateParams struct {
	Username  *string
	Email     *string
	Password  *string
	Firstname *string
	Lastname  *string
	RoleID    *int64
}

// Profile is the authenticated caller's own view of their account.
type Profile struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
