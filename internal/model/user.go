package model

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleStaff UserRole = "STAFF"
)

type User struct {
	Base
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	FirstName    string   `db:"first_name" json:"first_name"`
	LastName     string   `db:"last_name" json:"last_name"`
	Role         UserRole `db:"role" json:"role"`
	Active       bool     `db:"is_active" json:"active"`
}

type CreateUserRequest struct {
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	FirstName string   `json:"first_name" binding:"required,max=100"`
	LastName  string   `json:"last_name" binding:"required,max=100"`
	Role      UserRole `json:"role" binding:"required,oneof=ADMIN STAFF"`
}

type UpdateUserRequest struct {
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Role      *UserRole `json:"role" binding:"omitempty,oneof=ADMIN STAFF"`
	Active    *bool     `json:"active"`
}

type ChangeCredentialsRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
