package domain

import "time"

type ManagerRole string

const (
	RoleManager ManagerRole = "manager"
	RoleAdmin   ManagerRole = "admin"
)

type Manager struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Name         string      `json:"name"`
	Role         ManagerRole `json:"role"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
