package auth

import "hotelstay/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ManagerPublic struct {
	ID    int64              `json:"id"`
	Email string             `json:"email"`
	Name  string             `json:"name"`
	Role  domain.ManagerRole `json:"role"`
}

type LoginResponse struct {
	Manager ManagerPublic `json:"manager"`
	Token   string        `json:"token"`
}

func toPublic(m *domain.Manager) ManagerPublic {
	return ManagerPublic{ID: m.ID, Email: m.Email, Name: m.Name, Role: m.Role}
}
