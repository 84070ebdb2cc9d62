package auth

import (
	"context"

	"hotelstay/internal/domain"
)

// ManagerRepository holds only the methods the auth service uses.
type ManagerRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Manager, error)
	GetByID(ctx context.Context, id int64) (*domain.Manager, error)
}

type TokenIssuer interface {
	GenerateToken(managerID int64, role string) (string, error)
}
