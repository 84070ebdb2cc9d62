package stay

import (
	"context"

	"hotelstay/internal/domain"
	"hotelstay/internal/repository"
)

// UnitOfWork runs fn in one transaction.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(tx *repository.Tx) error) error
}

type StayReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Stay, error)
	GetByReceipt(ctx context.Context, receipt string) (*domain.Stay, error)
	List(ctx context.Context, f repository.StayFilter) ([]domain.Stay, int64, error)
}
