package availability

import (
	"context"
	"time"

	"hotelstay/internal/domain"
)

type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Room, error)
}

type StayReader interface {
	ActiveForRoom(ctx context.Context, roomID int64) (*domain.Stay, error)
	ActiveByRoom(ctx context.Context) (map[int64]*domain.Stay, error)
	RevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// Sweeper expires overdue stays before the board is read.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}
