package rooms

import (
	"context"

	"hotelstay/internal/domain"
)

type RoomStore interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	HasStays(ctx context.Context, roomID int64) (bool, error)
}

type ActiveStayFinder interface {
	ActiveForRoom(ctx context.Context, roomID int64) (*domain.Stay, error)
}
