package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/errs"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	m.Name = strings.TrimSpace(m.Name)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "room")
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "room")
	}
	return toDomainRoom(m), nil
}

// GetForUpdate locks the room row until the surrounding transaction ends.
// sqlite has no row locks; its single writer serialises instead.
func (r *RoomRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err, "room")
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) List(ctx context.Context, includeInactive bool) ([]domain.Room, error) {
	var rows []roomModel
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, "rooms")
	}

	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if room.UpdatedAt.IsZero() {
		room.UpdatedAt = time.Now()
	}
	res := r.db.WithContext(ctx).Model(&roomModel{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"name":       strings.TrimSpace(room.Name),
			"room_type":  string(room.RoomType),
			"climate":    string(room.Climate),
			"is_active":  room.IsActive,
			"updated_at": utc(room.UpdatedAt),
		})
	if res.Error != nil {
		return translate(res.Error, "room")
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("room")
	}
	return nil
}

// HasStays reports whether any stay, in any status, references the room.
func (r *RoomRepository) HasStays(ctx context.Context, roomID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&stayModel{}).
		Where("room_id = ?", roomID).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "stays")
	}
	return n > 0, nil
}
