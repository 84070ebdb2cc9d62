package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotelstay/internal/domain"
)

// ActivityRepository only appends and reads; entries are never updated.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type ActivityFilter struct {
	StayID    int64
	ManagerID int64
	Action    domain.ActivityAction
	Page      int
	PerPage   int
}

func (r *ActivityRepository) Append(ctx context.Context, e *domain.ActivityLogEntry) error {
	m := activityModel{
		Action:      string(e.Action),
		Description: e.Description,
		Details:     datatypes.JSON(e.Details),
		ManagerID:   e.ManagerID,
		StayID:      e.StayID,
		CreatedAt:   utc(e.CreatedAt),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "activity log entry")
	}
	*e = *toDomainActivity(m)
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, f ActivityFilter) ([]domain.ActivityLogEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&activityModel{})
	if f.StayID > 0 {
		q = q.Where("stay_id = ?", f.StayID)
	}
	if f.ManagerID > 0 {
		q = q.Where("manager_id = ?", f.ManagerID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", string(f.Action))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "activity log")
	}

	page, perPage := NormalizePage(f.Page, f.PerPage)
	var rows []activityModel
	err := q.Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "activity log")
	}

	out := make([]domain.ActivityLogEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainActivity(m))
	}
	return out, total, nil
}
