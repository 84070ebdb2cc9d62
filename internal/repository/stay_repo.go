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

type StayRepository struct {
	db *gorm.DB
}

func NewStayRepository(db *gorm.DB) *StayRepository {
	return &StayRepository{db: db}
}

type StayFilter struct {
	Status  domain.StayStatus
	Mode    domain.StayMode
	RoomID  int64
	From    *time.Time
	To      *time.Time
	Page    int
	PerPage int
}

func (r *StayRepository) Create(ctx context.Context, s *domain.Stay) error {
	m := toStayModel(s)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "receipt") {
				return errs.Conflict("receipt number already issued")
			}
			return errs.Conflict("room already has an active stay")
		}
		return translate(err, "stay")
	}
	room := s.Room
	*s = *toDomainStay(m)
	s.Room = room
	return nil
}

func (r *StayRepository) GetByID(ctx context.Context, id int64) (*domain.Stay, error) {
	var m stayModel
	if err := r.db.WithContext(ctx).Preload("Room").First(&m, id).Error; err != nil {
		return nil, translate(err, "stay")
	}
	return toDomainStay(m), nil
}

func (r *StayRepository) GetByReceipt(ctx context.Context, receipt string) (*domain.Stay, error) {
	var m stayModel
	err := r.db.WithContext(ctx).Preload("Room").
		Where("receipt_number = ?", strings.TrimSpace(receipt)).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "stay")
	}
	return toDomainStay(m), nil
}

// GetForUpdate locks the stay row until the surrounding transaction ends.
func (r *StayRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Stay, error) {
	var m stayModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err, "stay")
	}
	return toDomainStay(m), nil
}

// ActiveForRoom returns the room's ACTIVE stay, or nil when there is none.
func (r *StayRepository) ActiveForRoom(ctx context.Context, roomID int64) (*domain.Stay, error) {
	var rows []stayModel
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, string(domain.StayActive)).
		Order("scheduled_check_out DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "stay")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toDomainStay(rows[0]), nil
}

// ActiveByRoom maps room id to its ACTIVE stay.
func (r *StayRepository) ActiveByRoom(ctx context.Context) (map[int64]*domain.Stay, error) {
	var rows []stayModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StayActive)).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "stays")
	}

	out := make(map[int64]*domain.Stay, len(rows))
	for _, m := range rows {
		s := toDomainStay(m)
		if prev, ok := out[s.RoomID]; ok && prev.ScheduledCheckOut.After(s.ScheduledCheckOut) {
			continue
		}
		out[s.RoomID] = s
	}
	return out, nil
}

func (r *StayRepository) ReceiptExists(ctx context.Context, receipt string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&stayModel{}).
		Where("receipt_number = ?", receipt).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "stay")
	}
	return n > 0, nil
}

// MarkExpired moves an ACTIVE stay to EXPIRED. It is a no-op for settled stays.
func (r *StayRepository) MarkExpired(ctx context.Context, id int64, now time.Time) error {
	err := r.db.WithContext(ctx).Model(&stayModel{}).
		Where("id = ? AND status = ?", id, string(domain.StayActive)).
		Updates(map[string]any{
			"status":     string(domain.StayExpired),
			"is_expired": true,
			"updated_at": utc(now),
		}).Error
	return translate(err, "stay")
}

// Settle writes the settlement of s only while it is still ACTIVE.
func (r *StayRepository) Settle(ctx context.Context, s *domain.Stay) error {
	res := r.db.WithContext(ctx).Model(&stayModel{}).
		Where("id = ? AND status = ?", s.ID, string(domain.StayActive)).
		Updates(map[string]any{
			"status":           string(s.Status),
			"actual_check_out": utcPtr(s.ActualCheckOut),
			"total_amount":     s.TotalAmount,
			"overtime_minutes": s.OvertimeMinutes,
			"overtime_charge":  s.OvertimeCharge,
			"payment_received": true,
			"notes":            s.Notes,
			"updated_at":       utc(s.UpdatedAt),
		})
	if res.Error != nil {
		return translate(res.Error, "stay")
	}
	if res.RowsAffected == 0 {
		return errs.Conflict("stay already settled")
	}
	return nil
}

// ExpireOverdue marks every ACTIVE stay whose scheduled checkout is before
// cutoff as EXPIRED and returns them.
func (r *StayRepository) ExpireOverdue(ctx context.Context, cutoff, now time.Time) ([]domain.Stay, error) {
	var rows []stayModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_check_out < ?", string(domain.StayActive), utc(cutoff)).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "stays")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	err = r.db.WithContext(ctx).Model(&stayModel{}).
		Where("id IN ? AND status = ?", ids, string(domain.StayActive)).
		Updates(map[string]any{
			"status":     string(domain.StayExpired),
			"is_expired": true,
			"updated_at": utc(now),
		}).Error
	if err != nil {
		return nil, translate(err, "stays")
	}

	out := make([]domain.Stay, 0, len(rows))
	for _, m := range rows {
		s := toDomainStay(m)
		s.Status = domain.StayExpired
		s.IsExpired = true
		out = append(out, *s)
	}
	return out, nil
}

func (r *StayRepository) List(ctx context.Context, f StayFilter) ([]domain.Stay, int64, error) {
	q := r.db.WithContext(ctx).Model(&stayModel{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Mode != "" {
		q = q.Where("mode = ?", string(f.Mode))
	}
	if f.RoomID > 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.From != nil {
		q = q.Where("scheduled_check_in >= ?", utc(*f.From))
	}
	if f.To != nil {
		q = q.Where("scheduled_check_in < ?", utc(*f.To))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "stays")
	}

	page, perPage := NormalizePage(f.Page, f.PerPage)
	var rows []stayModel
	err := q.Preload("Room").
		Order("scheduled_check_in DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "stays")
	}

	out := make([]domain.Stay, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainStay(m))
	}
	return out, total, nil
}

// RevenueBetween sums the amounts of stays booked in [from, to).
func (r *StayRepository) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&stayModel{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("created_at >= ? AND created_at < ?", utc(from), utc(to)).
		Scan(&sum).Error
	if err != nil {
		return 0, translate(err, "stays")
	}
	return sum, nil
}

func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
