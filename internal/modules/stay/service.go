package stay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"hotelstay/internal/domain"
	"hotelstay/internal/events"
	"hotelstay/internal/modules/availability"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/errs"
	"hotelstay/internal/repository"
)

// maxReceiptProbes bounds the search for a free receipt number.
const maxReceiptProbes = 50

type Service struct {
	uow     UnitOfWork
	stays   StayReader
	factory *Factory
	clock   clock.Clock
	margin  time.Duration
	events  events.Publisher
}

func NewService(
	uow UnitOfWork,
	stays StayReader,
	factory *Factory,
	clk clock.Clock,
	margin time.Duration,
	publisher events.Publisher,
) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		uow:     uow,
		stays:   stays,
		factory: factory,
		clock:   clk,
		margin:  margin,
		events:  publisher,
	}
}

func (s *Service) CreateHourly(ctx context.Context, managerID int64, in HourlyInput) (*domain.Stay, error) {
	if err := in.Validate(s.factory.Rules()); err != nil {
		return nil, err
	}
	return s.create(ctx, managerID, in.RoomID, func(room *domain.Room, now time.Time) (*domain.Stay, error) {
		return s.factory.Hourly(room, in, now)
	})
}

func (s *Service) CreateNightly(ctx context.Context, managerID int64, in NightlyInput) (*domain.Stay, error) {
	if err := in.Validate(s.factory.Rules()); err != nil {
		return nil, err
	}
	return s.create(ctx, managerID, in.RoomID, func(room *domain.Room, now time.Time) (*domain.Stay, error) {
		return s.factory.Nightly(room, in, now)
	})
}

func (s *Service) CreateExtended(ctx context.Context, managerID int64, in ExtendedInput) (*domain.Stay, error) {
	if err := in.Validate(s.factory.Rules()); err != nil {
		return nil, err
	}
	return s.create(ctx, managerID, in.RoomID, func(room *domain.Room, now time.Time) (*domain.Stay, error) {
		return s.factory.Extended(room, in, now)
	})
}

type buildFunc func(room *domain.Room, now time.Time) (*domain.Stay, error)

// create locks the room, rejects it unless its derived status is AVAILABLE,
// and inserts the stay with its CREATE entry in the same transaction.
func (s *Service) create(ctx context.Context, managerID, roomID int64, build buildFunc) (*domain.Stay, error) {
	now := s.clock.Now()

	var created *domain.Stay
	err := s.uow.Within(ctx, func(tx *repository.Tx) error {
		room, err := tx.Rooms.GetForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		if !room.IsActive {
			return errs.Validation("room_id", "room is not active")
		}

		if err := s.releaseRoom(ctx, tx, roomID, now); err != nil {
			return err
		}

		stay, err := build(room, now)
		if err != nil {
			return err
		}
		stay.ManagerID = managerID

		receipt, err := uniqueReceipt(ctx, tx, stay.Mode, now, room.Name)
		if err != nil {
			return err
		}
		stay.ReceiptNumber = receipt

		if err := tx.Stays.Create(ctx, stay); err != nil {
			return err
		}

		entry, err := newActivityEntry(domain.ActionCreate, managerID, stay.ID, now,
			fmt.Sprintf("%s stay %s opened in room %s", modeLabel(stay.Mode), stay.ReceiptNumber, room.Name),
			map[string]any{
				"receipt_number":      stay.ReceiptNumber,
				"mode":                stay.Mode,
				"climate":             stay.Climate,
				"room_id":             room.ID,
				"room_name":           room.Name,
				"scheduled_check_in":  stay.ScheduledCheckIn,
				"scheduled_check_out": stay.ScheduledCheckOut,
				"duration":            stay.Duration,
				"rate_applied":        stay.RateApplied,
				"total_amount":        stay.TotalAmount,
			})
		if err != nil {
			return err
		}
		if err := tx.Activity.Append(ctx, entry); err != nil {
			return err
		}

		created = stay
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "stay created",
		"stay_id", created.ID,
		"room_id", created.RoomID,
		"mode", created.Mode,
		"receipt", created.ReceiptNumber,
		"manager_id", managerID,
	)
	s.publish(ctx, events.StayCreated, created, now)
	return created, nil
}

// releaseRoom fails with Conflict while the room's ACTIVE stay is still
// occupying or cleaning it. A stale ACTIVE stay the sweep has not reached
// yet is expired on the spot.
func (s *Service) releaseRoom(ctx context.Context, tx *repository.Tx, roomID int64, now time.Time) error {
	active, err := tx.Stays.ActiveForRoom(ctx, roomID)
	if err != nil || active == nil {
		return err
	}

	res := availability.Calculate(active, now, s.margin)
	switch res.Status {
	case availability.StatusOccupied:
		return errs.Conflict("room is occupied")
	case availability.StatusCleaning:
		return errs.Conflict(fmt.Sprintf("room is being cleaned, available in %d minutes", res.MinutesRemaining))
	}

	if err := tx.Stays.MarkExpired(ctx, active.ID, now); err != nil {
		return err
	}
	slog.InfoContext(ctx, "stale stay expired before rebooking", "stay_id", active.ID, "room_id", roomID)
	return nil
}

func uniqueReceipt(ctx context.Context, tx *repository.Tx, mode domain.StayMode, now time.Time, roomName string) (string, error) {
	for i := 0; i < maxReceiptProbes; i++ {
		candidate := ReceiptNumber(mode, now.Add(time.Duration(i)*time.Millisecond), roomName)
		taken, err := tx.Stays.ReceiptExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errs.Conflict("could not allocate a receipt number")
}

// Checkout settles an ACTIVE stay. A second checkout of the same stay is a Conflict.
func (s *Service) Checkout(ctx context.Context, managerID int64, in CheckoutInput) (*domain.Stay, error) {
	if in.StayID <= 0 {
		return nil, errs.Validation("stay_id", "is required")
	}
	if in.AdditionalCharges < 0 {
		return nil, errs.Validation("additional_charges", "must not be negative")
	}

	now := s.clock.Now()
	actual := now
	if in.ActualCheckOut != nil {
		actual = *in.ActualCheckOut
	}

	var settled *domain.Stay
	err := s.uow.Within(ctx, func(tx *repository.Tx) error {
		current, err := tx.Stays.GetForUpdate(ctx, in.StayID)
		if err != nil {
			return err
		}

		res, err := Settle(*current, actual, in.AdditionalCharges, in.Notes, now)
		if err != nil {
			return err
		}
		if err := tx.Stays.Settle(ctx, res.Stay); err != nil {
			return err
		}

		entry, err := newActivityEntry(domain.ActionCheckOut, managerID, current.ID, now,
			fmt.Sprintf("Stay %s checked out", current.ReceiptNumber),
			map[string]any{
				"receipt_number":     current.ReceiptNumber,
				"amount_before":      res.AmountBefore,
				"amount_after":       res.Stay.TotalAmount,
				"overtime_minutes":   res.OvertimeMinutes,
				"overtime_charge":    res.OvertimeCharge,
				"additional_charges": res.AdditionalCharges,
				"actual_check_out":   actual,
			})
		if err != nil {
			return err
		}
		if err := tx.Activity.Append(ctx, entry); err != nil {
			return err
		}

		room, err := tx.Rooms.GetByID(ctx, current.RoomID)
		if err != nil {
			return err
		}
		res.Stay.Room = room
		settled = res.Stay
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "stay checked out",
		"stay_id", settled.ID,
		"total_amount", settled.TotalAmount,
		"manager_id", managerID,
	)
	s.publish(ctx, events.StayCheckedOut, settled, now)
	return settled, nil
}

// SweepExpired marks ACTIVE stays past checkout plus the cleaning margin as
// EXPIRED and returns how many were changed.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()

	var expired []domain.Stay
	err := s.uow.Within(ctx, func(tx *repository.Tx) error {
		var err error
		expired, err = tx.Stays.ExpireOverdue(ctx, now.Add(-s.margin), now)
		return err
	})
	if err != nil {
		return 0, err
	}

	if len(expired) > 0 {
		slog.InfoContext(ctx, "expired overdue stays", "count", len(expired))
	}
	for i := range expired {
		s.publish(ctx, events.StayExpired, &expired[i], now)
	}
	return len(expired), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Stay, error) {
	return s.stays.GetByID(ctx, id)
}

func (s *Service) GetByReceipt(ctx context.Context, receipt string) (*domain.Stay, error) {
	if receipt == "" {
		return nil, errs.Validation("receipt", "is required")
	}
	return s.stays.GetByReceipt(ctx, receipt)
}

func (s *Service) List(ctx context.Context, f repository.StayFilter) ([]domain.Stay, int64, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, 0, errs.Validationf("status", "unknown status %q", f.Status)
	}
	if f.Mode != "" && !f.Mode.IsValid() {
		return nil, 0, errs.Validationf("mode", "unknown mode %q", f.Mode)
	}
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, 0, errs.Validation("to", "must be after from")
	}
	return s.stays.List(ctx, f)
}

func (s *Service) publish(ctx context.Context, t events.Type, st *domain.Stay, at time.Time) {
	if err := s.events.Publish(ctx, events.NewStayEvent(t, st, at)); err != nil {
		slog.WarnContext(ctx, "publish stay event failed", "type", t, "stay_id", st.ID, "error", err)
	}
}

func newActivityEntry(action domain.ActivityAction, managerID, stayID int64, at time.Time, description string, details map[string]any) (*domain.ActivityLogEntry, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, errs.Wrap(err, "marshal activity details")
	}
	return &domain.ActivityLogEntry{
		Action:      action,
		Description: description,
		Details:     raw,
		ManagerID:   managerID,
		StayID:      stayID,
		CreatedAt:   at,
	}, nil
}

func modeLabel(m domain.StayMode) string {
	switch m {
	case domain.StayHourly:
		return "Hourly"
	case domain.StayNightly:
		return "Nightly"
	case domain.StayExtended:
		return "Extended"
	}
	return string(m)
}
