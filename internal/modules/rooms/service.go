// Package rooms is the room registry administration used by admins.
package rooms

import (
	"context"
	"log/slog"
	"strings"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/errs"
)

type Service struct {
	rooms RoomStore
	stays ActiveStayFinder
	clock clock.Clock
}

func NewService(rooms RoomStore, stays ActiveStayFinder, clk clock.Clock) *Service {
	return &Service{rooms: rooms, stays: stays, clock: clk}
}

func (s *Service) Create(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("name", "is required")
	}
	rt, err := parseRoomType(req.RoomType)
	if err != nil {
		return nil, err
	}
	climate, err := parseClimate(req.Climate)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	room := &domain.Room{
		Name:      name,
		RoomType:  rt,
		Climate:   climate,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "room created", "room_id", room.ID, "name", room.Name)
	return room, nil
}

// Update renames or reclassifies a room. Type and climate are frozen once
// any stay references the room, since receipts and history point at them.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reclassified := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.Validation("name", "must not be empty")
		}
		room.Name = name
	}
	if req.RoomType != nil {
		rt, err := parseRoomType(*req.RoomType)
		if err != nil {
			return nil, err
		}
		reclassified = reclassified || rt != room.RoomType
		room.RoomType = rt
	}
	if req.Climate != nil {
		c, err := parseClimate(*req.Climate)
		if err != nil {
			return nil, err
		}
		reclassified = reclassified || c != room.Climate
		room.Climate = c
	}

	if reclassified {
		used, err := s.rooms.HasStays(ctx, id)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, errs.Conflict("room type and climate cannot change once stays exist")
		}
	}

	if req.IsActive != nil && !*req.IsActive && room.IsActive {
		if err := s.ensureVacant(ctx, id); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	room.UpdatedAt = s.clock.Now()
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Deactivate hides the room from the board. Rooms are never deleted.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !room.IsActive {
		return nil
	}
	if err := s.ensureVacant(ctx, id); err != nil {
		return err
	}

	room.IsActive = false
	room.UpdatedAt = s.clock.Now()
	if err := s.rooms.Update(ctx, room); err != nil {
		return err
	}
	slog.InfoContext(ctx, "room deactivated", "room_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]domain.Room, error) {
	return s.rooms.List(ctx, includeInactive)
}

func (s *Service) ensureVacant(ctx context.Context, id int64) error {
	active, err := s.stays.ActiveForRoom(ctx, id)
	if err != nil {
		return err
	}
	if active != nil {
		return errs.Conflict("room has an active stay")
	}
	return nil
}

func parseRoomType(v string) (domain.RoomType, error) {
	rt := domain.RoomType(strings.ToUpper(strings.TrimSpace(v)))
	if !rt.IsValid() {
		return "", errs.Validationf("room_type", "unknown room type %q", v)
	}
	return rt, nil
}

func parseClimate(v string) (domain.ClimateVariant, error) {
	c := domain.ClimateVariant(strings.ToUpper(strings.TrimSpace(v)))
	if !c.IsValid() {
		return "", errs.Validationf("climate", "unknown climate variant %q", v)
	}
	return c, nil
}
