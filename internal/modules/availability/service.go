package availability

import (
	"context"
	"log/slog"
	"time"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/errs"
)

type Service struct {
	rooms   RoomReader
	stays   StayReader
	sweeper Sweeper
	clock   clock.Clock
	margin  time.Duration
	loc     *time.Location
}

func NewService(rooms RoomReader, stays StayReader, sweeper Sweeper, clk clock.Clock, margin time.Duration, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		rooms:   rooms,
		stays:   stays,
		sweeper: sweeper,
		clock:   clk,
		margin:  margin,
		loc:     loc,
	}
}

// ForRoom is read-only; it never expires stays.
func (s *Service) ForRoom(ctx context.Context, roomID int64) (*RoomAvailability, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	active, err := s.stays.ActiveForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	ra := s.describe(*room, active, s.clock.Now())
	return &ra, nil
}

// Board derives the status of every active room at the same instant.
func (s *Service) Board(ctx context.Context) ([]RoomAvailability, error) {
	rooms, err := s.rooms.List(ctx, false)
	if err != nil {
		return nil, err
	}
	active, err := s.stays.ActiveByRoom(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, s.describe(room, active[room.ID], now))
	}
	return out, nil
}

func (s *Service) Summary(ctx context.Context, board []RoomAvailability) (Summary, error) {
	sum := Summary{TotalRooms: len(board)}
	for _, ra := range board {
		switch ra.Status {
		case StatusAvailable:
			sum.Available++
		case StatusOccupied:
			sum.Occupied++
		case StatusCleaning:
			sum.Cleaning++
		}
	}

	now := s.clock.Now().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	revenue, err := s.stays.RevenueBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return Summary{}, err
	}
	sum.RevenueToday = revenue
	return sum, nil
}

// Dashboard sweeps overdue stays first so the board does not show them.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var expired int
	if s.sweeper != nil {
		n, err := s.sweeper.SweepExpired(ctx)
		if err != nil {
			return nil, errs.Wrap(err, "sweep expired stays")
		}
		expired = n
	}

	board, err := s.Board(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.Summary(ctx, board)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "dashboard built", "rooms", len(board), "expired", expired)
	return &Dashboard{
		Rooms:        board,
		Summary:      summary,
		ExpiredStays: expired,
		GeneratedAt:  s.clock.Now(),
	}, nil
}

func (s *Service) describe(room domain.Room, active *domain.Stay, now time.Time) RoomAvailability {
	ra := RoomAvailability{
		RoomID:   room.ID,
		RoomName: room.Name,
		RoomType: room.RoomType,
		Climate:  room.Climate,
		Result:   Calculate(active, now, s.margin),
	}
	if active != nil && ra.Status != StatusAvailable {
		id := active.ID
		out := active.ScheduledCheckOut
		ra.ActiveStayID = &id
		ra.ReceiptNumber = active.ReceiptNumber
		ra.ScheduledCheckOut = &out
	}
	return ra
}
