package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/errs"
)

type MockRoomReader struct {
	mock.Mock
}

func (m *MockRoomReader) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomReader) List(ctx context.Context, includeInactive bool) ([]domain.Room, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

type MockStayReader struct {
	mock.Mock
}

func (m *MockStayReader) ActiveForRoom(ctx context.Context, roomID int64) (*domain.Stay, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stay), args.Error(1)
}

func (m *MockStayReader) ActiveByRoom(ctx context.Context) (map[int64]*domain.Stay, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*domain.Stay), args.Error(1)
}

func (m *MockStayReader) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) SweepExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestForRoom_Cleaning(t *testing.T) {
	rooms := new(MockRoomReader)
	stays := new(MockStayReader)
	clk := clock.NewMockClock(checkOut.Add(5 * time.Minute))
	svc := NewService(rooms, stays, nil, clk, margin, time.UTC)

	ctx := context.Background()
	rooms.On("GetByID", ctx, int64(3)).Return(&domain.Room{ID: 3, Name: "Lotus", RoomType: domain.RoomDouble}, nil)
	stays.On("ActiveForRoom", ctx, int64(3)).Return(activeStay(), nil)

	got, err := svc.ForRoom(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusCleaning, got.Status)
	assert.Equal(t, 5, got.MinutesRemaining)
	require.NotNil(t, got.ActiveStayID)
	assert.Equal(t, int64(1), *got.ActiveStayID)

	clk.Add(6 * time.Minute)
	got, err = svc.ForRoom(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, got.Status)
	assert.Nil(t, got.ActiveStayID)

	rooms.AssertExpectations(t)
	stays.AssertExpectations(t)
}

func TestForRoom_NotFound(t *testing.T) {
	rooms := new(MockRoomReader)
	stays := new(MockStayReader)
	svc := NewService(rooms, stays, nil, clock.NewMockClock(checkOut), margin, time.UTC)

	ctx := context.Background()
	rooms.On("GetByID", ctx, int64(99)).Return(nil, errs.NotFound("room"))

	_, err := svc.ForRoom(ctx, 99)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
	stays.AssertNotCalled(t, "ActiveForRoom", mock.Anything, mock.Anything)
}

func TestDashboard_SweepsThenSummarises(t *testing.T) {
	rooms := new(MockRoomReader)
	stays := new(MockStayReader)
	sweeper := new(MockSweeper)
	now := time.Date(2025, 1, 1, 12, 3, 0, 0, time.UTC)
	svc := NewService(rooms, stays, sweeper, clock.NewMockClock(now), margin, time.UTC)

	ctx := context.Background()
	occupied := &domain.Stay{ID: 10, RoomID: 2, Status: domain.StayActive, ScheduledCheckOut: now.Add(time.Hour), ReceiptNumber: "HR-1-BIR"}
	cleaning := &domain.Stay{ID: 11, RoomID: 3, Status: domain.StayActive, ScheduledCheckOut: now.Add(-3 * time.Minute)}

	sweeper.On("SweepExpired", ctx).Return(2, nil).Once()
	rooms.On("List", ctx, false).Return([]domain.Room{
		{ID: 1, Name: "Alder"}, {ID: 2, Name: "Birch"}, {ID: 3, Name: "Cedar"},
	}, nil)
	stays.On("ActiveByRoom", ctx).Return(map[int64]*domain.Stay{2: occupied, 3: cleaning}, nil)
	dayStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stays.On("RevenueBetween", ctx, dayStart, dayStart.AddDate(0, 0, 1)).Return(143.0, nil)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, d.ExpiredStays)
	require.Len(t, d.Rooms, 3)
	assert.Equal(t, StatusAvailable, d.Rooms[0].Status)
	assert.Equal(t, StatusOccupied, d.Rooms[1].Status)
	assert.Equal(t, "HR-1-BIR", d.Rooms[1].ReceiptNumber)
	assert.Equal(t, StatusCleaning, d.Rooms[2].Status)
	assert.Equal(t, 7, d.Rooms[2].MinutesRemaining)

	assert.Equal(t, Summary{TotalRooms: 3, Available: 1, Occupied: 1, Cleaning: 1, RevenueToday: 143}, d.Summary)
	sweeper.AssertExpectations(t)
}

func TestDashboard_SweepFailure(t *testing.T) {
	rooms := new(MockRoomReader)
	stays := new(MockStayReader)
	sweeper := new(MockSweeper)
	svc := NewService(rooms, stays, sweeper, clock.NewMockClock(checkOut), margin, time.UTC)

	ctx := context.Background()
	sweeper.On("SweepExpired", ctx).Return(0, errs.Persistence(assert.AnError, "sweep"))

	_, err := svc.Dashboard(ctx)
	assert.True(t, errs.Is(err, errs.ErrPersistence))
	rooms.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
