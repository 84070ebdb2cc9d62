package stay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelstay/internal/config"
	"hotelstay/internal/database"
	"hotelstay/internal/domain"
	"hotelstay/internal/events"
	"hotelstay/internal/modules/rates"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/errs"
	"hotelstay/internal/repository"
)

const managerID = int64(7)

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.StayEvent
}

func (r *recordingPublisher) Publish(_ context.Context, ev events.StayEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
	return nil
}

func (r *recordingPublisher) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.got))
	for _, ev := range r.got {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	db     *gorm.DB
	svc    *Service
	clock  *clock.MockClock
	events *recordingPublisher
	rooms  *repository.RoomRepository
	stays  *repository.StayRepository
}

func setupService(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := config.DefaultBooking()
	table, err := rates.NewTable(cfg)
	require.NoError(t, err)
	rules, err := RulesFromConfig(cfg)
	require.NoError(t, err)

	clk := clock.NewMockClock(now)
	pub := &recordingPublisher{}
	stays := repository.NewStayRepository(db)
	svc := NewService(repository.NewTxManager(db), stays, NewFactory(table, rules), clk, cfg.CleaningMargin, pub)

	return &testEnv{
		db:     db,
		svc:    svc,
		clock:  clk,
		events: pub,
		rooms:  repository.NewRoomRepository(db),
		stays:  stays,
	}
}

func (e *testEnv) room(t *testing.T, name string, rt domain.RoomType) *domain.Room {
	t.Helper()
	r := &domain.Room{Name: name, RoomType: rt, Climate: domain.ClimateVentilated, IsActive: true}
	require.NoError(t, e.rooms.Create(context.Background(), r))
	return r
}

func (e *testEnv) activity(t *testing.T, stayID int64) []domain.ActivityLogEntry {
	t.Helper()
	entries, _, err := repository.NewActivityRepository(e.db).List(context.Background(), repository.ActivityFilter{StayID: stayID})
	require.NoError(t, err)
	return entries
}

var tenAM = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func hourlyIn(roomID int64, checkIn time.Time, hours int) HourlyInput {
	return HourlyInput{RoomID: roomID, Climate: domain.ClimateVentilated, CheckIn: checkIn, DurationHours: hours}
}

func TestCreateHourly_PersistsStayAndActivity(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Lotus", domain.RoomDouble)
	ctx := context.Background()

	s, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 2))
	require.NoError(t, err)

	assert.NotZero(t, s.ID)
	assert.Equal(t, fmt.Sprintf("HR-%d-LOT", tenAM.UnixMilli()), s.ReceiptNumber)
	assert.Equal(t, 40.0, s.TotalAmount)
	assert.Equal(t, managerID, s.ManagerID)

	stored, err := env.stays.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StayActive, stored.Status)
	assert.True(t, stored.ScheduledCheckOut.Equal(tenAM.Add(2*time.Hour)))

	entries := env.activity(t, s.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCreate, entries[0].Action)
	assert.Equal(t, managerID, entries[0].ManagerID)

	var details map[string]any
	require.NoError(t, json.Unmarshal(entries[0].Details, &details))
	assert.Equal(t, s.ReceiptNumber, details["receipt_number"])
	assert.Equal(t, 40.0, details["total_amount"])

	assert.Equal(t, []events.Type{events.StayCreated}, env.events.types())
}

func TestCreateHourly_OccupiedRoomConflicts(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Maple", domain.RoomSingle)
	ctx := context.Background()

	_, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 2))
	require.NoError(t, err)

	env.clock.Add(30 * time.Minute)
	_, err = env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, env.clock.Now(), 1))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrConflict))
	assert.Equal(t, "room is occupied", errs.Message(err))

	_, total, err := env.stays.List(ctx, repository.StayFilter{RoomID: room.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCreateHourly_CleaningRoomConflicts(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Cedar", domain.RoomSingle)
	ctx := context.Background()

	_, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 1))
	require.NoError(t, err)

	env.clock.Set(tenAM.Add(time.Hour + 4*time.Minute))
	_, err = env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, env.clock.Now(), 1))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrConflict))
	assert.Contains(t, errs.Message(err), "available in 6 minutes")
}

func TestCreateHourly_StaleActiveStayIsExpired(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Birch", domain.RoomSingle)
	ctx := context.Background()

	old, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 1))
	require.NoError(t, err)

	env.clock.Set(tenAM.Add(2 * time.Hour))
	fresh, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, env.clock.Now(), 1))
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)

	stale, err := env.stays.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StayExpired, stale.Status)
	assert.True(t, stale.IsExpired)
}

func TestCreate_RoomChecks(t *testing.T) {
	env := setupService(t, tenAM)
	ctx := context.Background()

	_, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(404, tenAM, 1))
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	closed := env.room(t, "Closed", domain.RoomSuite)
	closed.IsActive = false
	require.NoError(t, env.rooms.Update(ctx, closed))

	_, err = env.svc.CreateHourly(ctx, managerID, hourlyIn(closed.ID, tenAM, 1))
	assert.True(t, errs.Is(err, errs.ErrValidation))
	assert.Equal(t, "room_id", errs.Field(err))

	_, err = env.svc.CreateHourly(ctx, managerID, hourlyIn(closed.ID, tenAM, 9))
	assert.Equal(t, "duration_hours", errs.Field(err))
	assert.Empty(t, env.events.types())
}

func TestCreateNightlyAndExtended(t *testing.T) {
	night := time.Date(2025, 1, 1, 22, 30, 0, 0, time.UTC)
	env := setupService(t, night)
	a := env.room(t, "Aurora", domain.RoomSuite)
	b := env.room(t, "Boreal", domain.RoomDouble)
	ctx := context.Background()

	n, err := env.svc.CreateNightly(ctx, managerID, NightlyInput{RoomID: a.ID, Climate: domain.ClimateAirConditioned, CheckIn: night})
	require.NoError(t, err)
	assert.Equal(t, 215.0, n.TotalAmount)
	assert.True(t, n.ScheduledCheckOut.Equal(time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)))
	assert.Contains(t, n.ReceiptNumber, "NT-")

	x, err := env.svc.CreateExtended(ctx, managerID, ExtendedInput{
		RoomID:   b.ID,
		Climate:  domain.ClimateVentilated,
		CheckIn:  night,
		CheckOut: night.Add(72 * time.Hour),
		Client:   clientInfo(),
	})
	require.NoError(t, err)
	assert.Equal(t, 360.0, x.TotalAmount)

	stored, err := env.stays.GetByID(ctx, x.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Client)
	assert.Equal(t, domain.IDPassport, stored.Client.IDType)
	assert.Equal(t, "Sadykova", stored.Client.LastName)
}

func TestReceiptNumbersStayUnique(t *testing.T) {
	env := setupService(t, tenAM)
	a := env.room(t, "Lotus", domain.RoomSingle)
	b := env.room(t, "Lotus Annex", domain.RoomSingle)
	ctx := context.Background()

	first, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(a.ID, tenAM, 1))
	require.NoError(t, err)
	second, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(b.ID, tenAM, 1))
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("HR-%d-LOT", tenAM.UnixMilli()), first.ReceiptNumber)
	assert.Equal(t, fmt.Sprintf("HR-%d-LOT", tenAM.UnixMilli()+1), second.ReceiptNumber)
}

func TestCreateHourly_ConcurrentBookingsOneWins(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Race", domain.RoomDouble)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 2))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errs.Is(err, errs.ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	_, total, err := env.stays.List(ctx, repository.StayFilter{RoomID: room.ID, Status: domain.StayActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCheckout_OvertimeBillsStartedHour(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Lotus", domain.RoomDouble)
	ctx := context.Background()

	s, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 2))
	require.NoError(t, err)

	env.clock.Set(time.Date(2025, 1, 1, 12, 45, 0, 0, time.UTC))
	settled, err := env.svc.Checkout(ctx, managerID, CheckoutInput{StayID: s.ID, Notes: "keys returned"})
	require.NoError(t, err)

	assert.Equal(t, domain.StayExtendedStatus, settled.Status)
	assert.Equal(t, 60.0, settled.TotalAmount)
	require.NotNil(t, settled.OvertimeCharge)
	assert.Equal(t, 20.0, *settled.OvertimeCharge)
	require.NotNil(t, settled.Room)
	assert.Equal(t, "Lotus", settled.Room.Name)

	stored, err := env.stays.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, stored.TotalAmount)
	assert.Equal(t, domain.StayExtendedStatus, stored.Status)
	assert.True(t, stored.PaymentReceived)
	assert.Equal(t, "keys returned", stored.Notes)
	require.NotNil(t, stored.OvertimeMinutes)
	assert.Equal(t, 45, *stored.OvertimeMinutes)

	entries := env.activity(t, s.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionCheckOut, entries[0].Action)
	var details map[string]any
	require.NoError(t, json.Unmarshal(entries[0].Details, &details))
	assert.Equal(t, 40.0, details["amount_before"])
	assert.Equal(t, 60.0, details["amount_after"])

	_, err = env.svc.Checkout(ctx, managerID, CheckoutInput{StayID: s.ID})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrConflict))
	assert.Len(t, env.activity(t, s.ID), 2)

	assert.Equal(t, []events.Type{events.StayCreated, events.StayCheckedOut}, env.events.types())
}

func TestCheckout_Validation(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Lotus", domain.RoomDouble)
	ctx := context.Background()

	s, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 2))
	require.NoError(t, err)

	_, err = env.svc.Checkout(ctx, managerID, CheckoutInput{StayID: s.ID, AdditionalCharges: -5})
	assert.Equal(t, "additional_charges", errs.Field(err))

	_, err = env.svc.Checkout(ctx, managerID, CheckoutInput{StayID: 999})
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	stored, err := env.stays.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StayActive, stored.Status)
}

func TestCheckout_FutureBookingReleasesRoom(t *testing.T) {
	env := setupService(t, tenAM)
	room := env.room(t, "Lotus", domain.RoomDouble)
	ctx := context.Background()

	tomorrow := tenAM.Add(24 * time.Hour)
	booked, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tomorrow, 2))
	require.NoError(t, err)

	_, err = env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 1))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrConflict))

	settled, err := env.svc.Checkout(ctx, managerID, CheckoutInput{StayID: booked.ID, Notes: "booked in error"})
	require.NoError(t, err)
	assert.Equal(t, domain.StayCompleted, settled.Status)
	assert.Equal(t, 40.0, settled.TotalAmount)
	require.NotNil(t, settled.ActualCheckOut)
	assert.True(t, settled.ActualCheckOut.Equal(tenAM))

	_, err = env.svc.CreateHourly(ctx, managerID, hourlyIn(room.ID, tenAM, 1))
	require.NoError(t, err)
}

func TestSweepExpired(t *testing.T) {
	env := setupService(t, tenAM)
	a := env.room(t, "Alder", domain.RoomSingle)
	b := env.room(t, "Birch", domain.RoomSingle)
	ctx := context.Background()

	short, err := env.svc.CreateHourly(ctx, managerID, hourlyIn(a.ID, tenAM, 1))
	require.NoError(t, err)
	_, err = env.svc.CreateHourly(ctx, managerID, hourlyIn(b.ID, tenAM, 3))
	require.NoError(t, err)

	// Inside the cleaning margin nothing expires.
	env.clock.Set(tenAM.Add(time.Hour + 5*time.Minute))
	n, err := env.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	env.clock.Set(tenAM.Add(time.Hour + 11*time.Minute))
	n, err = env.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := env.stays.GetByID(ctx, short.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StayExpired, stored.Status)
	assert.True(t, stored.IsExpired)

	n, err = env.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = env.svc.Checkout(ctx, managerID, CheckoutInput{StayID: short.ID})
	assert.True(t, errs.Is(err, errs.ErrConflict))

	assert.Contains(t, env.events.types(), events.StayExpired)
}

func TestList_Validation(t *testing.T) {
	env := setupService(t, tenAM)

	_, _, err := env.svc.List(context.Background(), repository.StayFilter{Status: "PAUSED"})
	assert.Equal(t, "status", errs.Field(err))

	_, err = env.svc.GetByReceipt(context.Background(), "")
	assert.Equal(t, "receipt", errs.Field(err))
}
