//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"hotelstay/internal/config"
	"hotelstay/internal/database"
	"hotelstay/internal/domain"
	"hotelstay/internal/modules/rates"
	"hotelstay/internal/modules/stay"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/errs"
	"hotelstay/internal/repository"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgDatabase = "hotelstay"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	port := nat.Port("5432/tcp")
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, mapped.Port(), pgDatabase)
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPostgres_PartialIndexAllowsOneActiveStay(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	room := &domain.Room{Name: "Index", RoomType: domain.RoomSingle, Climate: domain.ClimateVentilated, IsActive: true}
	require.NoError(t, repository.NewRoomRepository(db).Create(ctx, room))

	stays := repository.NewStayRepository(db)
	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	mk := func(receipt string) *domain.Stay {
		return &domain.Stay{
			RoomID: room.ID, ManagerID: 1, Mode: domain.StayHourly, Climate: domain.ClimateVentilated,
			Status: domain.StayActive, ScheduledCheckIn: at, ScheduledCheckOut: at.Add(time.Hour),
			Duration: 1, RateApplied: 15, TotalAmount: 15, PaymentMethod: domain.PaymentCash,
			PaymentReceived: true, ReceiptNumber: receipt, CreatedAt: at, UpdatedAt: at,
		}
	}

	require.NoError(t, stays.Create(ctx, mk("HR-1-IND")))
	err := stays.Create(ctx, mk("HR-2-IND"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrConflict))
	assert.Equal(t, "room already has an active stay", errs.Message(err))
}

func TestPostgres_ConcurrentCreateOneWins(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	room := &domain.Room{Name: "Race", RoomType: domain.RoomDouble, Climate: domain.ClimateVentilated, IsActive: true}
	require.NoError(t, repository.NewRoomRepository(db).Create(ctx, room))

	cfg := config.DefaultBooking()
	table, err := rates.NewTable(cfg)
	require.NoError(t, err)
	rules, err := stay.RulesFromConfig(cfg)
	require.NoError(t, err)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	svc := stay.NewService(
		repository.NewTxManager(db),
		repository.NewStayRepository(db),
		stay.NewFactory(table, rules),
		clock.NewMockClock(now),
		cfg.CleaningMargin,
		nil,
	)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.CreateHourly(ctx, 1, stay.HourlyInput{
				RoomID: room.ID, Climate: domain.ClimateVentilated, CheckIn: now, DurationHours: 2,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if errs.Is(err, errs.ErrConflict) {
				conflicts++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}
