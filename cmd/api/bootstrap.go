package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"hotelstay/internal/config"
	"hotelstay/internal/database"
	"hotelstay/internal/events"
	"hotelstay/internal/idempotency"
	"hotelstay/internal/modules/activity"
	"hotelstay/internal/modules/auth"
	"hotelstay/internal/modules/availability"
	"hotelstay/internal/modules/rates"
	"hotelstay/internal/modules/rooms"
	"hotelstay/internal/modules/stay"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/jwt"
	"hotelstay/internal/pkg/logger"
	"hotelstay/internal/repository"
	"hotelstay/internal/server"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	EventsModule,
	RepositoryModule,
	ServiceModule,
	HandlerModule,
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.Load,
		NewLogger,
		clock.NewRealClock,
		func(cfg *config.Config) *jwt.Service { return jwt.New(cfg.JWT.Secret, cfg.JWT.TTL) },
	),
)

var DBModule = fx.Module("db",
	fx.Provide(NewDB),
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewHub,
		NewPublisher,
		NewIdempotency,
	),
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repository.NewRoomRepository,
		repository.NewStayRepository,
		repository.NewActivityRepository,
		repository.NewManagerRepository,
		repository.NewTxManager,
	),
)

var ServiceModule = fx.Module("service",
	fx.Provide(
		NewStayService,
		NewAvailabilityService,
		func(managers *repository.ManagerRepository, tokens *jwt.Service) *auth.Service {
			return auth.NewService(managers, tokens)
		},
		func(log *repository.ActivityRepository) *activity.Service { return activity.NewService(log) },
		func(r *repository.RoomRepository, s *repository.StayRepository, clk clock.Clock) *rooms.Service {
			return rooms.NewService(r, s, clk)
		},
	),
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		auth.NewHandler,
		availability.NewHandler,
		stay.NewHandler,
		activity.NewHandler,
		rooms.NewHandler,
		NewEngine,
	),
)

func NewLogger(cfg *config.Config) *slog.Logger {
	gin.SetMode(cfg.Server.GinMode)
	return logger.New(cfg.Log, gin.Mode() == gin.ReleaseMode)
}

func NewDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DB.URL)
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return database.Close(db) },
	})
	return db, nil
}

func NewHub(lc fx.Lifecycle, cfg *config.Config) *events.Hub {
	hub := events.NewHub(cfg.CORS.AllowedOrigins)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// NewPublisher fans stay events out to the live board and, when AMQP_URL
// is set, to the broker. A broker that is down at start is logged and skipped.
func NewPublisher(lc fx.Lifecycle, cfg *config.Config, hub *events.Hub, log *slog.Logger) events.Publisher {
	fanout := events.Fanout{hub}
	if cfg.AMQP.URL == "" {
		return fanout
	}

	pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		log.Warn("amqp publisher disabled", "error", err)
		return fanout
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return pub.Close() },
	})
	return append(fanout, pub)
}

// NewIdempotency returns nil when Redis is not configured or unreachable.
func NewIdempotency(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) gin.HandlerFunc {
	if cfg.Redis.Addr == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	client, err := idempotency.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("idempotency keys disabled", "error", err)
		return nil
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return client.Close() },
	})
	return idempotency.Middleware(idempotency.NewRedisStore(client), cfg.Redis.IdempotencyTTL)
}

func NewStayService(
	cfg *config.Config,
	tx *repository.TxManager,
	stays *repository.StayRepository,
	clk clock.Clock,
	publisher events.Publisher,
) (*stay.Service, error) {
	table, err := rates.NewTable(cfg.Booking)
	if err != nil {
		return nil, err
	}
	rules, err := stay.RulesFromConfig(cfg.Booking)
	if err != nil {
		return nil, err
	}
	return stay.NewService(tx, stays, stay.NewFactory(table, rules), clk, cfg.Booking.CleaningMargin, publisher), nil
}

func NewAvailabilityService(
	cfg *config.Config,
	roomRepo *repository.RoomRepository,
	stays *repository.StayRepository,
	sweeper *stay.Service,
	clk clock.Clock,
) (*availability.Service, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}
	return availability.NewService(roomRepo, stays, sweeper, clk, cfg.Booking.CleaningMargin, loc), nil
}

type engineParams struct {
	fx.In

	Config       *config.Config
	Logger       *slog.Logger
	Tokens       *jwt.Service
	Idempotency  gin.HandlerFunc `optional:"true"`
	Hub          *events.Hub
	Auth         *auth.Handler
	Availability *availability.Handler
	Stays        *stay.Handler
	Activity     *activity.Handler
	Rooms        *rooms.Handler
}

func NewEngine(p engineParams) *gin.Engine {
	return server.NewRouter(server.Options{
		Logger:         p.Logger,
		Tokens:         p.Tokens,
		AllowedOrigins: p.Config.CORS.AllowedOrigins,
		Idempotency:    p.Idempotency,
		Swagger:        gin.Mode() == gin.DebugMode,
	}, server.Handlers{
		Auth:         p.Auth,
		Availability: p.Availability,
		Stays:        p.Stays,
		Activity:     p.Activity,
		Rooms:        p.Rooms,
		Board:        p.Hub,
	})
}
