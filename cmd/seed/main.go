package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"hotelstay/internal/config"
	"hotelstay/internal/database"
	"hotelstay/internal/domain"
	"hotelstay/internal/modules/auth"
	"hotelstay/internal/pkg/errs"
	"hotelstay/internal/pkg/logger"
	"hotelstay/internal/repository"
)

type seedManager struct {
	email    string
	password string
	name     string
	role     domain.ManagerRole
}

type seedRoom struct {
	name     string
	roomType domain.RoomType
	climate  domain.ClimateVariant
}

var managers = []seedManager{
	{"admin@hotelstay.local", "admin12345", "Administrator", domain.RoleAdmin},
	{"desk@hotelstay.local", "desk12345", "Front Desk", domain.RoleManager},
}

var rooms = []seedRoom{
	{"101 Single", domain.RoomSingle, domain.ClimateVentilated},
	{"102 Double", domain.RoomDouble, domain.ClimateAirConditioned},
	{"201 Suite", domain.RoomSuite, domain.ClimateAirConditioned},
	{"202 Family", domain.RoomFamily, domain.ClimateVentilated},
	{"301 Deluxe", domain.RoomDeluxe, domain.ClimateAirConditioned},
}

// Seeding is idempotent: rows that already exist are skipped.
func main() {
	dsn := flag.String("db", "", "database URL (defaults to DATABASE_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, false)
	if *dsn != "" {
		cfg.DB.URL = *dsn
	}

	db, err := database.Connect(cfg.DB.URL)
	if err != nil {
		log.Error("db connection failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	if err := repository.AutoMigrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	managerRepo := repository.NewManagerRepository(db)
	for _, m := range managers {
		hash, err := auth.HashPassword(m.password)
		if err != nil {
			log.Error("hash password", "error", err)
			os.Exit(1)
		}
		err = managerRepo.Create(ctx, &domain.Manager{
			Email:        m.email,
			PasswordHash: hash,
			Name:         m.name,
			Role:         m.role,
			IsActive:     true,
		})
		if skip(log, err, "manager", m.email) {
			continue
		}
		log.Info("manager created", "email", m.email, "role", m.role, "password", m.password)
	}

	roomRepo := repository.NewRoomRepository(db)
	for _, r := range rooms {
		err := roomRepo.Create(ctx, &domain.Room{
			Name:     r.name,
			RoomType: r.roomType,
			Climate:  r.climate,
			IsActive: true,
		})
		if skip(log, err, "room", r.name) {
			continue
		}
		log.Info("room created", "name", r.name, "type", r.roomType)
	}

	log.Info("seed completed")
}

func skip(log *slog.Logger, err error, what, key string) bool {
	switch {
	case err == nil:
		return false
	case errs.Is(err, errs.ErrConflict):
		log.Info(what+" exists, skipped", "key", key)
		return true
	default:
		log.Error("seed "+what+" failed", "key", key, "error", err)
		os.Exit(1)
		return true
	}
}
