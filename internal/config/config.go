package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/errs"
)

const defaultJWTSecret = "change-me-jwt-secret"

type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"dev"`
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	Log     LogConfig
	CORS    CORSConfig
	Redis   RedisConfig
	AMQP    AMQPConfig
	Booking BookingConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	GinMode         string        `envconfig:"GIN_MODE" default:"debug"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	URL string `envconfig:"DATABASE_URL" default:"hotelstay.db"`
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// RedisConfig enables idempotency keys when Addr is set.
type RedisConfig struct {
	Addr           string        `envconfig:"REDIS_ADDR"`
	Password       string        `envconfig:"REDIS_PASSWORD"`
	DB             int           `envconfig:"REDIS_DB" default:"0"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
}

// AMQPConfig enables stay event publication when URL is set.
type AMQPConfig struct {
	URL      string `envconfig:"AMQP_URL"`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"hotelstay.events"`
}

// BookingConfig holds every business constant of the front desk.
type BookingConfig struct {
	CleaningMargin      time.Duration      `envconfig:"CLEANING_MARGIN" default:"10m"`
	HourlySurchargeAC   float64            `envconfig:"HOURLY_SURCHARGE_AC" default:"3"`
	NightlySurchargeAC  float64            `envconfig:"NIGHTLY_SURCHARGE_AC" default:"15"`
	HourlyRates         map[string]float64 `envconfig:"HOURLY_RATES" default:"SINGLE:15,DOUBLE:20,SUITE:35,FAMILY:25,DELUXE:45"`
	NightlyRates        map[string]float64 `envconfig:"NIGHTLY_RATES" default:"SINGLE:80,DOUBLE:120,SUITE:200,FAMILY:150,DELUXE:250"`
	MinHourlyDuration   int                `envconfig:"MIN_HOURLY_DURATION" default:"1"`
	MaxHourlyDuration   int                `envconfig:"MAX_HOURLY_DURATION" default:"5"`
	NightlyStartHour    int                `envconfig:"NIGHTLY_START_HOUR" default:"22"`
	NightlyCheckoutHour int                `envconfig:"NIGHTLY_CHECKOUT_HOUR" default:"12"`
	TimeZone            string             `envconfig:"BOOKING_TIMEZONE" default:"UTC"`
}

// DefaultBooking returns the stock front-desk rules.
func DefaultBooking() BookingConfig {
	return BookingConfig{
		CleaningMargin:     10 * time.Minute,
		HourlySurchargeAC:  3,
		NightlySurchargeAC: 15,
		HourlyRates: map[string]float64{
			"SINGLE": 15, "DOUBLE": 20, "SUITE": 35, "FAMILY": 25, "DELUXE": 45,
		},
		NightlyRates: map[string]float64{
			"SINGLE": 80, "DOUBLE": 120, "SUITE": 200, "FAMILY": 150, "DELUXE": 250,
		},
		MinHourlyDuration:   1,
		MaxHourlyDuration:   5,
		NightlyStartHour:    22,
		NightlyCheckoutHour: 12,
		TimeZone:            "UTC",
	}
}

func (b BookingConfig) Location() (*time.Location, error) {
	if b.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		return nil, errs.Validationf("BOOKING_TIMEZONE", "unknown time zone %q", b.TimeZone)
	}
	return loc, nil
}

// Validate fails closed: an incomplete rate table must not start the service.
func (b BookingConfig) Validate() error {
	for _, rt := range domain.RoomTypes {
		if _, ok := b.HourlyRates[string(rt)]; !ok {
			return errs.Validationf("HOURLY_RATES", "missing rate for %s", rt)
		}
		if _, ok := b.NightlyRates[string(rt)]; !ok {
			return errs.Validationf("NIGHTLY_RATES", "missing rate for %s", rt)
		}
	}
	for k, v := range b.HourlyRates {
		if v < 0 {
			return errs.Validationf("HOURLY_RATES", "negative rate for %s", k)
		}
	}
	for k, v := range b.NightlyRates {
		if v < 0 {
			return errs.Validationf("NIGHTLY_RATES", "negative rate for %s", k)
		}
	}
	if b.HourlySurchargeAC < 0 || b.NightlySurchargeAC < 0 {
		return errs.Validation("SURCHARGE_AC", "surcharge must not be negative")
	}
	if b.CleaningMargin < 0 {
		return errs.Validation("CLEANING_MARGIN", "must not be negative")
	}
	if b.MinHourlyDuration < 1 || b.MaxHourlyDuration < b.MinHourlyDuration {
		return errs.Validation("MAX_HOURLY_DURATION", "hourly duration bounds are inconsistent")
	}
	if b.NightlyStartHour < 0 || b.NightlyStartHour > 23 {
		return errs.Validation("NIGHTLY_START_HOUR", "must be within 0..23")
	}
	if b.NightlyCheckoutHour < 0 || b.NightlyCheckoutHour > 23 {
		return errs.Validation("NIGHTLY_CHECKOUT_HOUR", "must be within 0..23")
	}
	_, err := b.Location()
	return err
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "reason", err.Error())
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errs.Wrap(err, "process env")
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Booking.HourlyRates = normalizeRates(cfg.Booking.HourlyRates)
	cfg.Booking.NightlyRates = normalizeRates(cfg.Booking.NightlyRates)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret) {
		return errs.Validation("JWT_SECRET", "must be set in production")
	}
	if c.JWT.TTL <= 0 {
		return errs.Validation("JWT_TTL", "must be positive")
	}
	return c.Booking.Validate()
}

func normalizeRates(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}

// NewTestConfig returns a configuration backed by a private in-memory sqlite database.
func NewTestConfig(name string) *Config {
	return &Config{
		AppEnv:  "test",
		Server:  ServerConfig{Port: "0", GinMode: "test", ShutdownTimeout: time.Second},
		DB:      DBConfig{URL: fmt.Sprintf("file:%s?mode=memory&cache=shared", name)},
		JWT:     JWTConfig{Secret: "test-secret", TTL: time.Hour},
		Log:     LogConfig{Level: "error", Format: "text"},
		CORS:    CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Redis:   RedisConfig{IdempotencyTTL: time.Hour},
		AMQP:    AMQPConfig{Exchange: "hotelstay.events"},
		Booking: DefaultBooking(),
	}
}
