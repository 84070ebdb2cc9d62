// Package rates prices rooms by room type, climate variant and stay mode.
package rates

import (
	"math"

	"hotelstay/internal/config"
	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/errs"
)

// Table is immutable once built and safe for concurrent use.
type Table struct {
	hourly    map[domain.RoomType]float64
	nightly   map[domain.RoomType]float64
	hourlyAC  float64
	nightlyAC float64
}

func NewTable(cfg config.BookingConfig) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		hourly:    make(map[domain.RoomType]float64, len(domain.RoomTypes)),
		nightly:   make(map[domain.RoomType]float64, len(domain.RoomTypes)),
		hourlyAC:  cfg.HourlySurchargeAC,
		nightlyAC: cfg.NightlySurchargeAC,
	}
	for _, rt := range domain.RoomTypes {
		t.hourly[rt] = cfg.HourlyRates[string(rt)]
		t.nightly[rt] = cfg.NightlyRates[string(rt)]
	}
	return t, nil
}

// BasePrice is the per-unit price of rt. EXTENDED stays use the nightly price.
func (t *Table) BasePrice(rt domain.RoomType, mode domain.StayMode) (float64, error) {
	if !rt.IsValid() {
		return 0, errs.Validationf("room_type", "unknown room type %q", rt)
	}
	switch mode {
	case domain.StayHourly:
		return t.hourly[rt], nil
	case domain.StayNightly, domain.StayExtended:
		return t.nightly[rt], nil
	}
	return 0, errs.Validationf("mode", "unknown stay mode %q", mode)
}

// Surcharge is the per-unit climate surcharge; ventilated rooms carry none.
func (t *Table) Surcharge(c domain.ClimateVariant, mode domain.StayMode) (float64, error) {
	if !c.IsValid() {
		return 0, errs.Validationf("climate_variant", "unknown climate variant %q", c)
	}
	if !mode.IsValid() {
		return 0, errs.Validationf("mode", "unknown stay mode %q", mode)
	}
	if c == domain.ClimateVentilated {
		return 0, nil
	}
	if mode == domain.StayHourly {
		return t.hourlyAC, nil
	}
	return t.nightlyAC, nil
}

// Rate is BasePrice plus Surcharge.
func (t *Table) Rate(rt domain.RoomType, c domain.ClimateVariant, mode domain.StayMode) (float64, error) {
	base, err := t.BasePrice(rt, mode)
	if err != nil {
		return 0, err
	}
	extra, err := t.Surcharge(c, mode)
	if err != nil {
		return 0, err
	}
	return RoundMoney(base + extra), nil
}

// Quote lists every rate for a room type, keyed by mode and climate.
func (t *Table) Quote(rt domain.RoomType) (map[domain.StayMode]map[domain.ClimateVariant]float64, error) {
	out := make(map[domain.StayMode]map[domain.ClimateVariant]float64, 3)
	for _, mode := range []domain.StayMode{domain.StayHourly, domain.StayNightly, domain.StayExtended} {
		out[mode] = make(map[domain.ClimateVariant]float64, 2)
		for _, c := range []domain.ClimateVariant{domain.ClimateVentilated, domain.ClimateAirConditioned} {
			r, err := t.Rate(rt, c, mode)
			if err != nil {
				return nil, err
			}
			out[mode][c] = r
		}
	}
	return out, nil
}

func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
