package stay

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"hotelstay/internal/config"
	"hotelstay/internal/domain"
	"hotelstay/internal/modules/rates"
	"hotelstay/internal/pkg/errs"
)

// Rules are the booking constraints the factory enforces.
type Rules struct {
	MinHourly           int
	MaxHourly           int
	NightlyStartHour    int
	NightlyCheckoutHour int
	Location            *time.Location
}

func RulesFromConfig(cfg config.BookingConfig) (Rules, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Rules{}, err
	}
	return Rules{
		MinHourly:           cfg.MinHourlyDuration,
		MaxHourly:           cfg.MaxHourlyDuration,
		NightlyStartHour:    cfg.NightlyStartHour,
		NightlyCheckoutHour: cfg.NightlyCheckoutHour,
		Location:            loc,
	}, nil
}

type HourlyInput struct {
	RoomID        int64
	Climate       domain.ClimateVariant
	CheckIn       time.Time
	DurationHours int
	Notes         string
}

func (in HourlyInput) Validate(r Rules) error {
	if err := validateCommon(in.RoomID, in.Climate, in.CheckIn); err != nil {
		return err
	}
	if in.DurationHours < r.MinHourly || in.DurationHours > r.MaxHourly {
		return errs.Validationf("duration_hours", "must be between %d and %d hours", r.MinHourly, r.MaxHourly)
	}
	return nil
}

type NightlyInput struct {
	RoomID  int64
	Climate domain.ClimateVariant
	CheckIn time.Time
	Notes   string
}

func (in NightlyInput) Validate(r Rules) error {
	if err := validateCommon(in.RoomID, in.Climate, in.CheckIn); err != nil {
		return err
	}
	if in.CheckIn.In(r.Location).Hour() < r.NightlyStartHour {
		return errs.Validationf("check_in", "nightly stays start at %02d:00 or later", r.NightlyStartHour)
	}
	return nil
}

type ExtendedInput struct {
	RoomID   int64
	Climate  domain.ClimateVariant
	CheckIn  time.Time
	CheckOut time.Time
	Client   domain.ClientInfo
	Notes    string
}

func (in ExtendedInput) Validate(Rules) error {
	if err := validateCommon(in.RoomID, in.Climate, in.CheckIn); err != nil {
		return err
	}
	if in.CheckOut.IsZero() {
		return errs.Validation("check_out", "is required")
	}
	if !in.CheckOut.After(in.CheckIn) {
		return errs.Validation("check_out", "must be after check_in")
	}
	return validateClient(in.Client)
}

func validateCommon(roomID int64, climate domain.ClimateVariant, checkIn time.Time) error {
	if roomID <= 0 {
		return errs.Validation("room_id", "is required")
	}
	if !climate.IsValid() {
		return errs.Validationf("climate_variant", "unknown climate variant %q", climate)
	}
	if checkIn.IsZero() {
		return errs.Validation("check_in", "is required")
	}
	return nil
}

func validateClient(c domain.ClientInfo) error {
	required := []struct{ field, value string }{
		{"client.first_name", c.FirstName},
		{"client.last_name", c.LastName},
		{"client.phone", c.Phone},
		{"client.id_number", c.IDNumber},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errs.Validation(r.field, "is required")
		}
	}
	if !c.IDType.IsValid() {
		return errs.Validationf("client.id_type", "unknown document type %q", c.IDType)
	}
	return nil
}

// Factory builds priced, ACTIVE stays. It does no I/O.
type Factory struct {
	rates *rates.Table
	rules Rules
}

func NewFactory(table *rates.Table, rules Rules) *Factory {
	if rules.Location == nil {
		rules.Location = time.Local
	}
	return &Factory{rates: table, rules: rules}
}

func (f *Factory) Rules() Rules { return f.rules }

func (f *Factory) Hourly(room *domain.Room, in HourlyInput, now time.Time) (*domain.Stay, error) {
	if err := in.Validate(f.rules); err != nil {
		return nil, err
	}
	rate, err := f.rates.Rate(room.RoomType, in.Climate, domain.StayHourly)
	if err != nil {
		return nil, err
	}

	s := newActiveStay(room, domain.StayHourly, in.Climate, now)
	s.ScheduledCheckIn = in.CheckIn
	s.ScheduledCheckOut = in.CheckIn.Add(time.Duration(in.DurationHours) * time.Hour)
	s.Duration = in.DurationHours
	s.RateApplied = rate
	s.TotalAmount = rates.RoundMoney(rate * float64(in.DurationHours))
	s.Notes = strings.TrimSpace(in.Notes)
	return s, nil
}

// Nightly stays check out on the next calendar day at the checkout hour.
func (f *Factory) Nightly(room *domain.Room, in NightlyInput, now time.Time) (*domain.Stay, error) {
	if err := in.Validate(f.rules); err != nil {
		return nil, err
	}
	rate, err := f.rates.Rate(room.RoomType, in.Climate, domain.StayNightly)
	if err != nil {
		return nil, err
	}

	local := in.CheckIn.In(f.rules.Location)
	checkOut := time.Date(local.Year(), local.Month(), local.Day()+1, f.rules.NightlyCheckoutHour, 0, 0, 0, f.rules.Location)

	s := newActiveStay(room, domain.StayNightly, in.Climate, now)
	s.ScheduledCheckIn = in.CheckIn
	s.ScheduledCheckOut = checkOut
	s.Duration = 1
	s.RateApplied = rate
	s.TotalAmount = rate
	s.Notes = strings.TrimSpace(in.Notes)
	return s, nil
}

// Extended stays bill every started 24h period at the nightly rate.
func (f *Factory) Extended(room *domain.Room, in ExtendedInput, now time.Time) (*domain.Stay, error) {
	if err := in.Validate(f.rules); err != nil {
		return nil, err
	}
	rate, err := f.rates.Rate(room.RoomType, in.Climate, domain.StayExtended)
	if err != nil {
		return nil, err
	}

	days := ExtendedDays(in.CheckIn, in.CheckOut)
	client := in.Client
	client.FirstName = strings.TrimSpace(client.FirstName)
	client.LastName = strings.TrimSpace(client.LastName)
	client.Phone = strings.TrimSpace(client.Phone)
	client.IDNumber = strings.TrimSpace(client.IDNumber)

	s := newActiveStay(room, domain.StayExtended, in.Climate, now)
	s.ScheduledCheckIn = in.CheckIn
	s.ScheduledCheckOut = in.CheckOut
	s.Duration = days
	s.RateApplied = rate
	s.TotalAmount = rates.RoundMoney(rate * float64(days))
	s.Client = &client
	s.Notes = strings.TrimSpace(in.Notes)
	return s, nil
}

// ExtendedDays is ceil((checkOut-checkIn)/24h), never less than one.
func ExtendedDays(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

func newActiveStay(room *domain.Room, mode domain.StayMode, climate domain.ClimateVariant, now time.Time) *domain.Stay {
	return &domain.Stay{
		RoomID:          room.ID,
		Mode:            mode,
		Climate:         climate,
		Status:          domain.StayActive,
		PaymentMethod:   domain.PaymentCash,
		PaymentReceived: true,
		CreatedAt:       now,
		UpdatedAt:       now,
		Room:            room,
	}
}

var receiptPrefix = map[domain.StayMode]string{
	domain.StayHourly:   "HR",
	domain.StayNightly:  "NT",
	domain.StayExtended: "EXT",
}

// ReceiptNumber formats PREFIX-<unix millis>-<room code>, where the room
// code is the first three letters or digits of the room name, upper-cased.
func ReceiptNumber(mode domain.StayMode, at time.Time, roomName string) string {
	return fmt.Sprintf("%s-%d-%s", receiptPrefix[mode], at.UnixMilli(), roomCode(roomName))
}

func roomCode(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "RM"
	}
	return b.String()
}
