package stay

import (
	"strings"
	"time"

	"hotelstay/internal/domain"
	"hotelstay/internal/modules/rates"
	"hotelstay/internal/pkg/errs"
)

type CheckoutInput struct {
	StayID            int64
	ActualCheckOut    *time.Time
	AdditionalCharges float64
	Notes             string
}

type Settlement struct {
	Stay              *domain.Stay
	AmountBefore      float64
	OvertimeMinutes   int
	OvertimeCharge    float64
	AdditionalCharges float64
}

// Settle closes an ACTIVE stay. Only hourly stays accrue overtime, billed
// per started hour at the applied rate; such a stay ends EXTENDED instead
// of COMPLETED. A checkout before the scheduled check-in releases a booking
// that never started and keeps its booked amount.
func Settle(s domain.Stay, actual time.Time, additional float64, notes string, now time.Time) (*Settlement, error) {
	if !s.IsActive() {
		return nil, errs.Conflict("stay already settled")
	}
	if additional < 0 {
		return nil, errs.Validation("additional_charges", "must not be negative")
	}

	out := &Settlement{
		AmountBefore:      s.TotalAmount,
		AdditionalCharges: additional,
	}

	status := domain.StayCompleted
	if s.Mode == domain.StayHourly && actual.After(s.ScheduledCheckOut) {
		over := actual.Sub(s.ScheduledCheckOut)
		minutes := int(over / time.Minute)
		if over%time.Minute != 0 {
			minutes++
		}
		hours := (minutes + 59) / 60
		charge := rates.RoundMoney(s.RateApplied * float64(hours))

		out.OvertimeMinutes = minutes
		out.OvertimeCharge = charge
		s.OvertimeMinutes = &minutes
		s.OvertimeCharge = &charge
		status = domain.StayExtendedStatus
	}

	s.TotalAmount = rates.RoundMoney(s.TotalAmount + out.OvertimeCharge + additional)
	s.Status = status
	s.ActualCheckOut = &actual
	s.PaymentReceived = true
	s.UpdatedAt = now
	if n := strings.TrimSpace(notes); n != "" {
		if s.Notes == "" {
			s.Notes = n
		} else {
			s.Notes = s.Notes + "\n" + n
		}
	}

	out.Stay = &s
	return out, nil
}
