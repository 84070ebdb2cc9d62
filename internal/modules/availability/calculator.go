package availability

import (
	"time"

	"hotelstay/internal/domain"
)

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusOccupied  Status = "OCCUPIED"
	StatusCleaning  Status = "CLEANING"
)

type Result struct {
	Status           Status     `json:"status"`
	AvailableAt      *time.Time `json:"available_at,omitempty"`
	MinutesRemaining int        `json:"minutes_remaining,omitempty"`
}

// Calculate derives a room's status from its ACTIVE stay at now.
// A nil or settled stay leaves the room AVAILABLE.
func Calculate(active *domain.Stay, now time.Time, margin time.Duration) Result {
	if active == nil || !active.IsActive() {
		return Result{Status: StatusAvailable}
	}

	checkOut := active.ScheduledCheckOut
	ready := checkOut.Add(margin)

	switch {
	case now.Before(checkOut):
		return Result{Status: StatusOccupied, AvailableAt: &ready}
	case now.Before(ready):
		return Result{
			Status:           StatusCleaning,
			AvailableAt:      &ready,
			MinutesRemaining: ceilMinutes(ready.Sub(now)),
		}
	default:
		return Result{Status: StatusAvailable}
	}
}

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
