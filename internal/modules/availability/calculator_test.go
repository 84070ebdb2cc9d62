package availability

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"hotelstay/internal/domain"
)

const margin = 10 * time.Minute

var checkOut = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func activeStay() *domain.Stay {
	return &domain.Stay{
		ID:                1,
		Status:            domain.StayActive,
		ScheduledCheckIn:  checkOut.Add(-2 * time.Hour),
		ScheduledCheckOut: checkOut,
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestCalculate(t *testing.T) {
	ready := checkOut.Add(margin)

	tests := []struct {
		name   string
		stay   *domain.Stay
		now    time.Time
		expect Result
	}{
		{
			name:   "no stay",
			stay:   nil,
			now:    checkOut,
			expect: Result{Status: StatusAvailable},
		},
		{
			name:   "before checkout",
			stay:   activeStay(),
			now:    checkOut.Add(-time.Minute),
			expect: Result{Status: StatusOccupied, AvailableAt: ptr(ready)},
		},
		{
			name:   "exactly at checkout",
			stay:   activeStay(),
			now:    checkOut,
			expect: Result{Status: StatusCleaning, AvailableAt: ptr(ready), MinutesRemaining: 10},
		},
		{
			name:   "five minutes into cleaning",
			stay:   activeStay(),
			now:    checkOut.Add(5 * time.Minute),
			expect: Result{Status: StatusCleaning, AvailableAt: ptr(ready), MinutesRemaining: 5},
		},
		{
			name:   "partial minute rounds up",
			stay:   activeStay(),
			now:    checkOut.Add(9*time.Minute + 30*time.Second),
			expect: Result{Status: StatusCleaning, AvailableAt: ptr(ready), MinutesRemaining: 1},
		},
		{
			name:   "exactly at end of cleaning",
			stay:   activeStay(),
			now:    ready,
			expect: Result{Status: StatusAvailable},
		},
		{
			name:   "after cleaning",
			stay:   activeStay(),
			now:    checkOut.Add(11 * time.Minute),
			expect: Result{Status: StatusAvailable},
		},
		{
			name: "settled stay is ignored",
			stay: func() *domain.Stay {
				s := activeStay()
				s.Status = domain.StayCompleted
				return s
			}(),
			now:    checkOut.Add(-time.Hour),
			expect: Result{Status: StatusAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.stay, tt.now, margin)
			if diff := cmp.Diff(tt.expect, got); diff != "" {
				t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculate_IsIdempotent(t *testing.T) {
	stay := activeStay()
	now := checkOut.Add(3 * time.Minute)

	first := Calculate(stay, now, margin)
	second := Calculate(stay, now, margin)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.StayActive, stay.Status)
}

func TestCalculate_ZeroMargin(t *testing.T) {
	got := Calculate(activeStay(), checkOut, 0)
	assert.Equal(t, StatusAvailable, got.Status)
}
