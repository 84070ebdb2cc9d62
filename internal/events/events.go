// Package events carries stay lifecycle notifications to the message
// broker and to connected dashboards. Publication happens after commit and
// is best effort: a failed publish never undoes a stay change.
package events

import (
	"context"
	"errors"
	"time"

	"hotelstay/internal/domain"
)

type Type string

const (
	StayCreated    Type = "stay.created"
	StayCheckedOut Type = "stay.checked_out"
	StayExpired    Type = "stay.expired"
)

type StayEvent struct {
	Type              Type              `json:"type"`
	StayID            int64             `json:"stay_id"`
	RoomID            int64             `json:"room_id"`
	RoomName          string            `json:"room_name,omitempty"`
	Mode              domain.StayMode   `json:"mode"`
	Status            domain.StayStatus `json:"status"`
	ReceiptNumber     string            `json:"receipt_number"`
	TotalAmount       float64           `json:"total_amount"`
	ScheduledCheckOut time.Time         `json:"scheduled_check_out"`
	ActualCheckOut    *time.Time        `json:"actual_check_out,omitempty"`
	ManagerID         int64             `json:"manager_id,omitempty"`
	OccurredAt        time.Time         `json:"occurred_at"`
}

func NewStayEvent(t Type, s *domain.Stay, at time.Time) StayEvent {
	ev := StayEvent{
		Type:              t,
		StayID:            s.ID,
		RoomID:            s.RoomID,
		Mode:              s.Mode,
		Status:            s.Status,
		ReceiptNumber:     s.ReceiptNumber,
		TotalAmount:       s.TotalAmount,
		ScheduledCheckOut: s.ScheduledCheckOut,
		ActualCheckOut:    s.ActualCheckOut,
		ManagerID:         s.ManagerID,
		OccurredAt:        at,
	}
	if s.Room != nil {
		ev.RoomName = s.Room.Name
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev StayEvent) error
}

type Noop struct{}

func (Noop) Publish(context.Context, StayEvent) error { return nil }

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev StayEvent) error {
	var all []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}
