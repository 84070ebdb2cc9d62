package availability

import (
	"time"

	"hotelstay/internal/domain"
)

type RoomAvailability struct {
	RoomID   int64                 `json:"room_id"`
	RoomName string                `json:"room_name"`
	RoomType domain.RoomType       `json:"room_type"`
	Climate  domain.ClimateVariant `json:"climate"`
	Result

	ActiveStayID      *int64     `json:"active_stay_id,omitempty"`
	ReceiptNumber     string     `json:"receipt_number,omitempty"`
	ScheduledCheckOut *time.Time `json:"scheduled_check_out,omitempty"`
}

type Summary struct {
	TotalRooms   int     `json:"total_rooms"`
	Available    int     `json:"available"`
	Occupied     int     `json:"occupied"`
	Cleaning     int     `json:"cleaning"`
	RevenueToday float64 `json:"revenue_today"`
}

type Dashboard struct {
	Rooms        []RoomAvailability `json:"rooms"`
	Summary      Summary            `json:"summary"`
	ExpiredStays int                `json:"expired_stays"`
	GeneratedAt  time.Time          `json:"generated_at"`
}
