package stay

import (
	"time"

	"github.com/jinzhu/copier"

	"hotelstay/internal/domain"
)

// CheckIn defaults to the current time when omitted.
type CreateHourlyRequest struct {
	RoomID         int64      `json:"room_id" binding:"required,gt=0"`
	ClimateVariant string     `json:"climate_variant" binding:"required"`
	CheckIn        *time.Time `json:"check_in"`
	DurationHours  int        `json:"duration_hours"`
	Notes          string     `json:"notes" binding:"max=1000"`
}

type CreateNightlyRequest struct {
	RoomID         int64      `json:"room_id" binding:"required,gt=0"`
	ClimateVariant string     `json:"climate_variant" binding:"required"`
	CheckIn        *time.Time `json:"check_in"`
	Notes          string     `json:"notes" binding:"max=1000"`
}

type ClientRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"required,max=30"`
	IDType    string `json:"id_type" binding:"required"`
	IDNumber  string `json:"id_number" binding:"required,max=50"`
}

type CreateExtendedRequest struct {
	RoomID         int64         `json:"room_id" binding:"required,gt=0"`
	ClimateVariant string        `json:"climate_variant" binding:"required"`
	CheckIn        time.Time     `json:"check_in" binding:"required"`
	CheckOut       time.Time     `json:"check_out" binding:"required"`
	Client         ClientRequest `json:"client" binding:"required"`
	Notes          string        `json:"notes" binding:"max=1000"`
}

type CheckoutRequest struct {
	ActualCheckOut    *time.Time `json:"actual_check_out"`
	AdditionalCharges float64    `json:"additional_charges"`
	Notes             string     `json:"notes" binding:"max=1000"`
}

type ListStaysQuery struct {
	Status  string     `form:"status"`
	Mode    string     `form:"mode"`
	RoomID  int64      `form:"room_id"`
	From    *time.Time `form:"from"`
	To      *time.Time `form:"to"`
	Page    int        `form:"page"`
	PerPage int        `form:"per_page"`
}

type StayResponse struct {
	ID                int64                 `json:"id"`
	RoomID            int64                 `json:"room_id"`
	RoomName          string                `json:"room_name,omitempty"`
	ManagerID         int64                 `json:"manager_id"`
	Mode              domain.StayMode       `json:"mode"`
	Climate           domain.ClimateVariant `json:"climate_variant"`
	Status            domain.StayStatus     `json:"status"`
	ScheduledCheckIn  time.Time             `json:"scheduled_check_in"`
	ScheduledCheckOut time.Time             `json:"scheduled_check_out"`
	ActualCheckOut    *time.Time            `json:"actual_check_out,omitempty"`
	Duration          int                   `json:"duration"`
	RateApplied       float64               `json:"rate_applied"`
	TotalAmount       float64               `json:"total_amount"`
	OvertimeMinutes   *int                  `json:"overtime_minutes,omitempty"`
	OvertimeCharge    *float64              `json:"overtime_charge,omitempty"`
	Client            *domain.ClientInfo    `json:"client,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	PaymentMethod     domain.PaymentMethod  `json:"payment_method"`
	PaymentReceived   bool                  `json:"payment_received"`
	ReceiptNumber     string                `json:"receipt_number"`
	IsExpired         bool                  `json:"is_expired"`
	CreatedAt         time.Time             `json:"created_at"`
}

type StayListResponse struct {
	Items   []StayResponse `json:"items"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

func toStayResponse(s *domain.Stay) StayResponse {
	var out StayResponse
	_ = copier.Copy(&out, s)
	if s.Room != nil {
		out.RoomName = s.Room.Name
	}
	return out
}

func (r ClientRequest) toDomain() domain.ClientInfo {
	return domain.ClientInfo{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		IDType:    domain.IDDocumentType(r.IDType),
		IDNumber:  r.IDNumber,
	}
}
