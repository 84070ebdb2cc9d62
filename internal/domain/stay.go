package domain

import "time"

type StayMode string

const (
	StayHourly   StayMode = "HOURLY"
	StayNightly  StayMode = "NIGHTLY"
	StayExtended StayMode = "EXTENDED"
)

func (m StayMode) IsValid() bool {
	return m == StayHourly || m == StayNightly || m == StayExtended
}

type StayStatus string

const (
	StayActive    StayStatus = "ACTIVE"
	StayCompleted StayStatus = "COMPLETED"
	StayExpired   StayStatus = "EXPIRED"
	// StayExtendedStatus marks a settled stay that was billed overtime.
	StayExtendedStatus StayStatus = "EXTENDED"
)

func (s StayStatus) IsValid() bool {
	switch s {
	case StayActive, StayCompleted, StayExpired, StayExtendedStatus:
		return true
	}
	return false
}

type IDDocumentType string

const (
	IDNational      IDDocumentType = "NATIONAL_ID"
	IDPassport      IDDocumentType = "PASSPORT"
	IDDriverLicense IDDocumentType = "DRIVER_LICENSE"
)

func (t IDDocumentType) IsValid() bool {
	return t == IDNational || t == IDPassport || t == IDDriverLicense
}

type PaymentMethod string

const PaymentCash PaymentMethod = "CASH"

// ClientInfo is collected for extended stays only.
type ClientInfo struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Phone     string         `json:"phone"`
	IDType    IDDocumentType `json:"id_type"`
	IDNumber  string         `json:"id_number"`
}

type Stay struct {
	ID                int64          `json:"id"`
	RoomID            int64          `json:"room_id"`
	ManagerID         int64          `json:"manager_id"`
	Mode              StayMode       `json:"mode"`
	Climate           ClimateVariant `json:"climate"`
	Status            StayStatus     `json:"status"`
	ScheduledCheckIn  time.Time      `json:"scheduled_check_in"`
	ScheduledCheckOut time.Time      `json:"scheduled_check_out"`
	ActualCheckOut    *time.Time     `json:"actual_check_out,omitempty"`
	// Duration is hours for HOURLY, nights for NIGHTLY and days for EXTENDED.
	Duration        int           `json:"duration"`
	RateApplied     float64       `json:"rate_applied"`
	TotalAmount     float64       `json:"total_amount"`
	OvertimeMinutes *int          `json:"overtime_minutes,omitempty"`
	OvertimeCharge  *float64      `json:"overtime_charge,omitempty"`
	Client          *ClientInfo   `json:"client,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentReceived bool          `json:"payment_received"`
	ReceiptNumber   string        `json:"receipt_number"`
	IsExpired       bool          `json:"is_expired"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Room *Room `json:"room,omitempty"`
}

func (s *Stay) IsActive() bool {
	return s.Status == StayActive
}
