package repository

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/errs"
)

type roomModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:100;not null;uniqueIndex:idx_rooms_name"`
	RoomType  string    `gorm:"column:room_type;size:20;not null"`
	Climate   string    `gorm:"column:climate;size:20;not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

type stayModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	RoomID            int64      `gorm:"column:room_id;not null;index:idx_stays_room_status,priority:1"`
	ManagerID         int64      `gorm:"column:manager_id;not null;index"`
	Mode              string     `gorm:"column:mode;size:20;not null"`
	Climate           string     `gorm:"column:climate;size:20;not null"`
	Status            string     `gorm:"column:status;size:20;not null;index:idx_stays_room_status,priority:2"`
	ScheduledCheckIn  time.Time  `gorm:"column:scheduled_check_in;not null;index"`
	ScheduledCheckOut time.Time  `gorm:"column:scheduled_check_out;not null"`
	ActualCheckOut    *time.Time `gorm:"column:actual_check_out"`
	Duration          int        `gorm:"column:duration;not null"`
	RateApplied       float64    `gorm:"column:rate_applied;not null"`
	TotalAmount       float64    `gorm:"column:total_amount;not null"`
	OvertimeMinutes   *int       `gorm:"column:overtime_minutes"`
	OvertimeCharge    *float64   `gorm:"column:overtime_charge"`
	ClientFirstName   *string    `gorm:"column:client_first_name;size:100"`
	ClientLastName    *string    `gorm:"column:client_last_name;size:100"`
	ClientPhone       *string    `gorm:"column:client_phone;size:30"`
	ClientIDType      *string    `gorm:"column:client_id_type;size:20"`
	ClientIDNumber    *string    `gorm:"column:client_id_number;size:50"`
	Notes             string     `gorm:"column:notes;type:text"`
	PaymentMethod     string     `gorm:"column:payment_method;size:20;not null"`
	PaymentReceived   bool       `gorm:"column:payment_received;not null"`
	ReceiptNumber     string     `gorm:"column:receipt_number;size:64;not null;uniqueIndex:idx_stays_receipt_number"`
	IsExpired         bool       `gorm:"column:is_expired;not null"`
	CreatedAt         time.Time  `gorm:"column:created_at;index"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`

	Room *roomModel `gorm:"foreignKey:RoomID"`
}

func (stayModel) TableName() string { return "stays" }

type activityModel struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	Action      string         `gorm:"column:action;size:20;not null;index"`
	Description string         `gorm:"column:description;type:text;not null"`
	Details     datatypes.JSON `gorm:"column:details"`
	ManagerID   int64          `gorm:"column:manager_id;not null;index"`
	StayID      int64          `gorm:"column:stay_id;not null;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
}

func (activityModel) TableName() string { return "activity_log" }

type managerModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex:idx_managers_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Name         string    `gorm:"column:name;size:255;not null"`
	Role         string    `gorm:"column:role;size:20;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (managerModel) TableName() string { return "managers" }

const activeStayIndex = "idx_one_active_stay_per_room"

// AutoMigrate creates the schema and the partial index that allows at most
// one ACTIVE stay per room. mysql has no partial indexes and relies on the
// room row lock alone.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&managerModel{}, &roomModel{}, &stayModel{}, &activityModel{}); err != nil {
		return errs.Persistence(err, "auto migrate")
	}

	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + activeStayIndex +
			" ON stays (room_id) WHERE status = 'ACTIVE'").Error
		if err != nil {
			return errs.Persistence(err, "create "+activeStayIndex)
		}
	}
	return nil
}

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:        m.ID,
		Name:      m.Name,
		RoomType:  domain.RoomType(m.RoomType),
		Climate:   domain.ClimateVariant(m.Climate),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:        r.ID,
		Name:      r.Name,
		RoomType:  string(r.RoomType),
		Climate:   string(r.Climate),
		IsActive:  r.IsActive,
		CreatedAt: utc(r.CreatedAt),
		UpdatedAt: utc(r.UpdatedAt),
	}
}

func toDomainStay(m stayModel) *domain.Stay {
	s := &domain.Stay{
		ID:                m.ID,
		RoomID:            m.RoomID,
		ManagerID:         m.ManagerID,
		Mode:              domain.StayMode(m.Mode),
		Climate:           domain.ClimateVariant(m.Climate),
		Status:            domain.StayStatus(m.Status),
		ScheduledCheckIn:  m.ScheduledCheckIn,
		ScheduledCheckOut: m.ScheduledCheckOut,
		ActualCheckOut:    m.ActualCheckOut,
		Duration:          m.Duration,
		RateApplied:       m.RateApplied,
		TotalAmount:       m.TotalAmount,
		OvertimeMinutes:   m.OvertimeMinutes,
		OvertimeCharge:    m.OvertimeCharge,
		Notes:             m.Notes,
		PaymentMethod:     domain.PaymentMethod(m.PaymentMethod),
		PaymentReceived:   m.PaymentReceived,
		ReceiptNumber:     m.ReceiptNumber,
		IsExpired:         m.IsExpired,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.ClientFirstName != nil {
		s.Client = &domain.ClientInfo{
			FirstName: deref(m.ClientFirstName),
			LastName:  deref(m.ClientLastName),
			Phone:     deref(m.ClientPhone),
			IDType:    domain.IDDocumentType(deref(m.ClientIDType)),
			IDNumber:  deref(m.ClientIDNumber),
		}
	}
	if m.Room != nil {
		s.Room = toDomainRoom(*m.Room)
	}
	return s
}

func toStayModel(s *domain.Stay) stayModel {
	m := stayModel{
		ID:                s.ID,
		RoomID:            s.RoomID,
		ManagerID:         s.ManagerID,
		Mode:              string(s.Mode),
		Climate:           string(s.Climate),
		Status:            string(s.Status),
		ScheduledCheckIn:  utc(s.ScheduledCheckIn),
		ScheduledCheckOut: utc(s.ScheduledCheckOut),
		ActualCheckOut:    utcPtr(s.ActualCheckOut),
		Duration:          s.Duration,
		RateApplied:       s.RateApplied,
		TotalAmount:       s.TotalAmount,
		OvertimeMinutes:   s.OvertimeMinutes,
		OvertimeCharge:    s.OvertimeCharge,
		Notes:             s.Notes,
		PaymentMethod:     string(s.PaymentMethod),
		PaymentReceived:   s.PaymentReceived,
		ReceiptNumber:     s.ReceiptNumber,
		IsExpired:         s.IsExpired,
		CreatedAt:         utc(s.CreatedAt),
		UpdatedAt:         utc(s.UpdatedAt),
	}
	if c := s.Client; c != nil {
		idType := string(c.IDType)
		m.ClientFirstName = &c.FirstName
		m.ClientLastName = &c.LastName
		m.ClientPhone = &c.Phone
		m.ClientIDType = &idType
		m.ClientIDNumber = &c.IDNumber
	}
	return m
}

func toDomainActivity(m activityModel) *domain.ActivityLogEntry {
	return &domain.ActivityLogEntry{
		ID:          m.ID,
		Action:      domain.ActivityAction(m.Action),
		Description: m.Description,
		Details:     []byte(m.Details),
		ManagerID:   m.ManagerID,
		StayID:      m.StayID,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainManager(m managerModel) *domain.Manager {
	return &domain.Manager{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         domain.ManagerRole(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// utc keeps stored timestamps comparable as text on sqlite.
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
