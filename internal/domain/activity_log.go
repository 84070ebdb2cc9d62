package domain

import (
	"encoding/json"
	"time"
)

type ActivityAction string

const (
	ActionCreate   ActivityAction = "CREATE"
	ActionCheckOut ActivityAction = "CHECK_OUT"
)

// ActivityLogEntry is append-only.
type ActivityLogEntry struct {
	ID          int64           `json:"id"`
	Action      ActivityAction  `json:"action"`
	Description string          `json:"description"`
	Details     json.RawMessage `json:"details,omitempty"`
	ManagerID   int64           `json:"manager_id"`
	StayID      int64           `json:"stay_id"`
	CreatedAt   time.Time       `json:"created_at"`
}
