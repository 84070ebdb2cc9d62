package rooms

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	RoomType string `json:"room_type" binding:"required"`
	Climate  string `json:"climate" binding:"required"`
}

// UpdateRoomRequest changes only the fields that are present.
type UpdateRoomRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	RoomType *string `json:"room_type"`
	Climate  *string `json:"climate"`
	IsActive *bool   `json:"is_active"`
}
