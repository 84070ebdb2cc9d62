package rooms

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelstay/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/rooms")
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.PATCH("/:id", h.Update)
		g.DELETE("/:id", h.Deactivate)
	}
}

// List godoc
// @Summary List rooms
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include deactivated rooms"
// @Success 200 {array} domain.Room
// @Router /admin/rooms [get]
func (h *Handler) List(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
	rooms, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

// Create godoc
// @Summary Register a room
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRoomRequest true "Room"
// @Success 201 {object} domain.Room
// @Failure 409 {object} map[string]interface{}
// @Router /admin/rooms [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	room, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, room)
}

// Update godoc
// @Summary Update a room
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param request body UpdateRoomRequest true "Changes"
// @Success 200 {object} domain.Room
// @Router /admin/rooms/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	room, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

// Deactivate godoc
// @Summary Deactivate a room
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/rooms/{id} [delete]
func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Room deactivated"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return 0, false
	}
	return id, true
}
