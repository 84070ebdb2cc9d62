package availability

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)
	rg.GET("/rooms/:id/availability", h.GetRoomAvailability)
}

// GetDashboard godoc
// @Summary Room board with derived statuses and today's totals
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Dashboard
// @Router /manager/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

// GetRoomAvailability godoc
// @Summary Derived availability of one room
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} RoomAvailability
// @Router /manager/rooms/{id}/availability [get]
func (h *Handler) GetRoomAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	ra, err := h.service.ForRoom(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ra)
}
