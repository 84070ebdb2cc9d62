package activity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/response"
	"hotelstay/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.List)
}

type ListQuery struct {
	StayID    int64  `form:"stay_id"`
	ManagerID int64  `form:"manager_id"`
	Action    string `form:"action"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

type ListResponse struct {
	Items   []domain.ActivityLogEntry `json:"items"`
	Total   int64                     `json:"total"`
	Page    int                       `json:"page"`
	PerPage int                       `json:"per_page"`
}

// List godoc
// @Summary Activity log entries, newest first
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param stay_id query int false "Stay ID"
// @Param manager_id query int false "Manager ID"
// @Param action query string false "CREATE or CHECK_OUT"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /manager/activity [get]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), repository.ActivityFilter{
		StayID:    q.StayID,
		ManagerID: q.ManagerID,
		Action:    domain.ActivityAction(strings.ToUpper(q.Action)),
		Page:      q.Page,
		PerPage:   q.PerPage,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := ListResponse{Items: items, Total: total}
	if out.Items == nil {
		out.Items = []domain.ActivityLogEntry{}
	}
	out.Page, out.PerPage = repository.NormalizePage(q.Page, q.PerPage)
	response.Success(c, http.StatusOK, out)
}
