package stay

import (
	"net/http"
	"strconv"
	"strings"
	"time"

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

// RegisterRoutes mounts the stay endpoints; writeMW wraps the non-idempotent writes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	stays := rg.Group("/stays")
	{
		stays.POST("/hourly", with(writeMW, h.CreateHourly)...)
		stays.POST("/nightly", with(writeMW, h.CreateNightly)...)
		stays.POST("/extended", with(writeMW, h.CreateExtended)...)
		stays.POST("/:id/checkout", with(writeMW, h.Checkout)...)

		stays.GET("", h.List)
		stays.GET("/:id", h.Get)
		stays.GET("/receipt/:receipt", h.GetByReceipt)
	}
}

func (h *Handler) checkIn(t *time.Time) time.Time {
	if t == nil {
		return h.service.clock.Now()
	}
	return *t
}

// CreateHourly godoc
// @Summary Open an hourly stay
// @Tags stays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID that makes the request safe to retry"
// @Param request body CreateHourlyRequest true "Hourly stay"
// @Success 201 {object} StayResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /manager/stays/hourly [post]
func (h *Handler) CreateHourly(c *gin.Context) {
	var req CreateHourlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.service.CreateHourly(c.Request.Context(), c.GetInt64("manager_id"), HourlyInput{
		RoomID:        req.RoomID,
		Climate:       domain.ClimateVariant(strings.ToUpper(req.ClimateVariant)),
		CheckIn:       h.checkIn(req.CheckIn),
		DurationHours: req.DurationHours,
		Notes:         req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toStayResponse(s))
}

// CreateNightly godoc
// @Summary Open a nightly stay
// @Tags stays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID that makes the request safe to retry"
// @Param request body CreateNightlyRequest true "Nightly stay"
// @Success 201 {object} StayResponse
// @Router /manager/stays/nightly [post]
func (h *Handler) CreateNightly(c *gin.Context) {
	var req CreateNightlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.service.CreateNightly(c.Request.Context(), c.GetInt64("manager_id"), NightlyInput{
		RoomID:  req.RoomID,
		Climate: domain.ClimateVariant(strings.ToUpper(req.ClimateVariant)),
		CheckIn: h.checkIn(req.CheckIn),
		Notes:   req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toStayResponse(s))
}

// CreateExtended godoc
// @Summary Open an extended stay with client identification
// @Tags stays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID that makes the request safe to retry"
// @Param request body CreateExtendedRequest true "Extended stay"
// @Success 201 {object} StayResponse
// @Router /manager/stays/extended [post]
func (h *Handler) CreateExtended(c *gin.Context) {
	var req CreateExtendedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	client := req.Client.toDomain()
	client.IDType = domain.IDDocumentType(strings.ToUpper(string(client.IDType)))

	s, err := h.service.CreateExtended(c.Request.Context(), c.GetInt64("manager_id"), ExtendedInput{
		RoomID:   req.RoomID,
		Climate:  domain.ClimateVariant(strings.ToUpper(req.ClimateVariant)),
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Client:   client,
		Notes:    req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toStayResponse(s))
}

// Checkout godoc
// @Summary Settle an active stay
// @Tags stays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stay ID"
// @Param request body CheckoutRequest false "Settlement"
// @Success 200 {object} StayResponse
// @Failure 409 {object} map[string]interface{}
// @Router /manager/stays/{id}/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	s, err := h.service.Checkout(c.Request.Context(), c.GetInt64("manager_id"), CheckoutInput{
		StayID:            id,
		ActualCheckOut:    req.ActualCheckOut,
		AdditionalCharges: req.AdditionalCharges,
		Notes:             req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toStayResponse(s))
}

// List godoc
// @Summary List stays
// @Tags stays
// @Produce json
// @Security BearerAuth
// @Param status query string false "ACTIVE, COMPLETED, EXTENDED, EXPIRED"
// @Param mode query string false "HOURLY, NIGHTLY, EXTENDED"
// @Param room_id query int false "Room ID"
// @Param from query string false "RFC3339 lower bound of check-in"
// @Param to query string false "RFC3339 upper bound of check-in"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} StayListResponse
// @Router /manager/stays [get]
func (h *Handler) List(c *gin.Context) {
	var q ListStaysQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	f := repository.StayFilter{
		Status:  domain.StayStatus(strings.ToUpper(q.Status)),
		Mode:    domain.StayMode(strings.ToUpper(q.Mode)),
		RoomID:  q.RoomID,
		From:    q.From,
		To:      q.To,
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := StayListResponse{
		Items: make([]StayResponse, 0, len(items)),
		Total: total,
	}
	out.Page, out.PerPage = repository.NormalizePage(q.Page, q.PerPage)
	for i := range items {
		out.Items = append(out.Items, toStayResponse(&items[i]))
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toStayResponse(s))
}

func (h *Handler) GetByReceipt(c *gin.Context) {
	s, err := h.service.GetByReceipt(c.Request.Context(), strings.TrimSpace(c.Param("receipt")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toStayResponse(s))
}

func with(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid stay ID")
		return 0, false
	}
	return id, true
}
