package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelstay/internal/pkg/errs"
	"hotelstay/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts login on public and the profile on protected.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	protected.GET("/auth/me", h.Me)
}

// Login godoc
// @Summary Manager login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errs.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		Manager: toPublic(res.Manager),
		Token:   res.AccessToken,
	})
}

// Me godoc
// @Summary Current manager
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ManagerPublic
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	mgr, err := h.service.Me(c.Request.Context(), c.GetInt64("manager_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPublic(mgr))
}
