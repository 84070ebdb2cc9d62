// Package server assembles the gin engine: global middleware, the public
// and authenticated groups, and every module's routes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hotelstay/internal/domain"
	"hotelstay/internal/events"
	"hotelstay/internal/middleware"
	"hotelstay/internal/modules/activity"
	"hotelstay/internal/modules/auth"
	"hotelstay/internal/modules/availability"
	"hotelstay/internal/modules/rooms"
	"hotelstay/internal/modules/stay"
)

type Handlers struct {
	Auth         *auth.Handler
	Availability *availability.Handler
	Stays        *stay.Handler
	Activity     *activity.Handler
	Rooms        *rooms.Handler
	Board        *events.Hub
}

type Options struct {
	Logger         *slog.Logger
	Tokens         middleware.TokenValidator
	AllowedOrigins []string
	// Idempotency wraps stay creation and checkout; nil disables it.
	Idempotency gin.HandlerFunc
	Swagger     bool
}

func NewRouter(opts Options, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(opts.Logger),
		middleware.Recovery(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	engine.GET("/health", healthCheck)
	if opts.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := engine.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(opts.Tokens))

	h.Auth.RegisterRoutes(v1, protected)

	manager := protected.Group("/manager")
	manager.Use(middleware.RequireRole(domain.RoleManager, domain.RoleAdmin))
	{
		h.Availability.RegisterRoutes(manager)
		h.Activity.RegisterRoutes(manager)

		var writeMW []gin.HandlerFunc
		if opts.Idempotency != nil {
			writeMW = append(writeMW, opts.Idempotency)
		}
		h.Stays.RegisterRoutes(manager, writeMW...)

		if h.Board != nil {
			manager.GET("/board/ws", h.Board.ServeWS)
		}
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())
	h.Rooms.RegisterRoutes(admin)

	return engine
}

// healthCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
