package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelstay/internal/pkg/errs"
	"hotelstay/internal/pkg/validator"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for a service error. Causes of internal
// failures are logged and never echoed to the client.
func FromError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	switch kind {
	case "VALIDATION_ERROR":
		if field := errs.Field(err); field != "" {
			ErrorWithDetails(c, http.StatusBadRequest, kind, errs.Message(err), gin.H{"field": field})
			return
		}
		Error(c, http.StatusBadRequest, kind, errs.Message(err))
	case "NOT_FOUND":
		Error(c, http.StatusNotFound, kind, errs.Message(err))
	case "CONFLICT":
		Error(c, http.StatusConflict, kind, errs.Message(err))
	case "UNAUTHORIZED":
		Error(c, http.StatusUnauthorized, kind, errs.Message(err))
	case "FORBIDDEN":
		Error(c, http.StatusForbidden, kind, errs.Message(err))
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed",
			"path", c.FullPath(),
			"kind", kind,
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, 12),
		)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// BindError reports a request that failed to decode or bind.
func BindError(c *gin.Context, err error) {
	if fields := validator.Fields(err); len(fields) > 0 {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}
