package idempotency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelstay/internal/pkg/response"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
)

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware applies Idempotency-Key semantics to the wrapped route.
// Requests without the header pass through. Keys are scoped to the
// manager, method and path. A nil store disables the middleware.
func Middleware(store Store, ttl time.Duration) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderKey)
		if raw == "" {
			c.Next()
			return
		}
		if _, err := uuid.Parse(raw); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Idempotency-Key must be a UUID", gin.H{"field": HeaderKey})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		key := fmt.Sprintf("%d:%s:%s:%s", c.GetInt64("manager_id"), c.Request.Method, c.Request.URL.Path, raw)
		fp := fingerprint(body)

		existing, reserved, err := store.Reserve(ctx, key, fp, ttl)
		if err != nil {
			slog.WarnContext(ctx, "idempotency store unavailable, running request unguarded", "error", err)
			c.Next()
			return
		}

		if !reserved {
			replay(c, existing, fp)
			return
		}

		// A detached context lets the record land even if the client went away.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		release := func() {
			if err := store.Release(saveCtx, key); err != nil {
				slog.WarnContext(ctx, "release idempotency key failed", "error", err)
			}
		}

		// A panicking handler must not leave the key pending until it expires.
		defer func() {
			if r := recover(); r != nil {
				release()
				panic(r)
			}
		}()

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status >= http.StatusInternalServerError {
			release()
			return
		}
		err = store.Complete(saveCtx, key, Record{
			State:       StateCompleted,
			Fingerprint: fp,
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		}, ttl)
		if err != nil {
			slog.WarnContext(ctx, "store idempotent response failed", "error", err)
		}
	}
}

func replay(c *gin.Context, rec *Record, fp string) {
	switch {
	case rec.Fingerprint != fp:
		response.Error(c, http.StatusConflict, "IDEMPOTENCY_KEY_REUSED", "Idempotency-Key was already used with a different request")
	case rec.State != StateCompleted:
		response.Error(c, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "A request with this Idempotency-Key is still in progress")
	default:
		c.Header(HeaderReplayed, "true")
		contentType := rec.ContentType
		if contentType == "" {
			contentType = "application/json; charset=utf-8"
		}
		c.Data(rec.Status, contentType, rec.Body)
	}
	c.Abort()
}

func fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
