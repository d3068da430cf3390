package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/logger"
	"contacts_backend/pkg/apperrors"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HeaderRequestID   = "X-Request-ID"
	HeaderProcessTime = "X-Process-Time"
)

// RequestIDMiddleware tags the request with an id (reusing a client-sent
// X-Request-ID) and reports the handling time in X-Process-Time.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)

		// Headers must be set before the body is written.
		tw := &timingWriter{ResponseWriter: c.Writer, start: start}
		c.Writer = tw
		c.Next()

		// Bodyless responses (c.Status) are flushed by gin after the chain.
		if !tw.Written() {
			tw.stamp()
		}
	}
}

type timingWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *timingWriter) stamp() {
	if w.stamped {
		return
	}
	w.stamped = true
	w.Header().Set(HeaderProcessTime, fmt.Sprintf("%.6f", time.Since(w.start).Seconds()))
}

func (w *timingWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timingWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log := logger.FromContext(c.Request.Context())
		fields := []any{
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", duration),
			slog.Int("size_bytes", c.Writer.Size()),
		}
		if userID := logger.GetUserID(c.Request.Context()); userID != "" {
			fields = append(fields, slog.String("user_id", userID))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("HTTP Server Error", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("HTTP Client Error", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}
	}
}

// DBSessionMiddleware opens one transaction per request and stores it under
// contextkeys.DBContextKey. The session ends when the response starts: it
// commits unless the handler recorded a server-side error, and a failed
// commit replaces the handler's response with a 500. A panic rolls back.
// Work queued with database.AfterCommit runs only after a successful commit.
func DBSessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	dbKey := string(contextkeys.DBContextKey)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tx := db.WithContext(ctx).Begin()
		if tx.Error != nil {
			logger.CtxWithError(ctx, "failed to open db session", tx.Error)
			apperrors.HandleError(c, apperrors.ErrDatabaseUnavailable.WithError(tx.Error))
			return
		}

		ctx, hooks := database.WithCommitHooks(ctx)
		c.Request = c.Request.WithContext(ctx)

		closed := false
		rollback := func() {
			closed = true
			hooks.Discard()
			if err := tx.Rollback().Error; err != nil {
				logger.CtxWithError(ctx, "db rollback failed", err)
			}
		}
		sw := &sessionWriter{ResponseWriter: c.Writer}
		defer func() {
			if !closed {
				rollback()
			}
			// Recovery writes its 500 after the session is already gone.
			sw.ended = true
		}()

		sw.end = func() error {
			if hasServerError(c) {
				logger.CtxDebug(ctx, "rolling back db session", "status", sw.Status())
				rollback()
				return nil
			}
			closed = true
			if err := tx.Commit().Error; err != nil {
				hooks.Discard()
				logger.CtxWithError(ctx, "db commit failed", err)
				_ = c.Error(apperrors.ErrDatabaseUnavailable.WithError(err))
				return err
			}
			hooks.Run()
			return nil
		}

		c.Writer = sw
		c.Set(dbKey, tx)
		c.Next()

		// Bodyless responses (c.Status) never reach the writer inside the chain.
		sw.finish()
	}
}

// sessionWriter ends the DB session right before the first byte of the
// response goes out, so the client never sees a success that was not
// committed.
type sessionWriter struct {
	gin.ResponseWriter
	end     func() error
	ended   bool
	discard bool
}

func (w *sessionWriter) finish() {
	if w.ended {
		return
	}
	w.ended = true
	if err := w.end(); err == nil {
		return
	}

	body, _ := json.Marshal(apperrors.ErrDatabaseUnavailable)
	h := w.ResponseWriter.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "application/json; charset=utf-8")
	w.ResponseWriter.WriteHeader(http.StatusInternalServerError)
	_, _ = w.ResponseWriter.Write(body)
	w.discard = true
}

func (w *sessionWriter) WriteHeaderNow() {
	w.finish()
	if !w.discard {
		w.ResponseWriter.WriteHeaderNow()
	}
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.finish()
	if w.discard {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.finish()
	if w.discard {
		return len(s), nil
	}
	return w.ResponseWriter.WriteString(s)
}

// hasServerError reports whether the handler chain recorded an error that
// should undo its writes.
func hasServerError(c *gin.Context) bool {
	for _, e := range c.Errors {
		appErr, ok := apperrors.AsAppError(e.Err)
		if !ok || appErr.HTTPCode >= 500 {
			return true
		}
	}
	return c.Writer.Status() >= 500
}
