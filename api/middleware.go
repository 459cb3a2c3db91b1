package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"AcctEventSQL/api/constants"
	"AcctEventSQL/internal/logger"
)

type contextKey string

const RequestIDKey contextKey = "requestID"

// RequestIDFromCtx returns the id assigned by AuditMiddleware, or "".
func RequestIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

// responseWriter wraps http.ResponseWriter to capture the status code and
// the size of the response.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// AuditMiddleware tags every request with an id and writes one audit line
// when it completes.
func AuditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(constants.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestIDKey, id)

		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		entry := logger.L().WithFields(map[string]interface{}{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"client":     extractClientIP(r),
			"status":     rw.statusCode,
			"bytes":      rw.bytes,
			"elapsed":    time.Since(start).String(),
		})
		if rw.statusCode >= 400 {
			entry.Warn("[Accounting] request failed")
		} else {
			entry.Info("[Accounting] request served")
		}
		logger.Audit(fmt.Sprintf("[Accounting] %s %s from %s status %d", r.Method, r.URL.Path, extractClientIP(r), rw.statusCode))
	})
}

// BodyLimitMiddleware caps request bodies at maxMB megabytes.
func BodyLimitMiddleware(maxMB int) func(http.Handler) http.Handler {
	limit := int64(maxMB) << 20
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 {
				if r.ContentLength > limit {
					RespondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(constants.ErrBodyTooLarge, maxMB))
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler answers unknown routes in the JSON envelope.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Audit("[Accounting] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)")
		RespondWithError(w, http.StatusNotFound, constants.ErrRouteNotFound)
	})
}
