package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	apiContext "productdash/internal/api/context"
)

const HeaderRequestID = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or assigns a new one, and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, rid)

		ctx := context.WithValue(r.Context(), apiContext.RequestID, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(r *http.Request) string {
	if rid, ok := r.Context().Value(apiContext.RequestID).(string); ok {
		return rid
	}
	return ""
}
