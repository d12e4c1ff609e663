package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"productdash/internal/pkg/errors"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Stats counts served requests by status class.
type Stats struct {
	Requests    atomic.Int64
	ClientError atomic.Int64
	ServerError atomic.Int64
}

// AccessLog writes one zerolog line per request and updates stats when non-nil.
func AccessLog(stats *Stats) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			var ev *zerolog.Event
			switch {
			case rec.status >= 500:
				ev = log.Error()
			case rec.status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}

			path := r.URL.Path
			if q := r.URL.RawQuery; q != "" {
				path += "?" + q
			}
			ev.Str("request_id", GetRequestID(r)).
				Str("method", r.Method).
				Str("path", path).
				Int("status", rec.status).
				Dur("latency", time.Since(start)).
				Int("bytes", rec.bytes).
				Str("remote_addr", r.RemoteAddr).
				Msg("http_request")

			if stats != nil {
				stats.Requests.Add(1)
				switch {
				case rec.status >= 500:
					stats.ServerError.Add(1)
				case rec.status >= 400:
					stats.ClientError.Add(1)
				}
			}
		})
	}
}

// Recover turns a panic into a logged 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", GetRequestID(r)).
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("panic_recovered")
				errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
