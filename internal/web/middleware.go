// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"html/template"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestLogger logs one line per request with its id, status and latency.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

var templateFuncs = template.FuncMap{
	"ms":     func(d time.Duration) int64 { return d.Milliseconds() },
	"easing": cssEasing,
}

// easings maps the animation names accepted in config onto CSS timing
// functions.
var easings = map[string]template.CSS{
	"linear":         "linear",
	"ease":           "ease",
	"ease-in":        "ease-in",
	"ease-out":       "ease-out",
	"ease-in-out":    "ease-in-out",
	"ease-in-sine":   "cubic-bezier(0.12, 0, 0.39, 0)",
	"ease-out-sine":  "cubic-bezier(0.61, 1, 0.88, 1)",
	"ease-in-quad":   "cubic-bezier(0.11, 0, 0.5, 0)",
	"ease-out-quad":  "cubic-bezier(0.5, 1, 0.89, 1)",
	"ease-out-back":  "cubic-bezier(0.34, 1.56, 0.64, 1)",
	"ease-in-cubic":  "cubic-bezier(0.32, 0, 0.67, 0)",
	"ease-out-cubic": "cubic-bezier(0.33, 1, 0.68, 1)",
}

func cssEasing(name string) template.CSS {
	if e, ok := easings[name]; ok {
		return e
	}
	return "ease"
}
