package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"media-editor/internal/metrics"
)

type ctxKey int

const logKey ctxKey = iota

// RequestLogger gives each request a logrus entry carrying a request id,
// echoed back in X-Request-Id.
func RequestLogger(base *logrus.Entry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set("X-Request-Id", id)

			entry := base.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), logKey, entry)))
		})
	}
}

// Log returns the request's logger.
func Log(r *http.Request) *logrus.Entry {
	if entry, ok := r.Context().Value(logKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Metrics counts requests and responses per named route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := actionName(r)
		metrics.HttpRequests.With(prometheus.Labels{"action": action, "method": r.Method}).Inc()

		m := httpsnoop.CaptureMetrics(next, w, r)

		metrics.HttpResponses.With(prometheus.Labels{
			"action":     action,
			"method":     r.Method,
			"statusCode": strconv.Itoa(m.Code),
		}).Inc()
		metrics.HttpResponseTime.With(prometheus.Labels{"action": action, "method": r.Method}).Observe(m.Duration.Seconds())
		Log(r).WithFields(logrus.Fields{"status": m.Code, "duration_ms": m.Duration.Milliseconds()}).Debug("Handled request")
	})
}

func actionName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if name := route.GetName(); name != "" {
			return name
		}
	}
	return "unknown"
}
