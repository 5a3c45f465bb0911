package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var HttpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_http_requests_total",
}, []string{"action", "method"})
var HttpResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_http_responses_total",
}, []string{"action", "method", "statusCode"})
var HttpResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name: "media_editor_http_response_time_seconds",
}, []string{"action", "method"})
var TypeSwitches = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_type_switches_total",
}, []string{"kind"})
var EditorActivations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_activations_total",
}, []string{"editor"})
var ValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_validation_failures_total",
}, []string{"editor", "field"})
var FileDeletes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_file_deletes_total",
}, []string{"editor", "outcome"})
var WorkspaceDeletes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_workspace_deletes_total",
}, []string{"outcome"})
var ScenarioEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_scenario_events_total",
}, []string{"event", "handled"})
var CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_cache_hits_total",
}, []string{"cache"})
var CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_editor_cache_misses_total",
}, []string{"cache"})
var OpenSessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "media_editor_open_sessions",
})

func init() {
	prometheus.MustRegister(HttpRequests)
	prometheus.MustRegister(HttpResponses)
	prometheus.MustRegister(HttpResponseTime)
	prometheus.MustRegister(TypeSwitches)
	prometheus.MustRegister(EditorActivations)
	prometheus.MustRegister(ValidationFailures)
	prometheus.MustRegister(FileDeletes)
	prometheus.MustRegister(WorkspaceDeletes)
	prometheus.MustRegister(ScenarioEvents)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(OpenSessions)
}
