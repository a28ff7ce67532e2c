// Package metrics holds the Prometheus collectors exported by the ellone
// server.
package metrics

import (
	"errors"
	"net/http"

	"github.com/dekarrin/ellone/internal/llerrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics labels.
const (
	LblType   = "type"
	LblResult = "result"
	LblMethod = "method"
	LblStatus = "status"

	LabelAccepted = "accepted"
	LabelRejected = "rejected"

	LabelMalformed     = "malformed"
	LabelLeftRecursion = "left_recursion"
	LabelConflict      = "conflict"
	LabelBadInput      = "bad_input"

	LabelEndpoint = "endpoint"

	opSucc   = "ok"
	opFailed = "err"
)

var (
	// PanicCounter measures the count of panics recovered by HTTP endpoints.
	PanicCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ellone",
			Subsystem: "server",
			Name:      "panic_total",
			Help:      "Counter of panic.",
		}, []string{LblType})

	// HTTPResponseCounter counts responses by method and status code.
	HTTPResponseCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ellone",
			Subsystem: "server",
			Name:      "http_responses_total",
			Help:      "Counter of HTTP responses by method and status.",
		}, []string{LblMethod, LblStatus})

	// ParseCounter counts parse runs by result: accepted or rejected inputs,
	// or the kind of grammar error that stopped them.
	ParseCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ellone",
			Subsystem: "parser",
			Name:      "parse_total",
			Help:      "Counter of parse runs by result.",
		}, []string{LblResult})

	// AnalyzeDuration is the time taken to normalize a grammar and build its
	// table.
	AnalyzeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ellone",
			Subsystem: "parser",
			Name:      "analyze_duration_seconds",
			Help:      "Bucketed histogram of grammar analysis time (s).",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 20), // 10us ~ 5s
		}, []string{LblResult})

	// ParseSteps is the number of derivation steps taken per parse.
	ParseSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ellone",
			Subsystem: "parser",
			Name:      "parse_steps",
			Help:      "Bucketed histogram of derivation steps per parse.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16), // 1 ~ 32768
		})

	// StoreErrorCounter counts persistence failures seen by the service
	// layer.
	StoreErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ellone",
			Subsystem: "store",
			Name:      "error_total",
			Help:      "Counter of persistence errors by operation type.",
		}, []string{LblType})
)

// RetLabel returns "ok" when err == nil and "err" when err != nil.
func RetLabel(err error) string {
	if err == nil {
		return opSucc
	}
	return opFailed
}

// GrammarErrorToLabel gives the ParseCounter result label for an error
// returned while analyzing a grammar or parsing with it.
func GrammarErrorToLabel(err error) string {
	switch {
	case errors.Is(err, llerrors.ErrMalformedGrammar):
		return LabelMalformed
	case errors.Is(err, llerrors.ErrLeftRecursion):
		return LabelLeftRecursion
	case errors.Is(err, llerrors.ErrConflict):
		return LabelConflict
	case errors.Is(err, llerrors.ErrBadInput):
		return LabelBadInput
	default:
		return "unknown"
	}
}

// RegisterMetrics registers every ellone collector with reg. The same
// collectors may be registered with more than one registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(PanicCounter)
	reg.MustRegister(HTTPResponseCounter)
	reg.MustRegister(ParseCounter)
	reg.MustRegister(AnalyzeDuration)
	reg.MustRegister(ParseSteps)
	reg.MustRegister(StoreErrorCounter)
}

// Handler returns an http.Handler that serves the metrics gathered by g in
// the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
