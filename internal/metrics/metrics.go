package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeCorrect     = "correct"
	OutcomeIncorrect   = "incorrect"
	OutcomeReplay      = "replay"
	OutcomeConflict    = "conflict"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeInFlight    = "in_flight"
	OutcomeError       = "error"

	OutcomeServed    = "served"
	OutcomeExhausted = "exhausted"
)

var (
	answersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brainbolt_answers_total",
			Help: "Answer submissions by outcome",
		},
		[]string{"outcome"},
	)

	nextItemTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brainbolt_next_item_total",
			Help: "Next-item selections by outcome",
		},
		[]string{"outcome"},
	)

	estimatorFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brainbolt_estimator_fallbacks_total",
			Help: "Score computations that fell back to the built-in formula after an estimator failure",
		},
	)

	submitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brainbolt_submit_duration_seconds",
			Help:    "Time spent processing answer submissions",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Recorder is the engine's view of the collectors; tests substitute Nop.
type Recorder interface {
	Answer(outcome string)
	NextItem(outcome string)
	EstimatorFallback()
	SubmitTimer() func()
}

type promRecorder struct{}

// Prometheus returns a Recorder backed by the process-wide collectors.
func Prometheus() Recorder { return promRecorder{} }

func (promRecorder) Answer(outcome string)   { answersTotal.WithLabelValues(outcome).Inc() }
func (promRecorder) NextItem(outcome string) { nextItemTotal.WithLabelValues(outcome).Inc() }
func (promRecorder) EstimatorFallback()      { estimatorFallbacks.Inc() }

func (promRecorder) SubmitTimer() func() {
	timer := prometheus.NewTimer(submitDuration)
	return func() { timer.ObserveDuration() }
}

type nopRecorder struct{}

func Nop() Recorder { return nopRecorder{} }

func (nopRecorder) Answer(string)       {}
func (nopRecorder) NextItem(string)     {}
func (nopRecorder) EstimatorFallback()  {}
func (nopRecorder) SubmitTimer() func() { return func() {} }

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
