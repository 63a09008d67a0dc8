package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeSuccess          = "success"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeError            = "error"
)

// Collector exposes calibration and analysis metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	SamplesIngested  prometheus.Counter
	Recommendations  *prometheus.CounterVec
}

// NewCollector registers the metrics against reg (the default registerer when nil)
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	analyses, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etell_analyses_total",
		Help: "Analysis runs by analyzer and outcome.",
	}, []string{"analyzer", "outcome"}), "etell_analyses_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "etell_analysis_duration_seconds",
		Help:    "Duration of analysis runs, storage included.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"analyzer"}), "etell_analysis_duration_seconds")
	if err != nil {
		return nil, err
	}

	samples, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "etell_samples_ingested_total",
		Help: "Calibration samples accepted.",
	}), "etell_samples_ingested_total")
	if err != nil {
		return nil, err
	}

	recs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etell_recommendations_total",
		Help: "Recommendations emitted by kind.",
	}, []string{"kind"}), "etell_recommendations_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		AnalysesTotal:    analyses,
		AnalysisDuration: duration,
		SamplesIngested:  samples,
		Recommendations:  recs,
	}, nil
}

// Handler serves the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one analysis run
func (c *Collector) ObserveAnalysis(analyzer, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.AnalysesTotal.WithLabelValues(analyzer, outcome).Inc()
	c.AnalysisDuration.WithLabelValues(analyzer).Observe(d.Seconds())
}

// IncSamples counts an accepted sample
func (c *Collector) IncSamples() {
	if c == nil {
		return
	}
	c.SamplesIngested.Inc()
}

// AddRecommendations counts n recommendations of a kind (router, extender)
func (c *Collector) AddRecommendations(kind string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.Recommendations.WithLabelValues(kind).Add(float64(n))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
