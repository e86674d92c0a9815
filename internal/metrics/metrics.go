package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics agrupa las metricas Prometheus del servicio.
// Todos los metodos aceptan receptor nil para que los tests no registren nada.
type Metrics struct {
	AnalysesTotal         *prometheus.CounterVec
	MatchRequestsTotal    *prometheus.CounterVec
	CandidatesTotal       *prometheus.CounterVec
	ContentFallbacksTotal prometheus.Counter
	RateLimitedTotal      prometheus.Counter
	MatchDuration         prometheus.Histogram
}

// NewMetrics registra las metricas una sola vez por proceso.
//
// Metricas:
//   - cryptomatch_analyses_total{personality}
//   - cryptomatch_match_requests_total{outcome}
//   - cryptomatch_candidates_total{result}
//   - cryptomatch_content_fallbacks_total
//   - cryptomatch_rate_limited_total
//   - cryptomatch_match_duration_seconds
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			AnalysesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cryptomatch_analyses_total",
					Help: "Total number of personality analyses by resulting archetype",
				},
				[]string{"personality"},
			),
			MatchRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cryptomatch_match_requests_total",
					Help: "Total number of match searches by outcome",
				},
				[]string{"outcome"}, // "ok", "no_matches", "error"
			),
			CandidatesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cryptomatch_candidates_total",
					Help: "Candidates evaluated during match searches",
				},
				[]string{"result"}, // "scored", "dropped"
			),
			ContentFallbacksTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "cryptomatch_content_fallbacks_total",
				Help: "Times the LLM comment failed and template text was used",
			}),
			RateLimitedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "cryptomatch_rate_limited_total",
				Help: "Requests rejected by the per-FID rate limit",
			}),
			MatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "cryptomatch_match_duration_seconds",
				Help:    "Duration of a full match search in seconds",
				Buckets: prometheus.DefBuckets,
			}),
		}
	})
	return globalMetrics
}

func (m *Metrics) ObserveAnalysis(personality string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(personality).Inc()
}

func (m *Metrics) ObserveMatchRequest(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.MatchRequestsTotal.WithLabelValues(outcome).Inc()
	m.MatchDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveCandidates(scored, dropped int) {
	if m == nil {
		return
	}
	m.CandidatesTotal.WithLabelValues("scored").Add(float64(scored))
	m.CandidatesTotal.WithLabelValues("dropped").Add(float64(dropped))
}

func (m *Metrics) ObserveContentFallback() {
	if m == nil {
		return
	}
	m.ContentFallbacksTotal.Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
