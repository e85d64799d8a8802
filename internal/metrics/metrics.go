// Package metrics exports FinBridge request and domain counters to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finbridge"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	scoreCalculations *prometheus.CounterVec
	assessments       *prometheus.CounterVec
	alertsGenerated   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg means the default registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		scoreCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_score_calculations_total",
			Help:      "Financial health score calculations by outcome.",
		}, []string{"outcome"}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "personality_assessments_total",
			Help:      "Completed personality assessments by resulting type.",
		}, []string{"personality_type"}),
		alertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "smart_alerts_generated_total",
			Help:      "Automatically generated smart alerts by type.",
		}, []string{"alert_type"}),
	}

	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.requestDuration, err = register(reg, m.requestDuration); err != nil {
		return nil, err
	}
	if m.scoreCalculations, err = register(reg, m.scoreCalculations); err != nil {
		return nil, err
	}
	if m.assessments, err = register(reg, m.assessments); err != nil {
		return nil, err
	}
	if m.alertsGenerated, err = register(reg, m.alertsGenerated); err != nil {
		return nil, err
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("register collector: %w", err)
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ScoreCalculated records a score calculation attempt.
func (m *Metrics) ScoreCalculated(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.scoreCalculations.WithLabelValues(outcome).Inc()
}

// AssessmentCompleted records a classified assessment.
func (m *Metrics) AssessmentCompleted(personalityType string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(personalityType).Inc()
}

// AlertGenerated records an automatically generated alert.
func (m *Metrics) AlertGenerated(alertType string) {
	if m == nil {
		return
	}
	m.alertsGenerated.WithLabelValues(alertType).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
