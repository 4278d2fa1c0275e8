package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roam-platform/roam-server/internal/common/config"
)

type Metrics struct {
	registry     *prometheus.Registry
	namespace    string
	httpReqCnt   *prometheus.CounterVec
	httpDur      *prometheus.HistogramVec
	httpInfl     *prometheus.GaugeVec
	approvalCnt  *prometheus.CounterVec
	emailCnt     *prometheus.CounterVec
	entryCnt     *prometheus.CounterVec
	wizardCnt    *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	// Register basic HTTP metrics
	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	approvalCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "business_approvals_total"}, []string{"result"})
	emailCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "approval_emails_total"}, []string{"status"})
	entryCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "phase2_entries_total"}, []string{"result"})
	wizardCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "wizard_steps_completed_total"}, []string{"step"})
	r.MustRegister(approvalCnt, emailCnt, entryCnt, wizardCnt)

	return &Metrics{
		registry:    r,
		namespace:   ns,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		httpInfl:    httpInfl,
		approvalCnt: approvalCnt,
		emailCnt:    emailCnt,
		entryCnt:    entryCnt,
		wizardCnt:   wizardCnt,
	}
}

// ApprovalDone counts one approval attempt by outcome ("approved", "rejected"
// or an error kind).
func (m *Metrics) ApprovalDone(result string) {
	if m == nil {
		return
	}
	m.approvalCnt.WithLabelValues(result).Inc()
}

// EmailDone counts one approval email attempt ("sent", "failed", "skipped")
func (m *Metrics) EmailDone(status string) {
	if m == nil {
		return
	}
	m.emailCnt.WithLabelValues(status).Inc()
}

// EntryDone counts one Phase-2 entry attempt by outcome
func (m *Metrics) EntryDone(result string) {
	if m == nil {
		return
	}
	m.entryCnt.WithLabelValues(result).Inc()
}

// WizardStepDone counts one completed wizard step
func (m *Metrics) WizardStepDone(step string) {
	if m == nil {
		return
	}
	m.wizardCnt.WithLabelValues(step).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
