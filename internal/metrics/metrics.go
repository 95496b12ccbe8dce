package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	VerifyOutcomeOK           = "ok"
	VerifyOutcomeRejected     = "rejected"
	VerifyOutcomeInconsistent = "inconsistent"
	VerifyOutcomeDuplicate    = "duplicate"
	VerifyOutcomeError        = "error"
)

// Metrics captures order pipeline health signals.
type Metrics struct {
	ordersCreated  prometheus.Counter
	verifyOutcomes *prometheus.CounterVec
	linksMinted    prometheus.Counter
	emailSends     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boxoffice_orders_created_total",
			Help: "Gateway orders created.",
		}),
		verifyOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxoffice_verify_total",
			Help: "Payment verification attempts by outcome.",
		}, []string{"outcome"}),
		linksMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boxoffice_watch_links_minted_total",
			Help: "Signed playback links minted.",
		}),
		emailSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxoffice_email_sends_total",
			Help: "Transactional email dispatches by kind and status.",
		}, []string{"kind", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxoffice_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boxoffice_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.ordersCreated,
		m.verifyOutcomes,
		m.linksMinted,
		m.emailSends,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) OrderCreated()                { m.ordersCreated.Inc() }
func (m *Metrics) VerifyOutcome(outcome string) { m.verifyOutcomes.WithLabelValues(outcome).Inc() }
func (m *Metrics) LinkMinted()                  { m.linksMinted.Inc() }
func (m *Metrics) EmailSent(kind string)        { m.emailSends.WithLabelValues(kind, "ok").Inc() }
func (m *Metrics) EmailFailed(kind string)      { m.emailSends.WithLabelValues(kind, "error").Inc() }

// Middleware records per-route request counts and latency.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
