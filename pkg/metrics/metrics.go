package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	// Registry holds the service's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wishfund",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	bidsPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "auction",
			Name:      "bids_total",
			Help:      "Bid placements by outcome.",
		},
		[]string{"result"},
	)

	bidsWithdrawn = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "auction",
			Name:      "bids_withdrawn_total",
			Help:      "Bids withdrawn.",
		},
	)

	donationsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "donations",
			Name:      "settled_total",
			Help:      "Donations booked, by source (checkout or manual).",
		},
		[]string{"source"},
	)

	donatedAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "donations",
			Name:      "amount_total",
			Help:      "Sum of net donation amounts credited to wishlist items.",
		},
	)

	duplicateEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "webhook",
			Name:      "duplicate_events_total",
			Help:      "Payment webhook events ignored because they were already processed.",
		},
	)

	underfundedMarked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "scheduler",
			Name:      "underfunded_items_total",
			Help:      "Wishlist items flagged underfunded by the daily sweep.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishfund",
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by job and success.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		bidsPlaced,
		bidsWithdrawn,
		donationsSettled,
		donatedAmount,
		duplicateEvents,
		underfundedMarked,
		jobRuns,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordBid(result string) {
	bidsPlaced.WithLabelValues(result).Inc()
}

func RecordBidWithdrawn() {
	bidsWithdrawn.Inc()
}

func RecordDonation(source string, amount decimal.Decimal) {
	donationsSettled.WithLabelValues(source).Inc()
	f, _ := amount.Float64()
	if f > 0 {
		donatedAmount.Add(f)
	}
}

func RecordDuplicateEvent() {
	duplicateEvents.Inc()
}

func RecordUnderfunded(n int64) {
	if n > 0 {
		underfundedMarked.Add(float64(n))
	}
}

func RecordJobRun(job string, success bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}
