package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kiosk"

var (
	once sync.Once

	storeOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_open",
			Help:      "1 while the store is open according to the weekly hours.",
		},
	)

	statusEvaluations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_evaluations_total",
			Help:      "Count of open/closed evaluations.",
		},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Count of observed open/closed transitions by new state.",
		},
		[]string{"state"},
	)

	themeChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "theme_changes_total",
			Help:      "Count of stored theme changes by resulting theme.",
		},
		[]string{"theme"},
	)

	hoursReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hours_reloads_total",
			Help:      "Count of hours file reloads by result.",
		},
		[]string{"result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Count of transition announcements by result.",
		},
		[]string{"result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by path and status code.",
		},
		[]string{"path", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected status websocket clients.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			storeOpen,
			statusEvaluations,
			statusTransitions,
			themeChanges,
			hoursReloads,
			notifications,
			httpRequests,
			httpDuration,
			wsClients,
		)
	})
}

func ObserveStatus(open, transition bool) {
	statusEvaluations.Inc()
	if open {
		storeOpen.Set(1)
	} else {
		storeOpen.Set(0)
	}
	if transition {
		statusTransitions.WithLabelValues(stateLabel(open)).Inc()
	}
}

func IncThemeChange(theme string) {
	themeChanges.WithLabelValues(theme).Inc()
}

func IncHoursReload(ok bool) {
	if ok {
		hoursReloads.WithLabelValues("ok").Inc()
		return
	}
	hoursReloads.WithLabelValues("error").Inc()
}

func IncNotification(result string) {
	notifications.WithLabelValues(result).Inc()
}

func ObserveHTTP(path string, code int, d time.Duration) {
	httpRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(path).Observe(d.Seconds())
}

func SetWSClients(n int) {
	wsClients.Set(float64(n))
}

func stateLabel(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
