package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BookingMetrics holds Prometheus counters for business-level observability
// of the booking funnel. All methods are nil-safe so tests can pass a nil
// receiver.
type BookingMetrics struct {
	BookingsAdded      prometheus.Counter
	CheckoutsStarted   prometheus.Counter
	CheckoutsCompleted prometheus.Counter
	CheckoutsFailed    *prometheus.CounterVec
	Logins             prometheus.Counter
	LoginsFailed       prometheus.Counter
	Signups            prometheus.Counter
}

// NewBookingMetrics creates and registers the booking funnel metrics.
func NewBookingMetrics(namespace string) *BookingMetrics {
	if namespace == "" {
		namespace = "wayfarer"
	}

	return &BookingMetrics{
		BookingsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_added_total",
			Help:      "Cart lines added (bookings started)",
		}),
		CheckoutsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_started_total",
			Help:      "Checkout orchestrations begun",
		}),
		CheckoutsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_completed_total",
			Help:      "Checkout orchestrations that returned a hosted checkout URL",
		}),
		CheckoutsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_failed_total",
			Help:      "Checkout orchestrations failed, by protocol step",
		}, []string{"step"}),
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Successful customer logins",
		}),
		LoginsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_failed_total",
			Help:      "Rejected customer logins",
		}),
		Signups: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Customer accounts created",
		}),
	}
}

func (m *BookingMetrics) BookingAdded() {
	if m != nil {
		m.BookingsAdded.Inc()
	}
}

func (m *BookingMetrics) CheckoutStarted() {
	if m != nil {
		m.CheckoutsStarted.Inc()
	}
}

func (m *BookingMetrics) CheckoutCompleted() {
	if m != nil {
		m.CheckoutsCompleted.Inc()
	}
}

func (m *BookingMetrics) CheckoutFailed(step string) {
	if m != nil {
		m.CheckoutsFailed.WithLabelValues(step).Inc()
	}
}

func (m *BookingMetrics) Login(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Logins.Inc()
	} else {
		m.LoginsFailed.Inc()
	}
}

func (m *BookingMetrics) Signup() {
	if m != nil {
		m.Signups.Inc()
	}
}
