package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service holds the Prometheus collectors for the application.
type Service struct {
	BookingAdmissions *prometheus.CounterVec
	BookingResponses  *prometheus.CounterVec
	GuestMatchEvents  *prometheus.CounterVec
	Notifications     *prometheus.CounterVec
	RolloverGrounds   *prometheus.CounterVec
	RolloverDuration  prometheus.Histogram
}

// NewHandler returns an http.Handler serving the given gatherer, or the
// default one.
func NewHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the collectors. If no registerer is
// provided, the default Prometheus registerer is used.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BookingAdmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wicket_booking_admissions_total",
			Help: "Booking admission attempts by result.",
		}, []string{"result"}),
		BookingResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wicket_booking_responses_total",
			Help: "Owner decisions on bookings.",
		}, []string{"decision"}),
		GuestMatchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wicket_guest_match_events_total",
			Help: "Guest match request transitions.",
		}, []string{"event"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wicket_notifications_total",
			Help: "Notification deliveries by channel and outcome.",
		}, []string{"channel", "outcome"}),
		RolloverGrounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wicket_rollover_grounds_total",
			Help: "Grounds handled by the weekly rollover by outcome.",
		}, []string{"outcome"}),
		RolloverDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wicket_rollover_duration_seconds",
			Help:    "Duration of a full weekly rollover run.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	reg.MustRegister(
		s.BookingAdmissions,
		s.BookingResponses,
		s.GuestMatchEvents,
		s.Notifications,
		s.RolloverGrounds,
		s.RolloverDuration,
	)

	return s
}

func (s *Service) IncBookingAdmission(result string) {
	s.BookingAdmissions.WithLabelValues(result).Inc()
}

func (s *Service) IncBookingResponse(decision string) {
	s.BookingResponses.WithLabelValues(decision).Inc()
}

func (s *Service) IncGuestMatchEvent(event string) {
	s.GuestMatchEvents.WithLabelValues(event).Inc()
}

func (s *Service) IncNotification(channel, outcome string) {
	s.Notifications.WithLabelValues(channel, outcome).Inc()
}

func (s *Service) IncRolloverGround(outcome string) {
	s.RolloverGrounds.WithLabelValues(outcome).Inc()
}

func (s *Service) ObserveRolloverDuration(seconds float64) {
	s.RolloverDuration.Observe(seconds)
}
