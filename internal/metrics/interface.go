package metrics

// Metrics collects counters for the booking core. Services depend on this
// interface rather than on Prometheus directly.
type Metrics interface {
	IncBookingAdmission(result string)
	IncBookingResponse(decision string)
	IncGuestMatchEvent(event string)
	IncNotification(channel, outcome string)
	IncRolloverGround(outcome string)
	ObserveRolloverDuration(seconds float64)
}

// Admission results.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// Notification and rollover outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
	OutcomeDropped = "dropped"
	OutcomeCloned  = "cloned"
)

// Nop discards everything.
type Nop struct{}

func (Nop) IncBookingAdmission(string)      {}
func (Nop) IncBookingResponse(string)       {}
func (Nop) IncGuestMatchEvent(string)       {}
func (Nop) IncNotification(string, string)  {}
func (Nop) IncRolloverGround(string)        {}
func (Nop) ObserveRolloverDuration(float64) {}
