package metrics

import "sync"

// Mock records metric calls for tests. It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	admissions        map[string]int
	responses         map[string]int
	guestMatchEvents  map[string]int
	notifications     map[string]int
	rolloverGrounds   map[string]int
	rolloverDurations []float64
}

func NewMock() *Mock {
	return &Mock{
		admissions:       make(map[string]int),
		responses:        make(map[string]int),
		guestMatchEvents: make(map[string]int),
		notifications:    make(map[string]int),
		rolloverGrounds:  make(map[string]int),
	}
}

func (m *Mock) IncBookingAdmission(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admissions[result]++
}

func (m *Mock) IncBookingResponse(decision string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[decision]++
}

func (m *Mock) IncGuestMatchEvent(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guestMatchEvents[event]++
}

func (m *Mock) IncNotification(channel, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[channel+"/"+outcome]++
}

func (m *Mock) IncRolloverGround(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolloverGrounds[outcome]++
}

func (m *Mock) ObserveRolloverDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolloverDurations = append(m.rolloverDurations, seconds)
}

func (m *Mock) Admissions(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admissions[result]
}

func (m *Mock) Responses(decision string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.responses[decision]
}

func (m *Mock) GuestMatchEvents(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guestMatchEvents[event]
}

func (m *Mock) Notifications(channel, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifications[channel+"/"+outcome]
}

func (m *Mock) RolloverGrounds(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolloverGrounds[outcome]
}

func (m *Mock) RolloverRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rolloverDurations)
}
