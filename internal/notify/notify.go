// Package notify delivers best-effort notices to a team's captain over every
// configured channel. Nothing here reports failure back to the operation that
// raised the notice.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dimitrije/wicket-api/internal/metrics"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/google/uuid"
)

// ErrNoAddress is returned by a sink when the contact has no address for it.
var ErrNoAddress = errors.New("contact has no address for this channel")

type Notice struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type Sink interface {
	Name() string
	Send(ctx context.Context, to models.TeamContact, n Notice) error
}

// Directory resolves a team to the contact that receives its notices.
type Directory interface {
	GetContact(ctx context.Context, teamID uuid.UUID) (*models.TeamContact, error)
}

type job struct {
	teamID uuid.UUID
	notice Notice
}

// Dispatcher queues team notices and fans them out to sinks from a single
// goroutine started with Run.
type Dispatcher struct {
	dir     Directory
	sinks   []Sink
	metrics metrics.Metrics
	queue   chan job
	timeout time.Duration
}

func NewDispatcher(dir Directory, m metrics.Metrics, queueSize int, sinks ...Sink) *Dispatcher {
	if m == nil {
		m = metrics.Nop{}
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		dir:     dir,
		sinks:   sinks,
		metrics: m,
		queue:   make(chan job, queueSize),
		timeout: 10 * time.Second,
	}
}

// NotifyTeam queues a notice for teamID. It never blocks; a full queue drops
// the notice and returns false.
func (d *Dispatcher) NotifyTeam(teamID uuid.UUID, n Notice) bool {
	select {
	case d.queue <- job{teamID: teamID, notice: n}:
		return true
	default:
		d.metrics.IncNotification("queue", metrics.OutcomeDropped)
		log.Warn("Notification queue full, dropping notice", "team_id", teamID, "title", n.Title)
		return false
	}
}

// Run drains the queue until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.queue:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) bool {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	contact, err := d.dir.GetContact(ctx, j.teamID)
	if err != nil {
		d.metrics.IncNotification("directory", metrics.OutcomeFailed)
		log.Error("Failed to resolve team contact", "team_id", j.teamID, "error", err)
		return false
	}
	return d.Notify(ctx, *contact, j.notice)
}

// Notify sends n to every sink synchronously and reports whether at least one
// delivered it.
func (d *Dispatcher) Notify(ctx context.Context, to models.TeamContact, n Notice) bool {
	delivered := false
	for _, sink := range d.sinks {
		err := sink.Send(ctx, to, n)
		switch {
		case err == nil:
			delivered = true
			d.metrics.IncNotification(sink.Name(), metrics.OutcomeSent)
		case errors.Is(err, ErrNoAddress):
			d.metrics.IncNotification(sink.Name(), metrics.OutcomeSkipped)
		default:
			d.metrics.IncNotification(sink.Name(), metrics.OutcomeFailed)
			log.Error("Notification delivery failed", "channel", sink.Name(), "team_id", to.TeamID, "user_id", to.UserID, "error", err)
		}
	}
	return delivered
}
