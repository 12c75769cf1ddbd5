package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"recognicam-go/internal/models"
	"recognicam-go/internal/session"
)

// Poller periodically reads current metrics from a session's analyzers and
// appends them to the session's snapshot history. This is the scheduling
// abstraction for live UI feedback: it runs independently of the analyzers'
// own callback threads and only ever calls the non-destructive snapshot
// queries.
type Poller struct {
	log      *zap.Logger
	interval time.Duration

	mu    sync.Mutex
	stops map[string]chan struct{}
}

// NewPoller creates a poller that samples every interval.
func NewPoller(interval time.Duration, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		log:      log,
		interval: interval,
		stops:    make(map[string]chan struct{}),
	}
}

// Start begins polling a session in a goroutine. Starting an already-polled
// session is a no-op.
func (p *Poller) Start(s *session.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, running := p.stops[s.ID]; running {
		return
	}
	stop := make(chan struct{})
	p.stops[s.ID] = stop

	go p.run(s, stop)
}

// Stop ends polling for a session. Idempotent.
func (p *Poller) Stop(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stop, running := p.stops[sessionID]; running {
		close(stop)
		delete(p.stops, sessionID)
	}
}

func (p *Poller) run(s *session.Session, stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			snap := models.MetricSnapshot{
				Timestamp: float64(time.Now().UnixMilli()),
				Motion:    s.Motion.CurrentMetrics(),
				Face:      s.Face.CurrentMetrics(),
			}
			s.AppendSnapshot(snap)
			p.log.Debug("Polled metric snapshot",
				zap.String("session_id", s.ID),
				zap.Float64("restlessness", snap.Motion.Restlessness),
				zap.Float64("sustained_attention", snap.Face.SustainedAttentionScore),
			)
		}
	}
}
