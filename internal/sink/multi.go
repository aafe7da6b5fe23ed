package sink

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/resilience"
)

// Partial deliveries are remembered for at most pendingWindow and at most
// maxPending record ids; past either bound the oldest are forgotten and a
// later resubmission reaches every sink again.
const (
	pendingWindow = 24 * time.Hour
	maxPending    = 10_000
)

// Multi persists to several sinks concurrently. It succeeds only when every
// sink succeeds; a failing sink does not cancel the others. After a partial
// failure, persisting the same record id again only retries the sinks that
// have not accepted it yet.
type Multi struct {
	sinks []Sink

	mu         sync.Mutex
	delivered  map[string]pending
	window     time.Duration
	maxEntries int
	now        func() time.Time
}

type pending struct {
	done []bool
	at   time.Time
}

// NewMulti returns a fan-out over sinks.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{
		sinks:      sinks,
		delivered:  make(map[string]pending),
		window:     pendingWindow,
		maxEntries: maxPending,
		now:        time.Now,
	}
}

func (m *Multi) Name() string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name()
	}
	return "multi(" + strings.Join(names, ",") + ")"
}

// Sinks returns the wrapped sinks.
func (m *Multi) Sinks() []Sink { return m.sinks }

// Persist writes r to every sink. When some fail, the error names each
// failure and is transient only if every failure is transient.
func (m *Multi) Persist(ctx context.Context, r model.Record) error {
	done := m.deliveredTo(r.RecordID)
	errs := make([]error, len(m.sinks))

	var g errgroup.Group
	for i, s := range m.sinks {
		if done[i] {
			continue
		}
		g.Go(func() error {
			if err := s.Persist(ctx, r); err != nil {
				zap.L().Warn("sink: persist failed",
					zap.String("sink", s.Name()),
					zap.String("record_id", r.RecordID),
					zap.String("class", resilience.Classify(err)),
					zap.Error(err),
				)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			done[i] = true
		}
	}
	m.markDelivered(r.RecordID, done)

	var (
		msgs      []string
		transient = true
	)
	for i, err := range errs {
		if err == nil {
			continue
		}
		msgs = append(msgs, m.sinks[i].Name()+": "+err.Error())
		if !resilience.IsTransient(err) {
			transient = false
		}
	}
	if len(msgs) == 0 {
		return nil
	}

	err := eris.Errorf("sink: %d of %d sinks failed: %s", len(msgs), len(m.sinks), strings.Join(msgs, "; "))
	if transient {
		return resilience.NewTransientError(err, 0)
	}
	return err
}

// deliveredTo returns a copy of the per-sink delivery state for id.
func (m *Multi) deliveredTo(id string) []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	done := make([]bool, len(m.sinks))
	if p, ok := m.delivered[id]; ok && m.now().Sub(p.at) <= m.window {
		copy(done, p.done)
	}
	return done
}

// markDelivered stores a partial delivery and forgets complete ones.
func (m *Multi) markDelivered(id string, done []bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, p := range m.delivered {
		if now.Sub(p.at) > m.window {
			delete(m.delivered, k)
		}
	}

	complete := true
	for _, ok := range done {
		if !ok {
			complete = false
			break
		}
	}
	if complete {
		delete(m.delivered, id)
		return
	}

	if _, ok := m.delivered[id]; !ok {
		for len(m.delivered) > 0 && len(m.delivered) >= m.maxEntries {
			m.evictOldest()
		}
	}
	m.delivered[id] = pending{done: done, at: now}
}

func (m *Multi) evictOldest() {
	var (
		oldest string
		at     time.Time
		found  bool
	)
	for k, p := range m.delivered {
		if !found || p.at.Before(at) {
			oldest, at, found = k, p.at, true
		}
	}
	delete(m.delivered, oldest)
}
