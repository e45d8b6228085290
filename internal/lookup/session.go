// Package lookup drives the single-city weather lookup: geocode the query,
// fetch current conditions for the first candidate, and publish the resulting
// state to listeners.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrEmptyQuery is returned when the submitted query is blank. State is unchanged.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrBusy is returned when a lookup is already loading. State is unchanged.
	ErrBusy = errors.New("lookup already in progress")
	// ErrSuperseded is returned for a lookup whose result was discarded because
	// a newer submission, a Cancel or a Close invalidated it.
	ErrSuperseded = errors.New("lookup superseded")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session closed")
)

const outcomeSuperseded = "superseded"

// Transition is delivered to listeners after every state change.
type Transition struct {
	LookupID string
	Query    string
	State    domain.State
	At       time.Time
}

// Listener observes transitions. It is called synchronously, outside the
// session lock, and must not block for long.
type Listener func(Transition)

// Session owns the query text and lookup state of one widget instance. It is
// safe for concurrent use.
type Session struct {
	geocoder domain.Geocoder
	weather  domain.WeatherFetcher
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock

	mu        sync.Mutex
	state     domain.State
	query     string
	gen       uint64
	inflight  *Pending
	closed    bool
	completed bool
	listeners []Listener
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used for durations and transition stamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// New creates an idle Session.
func New(geocoder domain.Geocoder, weather domain.WeatherFetcher, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Session {
	s := &Session{
		geocoder: geocoder,
		weather:  weather,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		state:    domain.Idle{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query returns the current query text. It is cleared after a successful lookup.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetQuery replaces the query text without submitting it.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Subscribe registers a listener for all subsequent transitions.
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// CheckReadiness returns nil once at least one lookup has finished.
func (s *Session) CheckReadiness(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completed {
		return errors.New("no lookup has completed yet")
	}
	return nil
}

// Submit starts a lookup for query and waits for it to finish. A blank query
// or a lookup already loading makes it a no-op returning ErrEmptyQuery or ErrBusy.
func (s *Session) Submit(ctx context.Context, query string) (domain.State, error) {
	p, err := s.Start(ctx, query)
	if err != nil {
		return s.State(), err
	}
	<-p.Done()
	st, err := p.Result()
	if errors.Is(err, ErrSuperseded) {
		return s.State(), err
	}
	return st, err
}

// Start enters Loading and runs the lookup in the background. The returned
// Pending reports the outcome.
func (s *Session) Start(ctx context.Context, query string) (*Pending, error) {
	return s.start(ctx, query, false)
}

// Replace is Start, except that a lookup already loading is canceled and its
// result discarded instead of returning ErrBusy.
func (s *Session) Replace(ctx context.Context, query string) (*Pending, error) {
	return s.start(ctx, query, true)
}

// Cancel aborts the in-flight lookup, if any, and returns to Idle. It reports
// whether a lookup was canceled.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	p := s.inflight
	if p == nil {
		s.mu.Unlock()
		return false
	}
	s.invalidateLocked()
	t := s.setStateLocked(p.id, p.query, domain.Idle{})
	listeners := s.listeners
	s.mu.Unlock()

	s.logger.Info("lookup canceled", "lookup_id", p.id, "query", p.query)
	notify(listeners, t)
	return true
}

// Close tears the session down. An in-flight result is discarded and later
// submissions return ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.invalidateLocked()
	s.state = domain.Idle{}
	s.listeners = nil
}

func (s *Session) start(ctx context.Context, query string, replace bool) (*Pending, error) {
	q := strings.TrimSpace(query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if q == "" {
		s.mu.Unlock()
		return nil, ErrEmptyQuery
	}
	if s.inflight != nil {
		if !replace {
			s.mu.Unlock()
			return nil, ErrBusy
		}
		s.logger.Info("superseding lookup", "lookup_id", s.inflight.id, "query", s.inflight.query)
		s.invalidateLocked()
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.gen++
	p := &Pending{
		id:     uuid.NewString(),
		gen:    s.gen,
		query:  q,
		ctx:    runCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.inflight = p
	s.query = query
	t := s.setStateLocked(p.id, q, domain.Loading{Query: q})
	s.metrics.LookupInFlight.Set(1)
	listeners := s.listeners
	s.mu.Unlock()

	s.logger.Info("lookup started", "lookup_id", p.id, "query", q)
	notify(listeners, t)

	go s.run(p)
	return p, nil
}

// invalidateLocked cancels the in-flight lookup so its result is discarded.
func (s *Session) invalidateLocked() {
	if s.inflight == nil {
		return
	}
	s.inflight.cancel()
	s.inflight = nil
	s.gen++
	s.metrics.LookupInFlight.Set(0)
}

func (s *Session) setStateLocked(id, query string, st domain.State) Transition {
	s.state = st
	return Transition{LookupID: id, Query: query, State: st, At: s.clock.Now()}
}

func (s *Session) run(p *Pending) {
	defer close(p.done)
	defer p.cancel()

	start := s.clock.Now()
	final, cause := s.resolve(p.ctx, p.query)
	elapsed := s.clock.Since(start)

	s.mu.Lock()
	if p.gen != s.gen || s.closed {
		s.mu.Unlock()
		s.metrics.LookupsTotal.WithLabelValues(outcomeSuperseded).Inc()
		s.logger.Debug("discarding stale lookup result", "lookup_id", p.id, "query", p.query)
		p.finish(final, ErrSuperseded)
		return
	}
	s.inflight = nil
	s.completed = true
	if final.Phase() == domain.PhaseSuccess {
		s.query = ""
	}
	t := s.setStateLocked(p.id, p.query, final)
	s.metrics.LookupInFlight.Set(0)
	listeners := s.listeners
	s.mu.Unlock()

	s.metrics.LookupDuration.Observe(elapsed.Seconds())
	s.metrics.LookupsTotal.WithLabelValues(outcome(final)).Inc()

	if cause != nil {
		s.logger.Warn("lookup failed",
			"lookup_id", p.id,
			"query", p.query,
			"error", cause,
		)
	} else {
		s.logger.Info("lookup finished",
			"lookup_id", p.id,
			"query", p.query,
			"outcome", outcome(final),
			"duration", elapsed,
		)
	}

	notify(listeners, t)
	p.finish(final, nil)
}

// resolve runs geocode then forecast. Every failure collapses to FetchFailed;
// the returned error keeps the cause for logging.
func (s *Session) resolve(ctx context.Context, query string) (domain.State, error) {
	locs, err := s.geocoder.Resolve(ctx, query)
	if err != nil {
		return domain.FetchFailed(), fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(locs) == 0 {
		return domain.NotFound(), nil
	}

	loc := locs[0]
	cond, err := s.weather.Current(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return domain.FetchFailed(), fmt.Errorf("current weather for %s: %w", loc.DisplayName(), err)
	}

	return domain.Success{Location: loc, Snapshot: domain.NewSnapshot(loc, cond)}, nil
}

func outcome(st domain.State) string {
	switch v := st.(type) {
	case domain.Success:
		return "success"
	case domain.Failed:
		return string(v.Reason)
	default:
		return string(st.Phase())
	}
}

func notify(listeners []Listener, t Transition) {
	for _, l := range listeners {
		l(t)
	}
}
