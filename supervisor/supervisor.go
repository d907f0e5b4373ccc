package supervisor

import (
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/corvidlabs/actorhsm/actor"
)

// Option configures a Supervisor, following the teacher's functional-
// options idiom (internal/core/options.go's Option/With* pattern).
type Option func(*config)

type config struct {
	defaultStrategy actor.RestartStrategy
	maxRestarts     int
	restartWindow   time.Duration
	maxChildren     int // 0 means unbounded
	now             func() time.Time
}

// WithDefaultStrategy overrides the strategy DefaultStrategy reports,
// which the supervisor Actor registers StartChild children under.
// Default OneForOne.
func WithDefaultStrategy(s actor.RestartStrategy) Option {
	return func(c *config) { c.defaultStrategy = s }
}

// WithMaxRestarts sets the rate-limit threshold. Default 5.
func WithMaxRestarts(n int) Option {
	return func(c *config) { c.maxRestarts = n }
}

// WithRestartWindow sets the rate-limit time window. Default 60s.
func WithRestartWindow(d time.Duration) Option {
	return func(c *config) { c.restartWindow = d }
}

// WithMaxChildren bounds the number of children this supervisor will
// track, returning CapacityExceeded past the limit. Default 0
// (unbounded), matching the std profile; an embedded deployment should
// set this explicitly since it has no heap to grow into.
func WithMaxChildren(n int) Option {
	return func(c *config) { c.maxChildren = n }
}

// WithClock overrides the time source restart-rate-limiting uses.
// Intended for tests; production code should leave this at the default
// (time.Now).
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

type childInfo struct {
	strategy     actor.RestartStrategy
	restartCount int
	windowStart  time.Time
	done         <-chan error
	running      bool
}

// Supervisor tracks child actors and decides, per spec §4.5, which of
// them to restart when one fails. It does not itself perform restarts —
// reconstructing a concrete actor type and calling actor.Spawn/RunLoop
// again is the caller's responsibility (spec §9: the framework is
// generic rather than trait-object/heterogeneous-dispatch based).
type Supervisor struct {
	mu       sync.Mutex
	children *orderedmap.OrderedMap[string, *childInfo]
	cfg      config
}

// New builds a Supervisor. Defaults match spec §6: OneForOne, 5 max
// restarts, 60 second window.
func New(opts ...Option) *Supervisor {
	cfg := config{
		defaultStrategy: actor.OneForOne,
		maxRestarts:     5,
		restartWindow:   60 * time.Second,
		now:             time.Now,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &Supervisor{children: orderedmap.New[string, *childInfo](), cfg: cfg}
}

// AddChild registers id under strategy, preserving insertion order (the
// ordering RestForOne depends on). Returns ChildAlreadyExists or
// CapacityExceeded as appropriate.
func (s *Supervisor) AddChild(id string, strategy actor.RestartStrategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.children.Get(id); ok {
		return &SupervisorError{Kind: ChildAlreadyExists, ChildID: id}
	}
	if s.cfg.maxChildren > 0 && s.children.Len() >= s.cfg.maxChildren {
		return &SupervisorError{Kind: CapacityExceeded, ChildID: id}
	}
	s.children.Set(id, &childInfo{strategy: strategy, windowStart: s.cfg.now(), running: true})
	return nil
}

// RemoveChild unregisters id, reporting whether it was present.
func (s *Supervisor) RemoveChild(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.children.Delete(id)
}

// Watch attaches a std-profile completion handle to an already-added
// child, for later observation via PollChildren.
func (s *Supervisor) Watch(id string, done <-chan error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info, ok := s.children.Get(id); ok {
		info.done = done
	}
}

// SetRunning records the embedded profile's liveness flag for id,
// standing in for the std profile's completion handle where no task
// join handle exists.
func (s *Supervisor) SetRunning(id string, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info, ok := s.children.Get(id); ok {
		info.running = running
	}
}

// IsRunning reports the embedded liveness flag for id, or false if id is
// not tracked.
func (s *Supervisor) IsRunning(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.children.Get(id)
	return ok && info.running
}

// HandleChildFailure applies the rate-limiting policy from spec §4.5: if
// the window has elapsed, the restart count resets; otherwise it
// increments. Exceeding max_restarts gives up on the child (it is
// removed, and ok is false). Returns ok == false for an unknown child
// too.
func (s *Supervisor) HandleChildFailure(id string) (strategy actor.RestartStrategy, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, found := s.children.Get(id)
	if !found {
		return 0, false
	}

	now := s.cfg.now()
	if now.Sub(info.windowStart) > s.cfg.restartWindow {
		info.restartCount = 0
		info.windowStart = now
	}
	info.restartCount++

	if info.restartCount > s.cfg.maxRestarts {
		s.children.Delete(id)
		return 0, false
	}
	info.running = false
	return info.strategy, true
}

// SimulatePanic drives the same rate-limiting path as a real failure,
// for both profiles — a deterministic reproduction hook supplementing
// the original's embedded-only simulate_panic_for_testing (nothing in
// spec.md restricts it to embedded, and std supervision tests benefit
// from the same hook).
func (s *Supervisor) SimulatePanic(id string) (actor.RestartStrategy, bool) {
	return s.HandleChildFailure(id)
}

// GetChildrenToRestart resolves which ids strategy implies restarting,
// given that failedID just failed. RestForOne walks children in
// insertion order starting at failedID; OneForAll returns every child in
// insertion order; OneForOne returns just failedID.
func (s *Supervisor) GetChildrenToRestart(failedID string, strategy actor.RestartStrategy) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch strategy {
	case actor.OneForOne:
		return []string{failedID}
	case actor.OneForAll:
		ids := make([]string, 0, s.children.Len())
		for pair := s.children.Oldest(); pair != nil; pair = pair.Next() {
			ids = append(ids, pair.Key)
		}
		return ids
	case actor.RestForOne:
		var ids []string
		found := false
		for pair := s.children.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key == failedID {
				found = true
			}
			if found {
				ids = append(ids, pair.Key)
			}
		}
		return ids
	default:
		return nil
	}
}

// Completion is one child's terminal result, as observed by PollChildren.
type Completion struct {
	ChildID string
	Err     error
}

// PollChildren is the std profile's non-blocking completion check (spec
// §4.5): every watched child whose done channel has a pending value is
// returned once and not returned again.
func (s *Supervisor) PollChildren() []Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Completion
	for pair := s.children.Oldest(); pair != nil; pair = pair.Next() {
		info := pair.Value
		if info.done == nil {
			continue
		}
		select {
		case err := <-info.done:
			out = append(out, Completion{ChildID: pair.Key, Err: err})
			info.done = nil
			info.running = false
		default:
		}
	}
	return out
}

// DefaultStrategy returns the configured default strategy (AddChild
// itself always takes an explicit one); exposed for callers building
// SupervisorMessage-driven wiring that need the configured default
// without re-deriving it.
func (s *Supervisor) DefaultStrategy() actor.RestartStrategy {
	return s.cfg.defaultStrategy
}
