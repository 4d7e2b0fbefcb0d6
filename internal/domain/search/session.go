// Package search owns the interactive query lifecycle: debounce timing,
// pagination, and supersession of in-flight registry fetches.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/plugdex/plugdex/internal/domain/registry"
	"github.com/plugdex/plugdex/internal/ports"
)

// State represents the session's current state.
type State string

const (
	// StateIdle indicates no query is active and no results are shown.
	StateIdle State = "idle"
	// StateDebouncing indicates input arrived and the quiet window is running.
	StateDebouncing State = "debouncing"
	// StateFetching indicates a page fetch is in flight.
	StateFetching State = "fetching"
	// StateSettledMore indicates a full page arrived; more may exist.
	StateSettledMore State = "settled_more"
	// StateSettledEnd indicates a short page arrived; no further pages.
	StateSettledEnd State = "settled_end"
)

// Event types for the session state machine.
const (
	eventInput     = "INPUT"
	eventClear     = "CLEAR"
	eventCommit    = "COMMIT"
	eventPageMore  = "PAGE_MORE"
	eventPageEnd   = "PAGE_END"
	eventFetchFail = "FETCH_FAIL"
	eventLoadMore  = "LOAD_MORE"
)

// Searcher is the slice of the registry client the session needs.
type Searcher interface {
	Search(ctx context.Context, query string, loaders []string, limit, offset int) ([]registry.ProjectSummary, error)
}

// Update is a snapshot delivered to the session owner after every state
// change that affects the visible result set.
type Update struct {
	State   State
	Query   string
	Results []registry.ProjectSummary
	HasMore bool
	// Warning is set when a fetch failed outside the normal
	// no-results path; the result set is still valid (empty page).
	Warning string
}

// Config configures a session.
type Config struct {
	// PageSize is the fixed fetch page size; a shorter page ends the session.
	PageSize int
	// Debounce is the quiet window collapsing rapid keystrokes into one query.
	Debounce time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PageSize: 20,
		Debounce: 200 * time.Millisecond,
	}
}

// machineContext is the (empty) statekit context; all session data lives
// on the Session itself under its mutex.
type machineContext struct{}

// Session turns keystrokes into a bounded stream of registry queries.
//
// All mutation happens under one mutex; the debounce timer is single-shot
// and replaced (never stacked) on new input; an in-flight fetch is
// exclusive — a newer fetch supersedes it and its result is discarded on
// arrival.
type Session struct {
	config   Config
	searcher Searcher
	logger   ports.Logger
	emit     func(Update)

	mu         sync.Mutex
	interp     *statekit.Interpreter[machineContext]
	timer      *time.Timer
	pending    string
	committed  string
	loaders    []string
	offset     int
	generation uint64
	results    []registry.ProjectSummary
	seen       map[string]struct{}
	hasMore    bool
	closed     bool
}

// NewSession creates a session. The emit callback receives result
// snapshots; it is invoked with the session lock held, so it must not call
// back into the session. loaders is the active platform filter applied to
// every committed query.
func NewSession(config Config, searcher Searcher, loaders []string, emit func(Update), logger ports.Logger) (*Session, error) {
	if emit == nil {
		emit = func(Update) {}
	}

	interp, err := buildSessionMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build session state machine: %w", err)
	}
	interp.Start()

	return &Session{
		config:   config,
		searcher: searcher,
		logger:   logger,
		emit:     emit,
		interp:   interp,
		loaders:  append([]string(nil), loaders...),
		seen:     make(map[string]struct{}),
	}, nil
}

// sid converts a session state to its statekit identifier.
func sid(s State) statekit.StateID {
	return statekit.StateID(s)
}

// buildSessionMachine constructs the session lifecycle machine.
func buildSessionMachine() (*statekit.Interpreter[machineContext], error) {
	machine, err := statekit.NewMachine[machineContext]("search-session").
		WithInitial(sid(StateIdle)).
		State(sid(StateIdle)).
		On(eventInput).Target(sid(StateDebouncing)).
		On(eventClear).Target(sid(StateIdle)).
		On(eventCommit).Target(sid(StateFetching)).Done().
		State(sid(StateDebouncing)).
		On(eventInput).Target(sid(StateDebouncing)).
		On(eventClear).Target(sid(StateIdle)).
		On(eventCommit).Target(sid(StateFetching)).Done().
		State(sid(StateFetching)).
		On(eventInput).Target(sid(StateDebouncing)).
		On(eventClear).Target(sid(StateIdle)).
		On(eventCommit).Target(sid(StateFetching)).
		On(eventPageMore).Target(sid(StateSettledMore)).
		On(eventPageEnd).Target(sid(StateSettledEnd)).
		On(eventFetchFail).Target(sid(StateSettledEnd)).Done().
		State(sid(StateSettledMore)).
		On(eventInput).Target(sid(StateDebouncing)).
		On(eventClear).Target(sid(StateIdle)).
		On(eventCommit).Target(sid(StateFetching)).
		On(eventLoadMore).Target(sid(StateFetching)).Done().
		State(sid(StateSettledEnd)).
		On(eventInput).Target(sid(StateDebouncing)).
		On(eventClear).Target(sid(StateIdle)).
		On(eventCommit).Target(sid(StateFetching)).Done().
		Build()
	if err != nil {
		return nil, err
	}
	return statekit.NewInterpreter(machine), nil
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	return State(s.interp.State().Value)
}

// Query returns the last committed query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Results returns a copy of the visible result set.
func (s *Session) Results() []registry.ProjectSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]registry.ProjectSummary(nil), s.results...)
}

// HasMore reports whether a further page may exist.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Offset returns the current pagination offset.
func (s *Session) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// SetLoaders replaces the active loader filter. It applies from the next
// committed query; the visible result set is left as is.
func (s *Session) SetLoaders(loaders []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders = append([]string(nil), loaders...)
}

// SetQuery handles a keystroke: it cancels any pending debounce timer and,
// for non-empty text differing from the last committed query, starts a new
// quiet window. Empty text clears the results and returns to idle.
func (s *Session) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.stopTimer()

	if strings.TrimSpace(text) == "" {
		s.clear()
		return
	}

	if text == s.committed {
		// Unchanged since the last commit; nothing to reschedule.
		return
	}

	s.pending = text
	s.interp.Send(statekit.Event{Type: eventInput})
	s.timer = time.AfterFunc(s.config.Debounce, func() {
		s.debounceExpired(text)
	})
}

// Submit commits the current text immediately, behaving like a forced
// debounce expiry.
func (s *Session) Submit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.stopTimer()

	text := s.pending
	if text == "" {
		text = s.committed
	}
	if strings.TrimSpace(text) == "" {
		s.clear()
		return
	}
	s.commit(text)
}

// LoadMore fetches the next page. Calling it when no further page exists
// is a UI/engine desynchronization; it is guarded as a no-op.
func (s *Session) LoadMore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if s.state() != StateSettledMore {
		s.logger.Error("load-more requested with no further page", "state", s.state())
		return
	}

	s.interp.Send(statekit.Event{Type: eventLoadMore})
	s.startFetch(false)
}

// Close cancels the debounce timer and stops the state machine. In-flight
// fetch results arriving afterwards are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimer()
	s.generation++ // orphan any in-flight fetch
	s.interp.Stop()
}

// debounceExpired commits the query captured when the timer was armed.
func (s *Session) debounceExpired(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// A later keystroke replaced this window; its own timer is running.
	if text != s.pending {
		return
	}
	s.commit(text)
}

// commit records the query, resets the offset, and issues a reset fetch.
// Caller holds the lock.
func (s *Session) commit(text string) {
	s.committed = text
	s.offset = 0
	s.interp.Send(statekit.Event{Type: eventCommit})
	s.startFetch(true)
}

// clear drops the visible results and returns to idle. Caller holds the lock.
func (s *Session) clear() {
	s.pending = ""
	s.committed = ""
	s.offset = 0
	s.results = nil
	s.seen = make(map[string]struct{})
	s.hasMore = false
	s.generation++ // discard any in-flight fetch
	s.interp.Send(statekit.Event{Type: eventClear})
	s.emit(s.snapshot(""))
}

// startFetch issues an asynchronous page fetch. Caller holds the lock and
// has already transitioned the machine to fetching.
func (s *Session) startFetch(reset bool) {
	s.generation++
	gen := s.generation
	query := s.committed
	offset := s.offset
	loaders := append([]string(nil), s.loaders...)

	go func() {
		hits, err := s.searcher.Search(context.Background(), query, loaders, s.config.PageSize, offset)
		s.applyFetch(gen, reset, hits, err)
	}()
}

// applyFetch applies a completed fetch, unless a newer fetch superseded it.
func (s *Session) applyFetch(gen uint64, reset bool, hits []registry.ProjectSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		s.logger.Debug("discarding superseded fetch result", "generation", gen)
		return
	}

	if err != nil {
		s.logger.Warn("search fetch failed", "query", s.committed, "err", err)
		if reset {
			// A reset fetch replaces the visible set even when it fails;
			// the previous query's results must not survive under the
			// new query.
			s.results = nil
			s.seen = make(map[string]struct{})
		}
		s.hasMore = false
		s.interp.Send(statekit.Event{Type: eventFetchFail})
		s.emit(s.snapshot("Search failed, showing no results"))
		return
	}

	if reset {
		s.results = nil
		s.seen = make(map[string]struct{}, len(hits))
	}
	for _, hit := range hits {
		if _, dup := s.seen[hit.Slug]; dup {
			continue
		}
		s.seen[hit.Slug] = struct{}{}
		s.results = append(s.results, hit)
	}

	// Offset advances by the page size only after a successful fetch.
	s.offset += s.config.PageSize
	s.hasMore = len(hits) == s.config.PageSize

	event := statekit.EventType(eventPageEnd)
	if s.hasMore {
		event = eventPageMore
	}
	s.interp.Send(statekit.Event{Type: event})
	s.emit(s.snapshot(""))
}

// snapshot builds an Update for the owner. Caller holds the lock.
func (s *Session) snapshot(warning string) Update {
	return Update{
		State:   s.state(),
		Query:   s.committed,
		Results: append([]registry.ProjectSummary(nil), s.results...),
		HasMore: s.hasMore,
		Warning: warning,
	}
}

// stopTimer cancels the pending debounce timer, if any. Caller holds the lock.
func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
