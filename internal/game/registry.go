package game

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"risiko-server/internal/shared/errors"
)

// session serialises every mutation of one game. Readers load the committed
// pointer without taking the lock.
type session struct {
	mu      sync.Mutex
	state   atomic.Pointer[Game]
	deleted bool
	outbox  *Outbox
}

// Registry maps game ids to live sessions. Its own lock only guards the map;
// commands on different games never wait for each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*session),
		now:      now,
	}
}

// Add registers a freshly created or restored game and returns the committed
// snapshot. Adding an id twice is a conflict.
func (r *Registry) Add(g *Game) (*Game, error) {
	committed, _, err := r.add(g, false)
	return committed, err
}

// Create is Add for a new game: the game_created event is queued on the
// returned outbox.
func (r *Registry) Create(g *Game) (*Game, *Outbox, error) {
	return r.add(g, true)
}

func (r *Registry) add(g *Game, announce bool) (*Game, *Outbox, error) {
	if err := g.CheckInvariants(); err != nil {
		return nil, nil, err
	}

	committed := g.Clone()
	if committed.Version == 0 {
		committed.Version = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[g.ID]; exists {
		return nil, nil, errors.Conflictf("game %s already exists", g.ID)
	}

	s := &session{outbox: newOutbox(g.ID)}
	s.state.Store(committed)
	if announce {
		s.outbox.push(Event{Type: EventGameCreated, GameID: committed.ID, Year: committed.Year, Game: committed})
	}
	r.sessions[g.ID] = s

	return committed, s.outbox, nil
}

// Lookup returns the last committed snapshot of a game
func (r *Registry) Lookup(id string) (*Game, error) {
	s := r.session(id)
	if s == nil {
		return nil, errors.NotFoundf("game %s not found", id)
	}
	return s.state.Load(), nil
}

// List returns committed snapshots ordered by creation time
func (r *Registry) List() []*Game {
	r.mu.RLock()
	games := make([]*Game, 0, len(r.sessions))
	for _, s := range r.sessions {
		games = append(games, s.state.Load())
	}
	r.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		}
		return games[i].ID < games[j].ID
	})

	return games
}

// Update applies fn to a private copy of the game while holding the game's
// lock. The copy is committed only when fn succeeds and the result still
// passes CheckInvariants; otherwise the game is left exactly as it was.
func (r *Registry) Update(id string, fn func(g *Game) error) (*Game, error) {
	g, _, err := r.Commit(id, fn, nil)
	return g, err
}

// Commit works like Update. When describe is set, the event it builds from
// the committed snapshot is queued on the game's outbox before the lock is
// released, so the outbox holds events in commit order.
func (r *Registry) Commit(id string, fn func(g *Game) error, describe func(g *Game) Event) (*Game, *Outbox, error) {
	s := r.session(id)
	if s == nil {
		return nil, nil, errors.NotFoundf("game %s not found", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleted {
		return nil, nil, errors.NotFoundf("game %s not found", id)
	}

	working := s.state.Load().Clone()
	if err := fn(working); err != nil {
		return nil, nil, err
	}

	if err := working.CheckInvariants(); err != nil {
		return nil, nil, err
	}

	working.Version++
	working.UpdatedAt = r.now()
	s.state.Store(working)

	if describe != nil {
		s.outbox.push(describe(working))
	}

	return working, s.outbox, nil
}

// Delete removes a game and queues its game_deleted event behind every event
// already committed. Commands already waiting on it fail with not found.
func (r *Registry) Delete(id string) (*Outbox, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return nil, errors.NotFoundf("game %s not found", id)
	}

	s.retire(id)
	return s.outbox, nil
}

// DeleteAll removes every game and returns their outboxes ordered by game id
func (r *Registry) DeleteAll() []*Outbox {
	r.mu.Lock()
	removed := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	outboxes := make([]*Outbox, 0, len(removed))
	for id, s := range removed {
		s.retire(id)
		outboxes = append(outboxes, s.outbox)
	}
	sort.Slice(outboxes, func(i, j int) bool { return outboxes[i].GameID < outboxes[j].GameID })

	return outboxes
}

func (s *session) retire(id string) {
	s.mu.Lock()
	s.deleted = true
	s.outbox.push(Event{Type: EventGameDeleted, GameID: id})
	s.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) session(id string) *session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}
