package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"risiko-server/internal/shared/errors"
)

const defaultPersistenceTimeout = 5 * time.Second

type Service struct {
	registry           *Registry
	store              SnapshotStore
	broadcaster        Broadcaster
	settings           Settings
	seed               func() int64
	now                func() time.Time
	persistenceTimeout time.Duration
	logger             *slog.Logger
}

type ServiceOption func(*Service)

// WithStore persists every committed snapshot. Without a store games live in
// memory only.
func WithStore(store SnapshotStore) ServiceOption {
	return func(s *Service) { s.store = store }
}

func WithBroadcaster(b Broadcaster) ServiceOption {
	return func(s *Service) { s.broadcaster = b }
}

// WithSeed fixes the source of seeds for games created without one and for
// starting systems granted on join.
func WithSeed(seed func() int64) ServiceOption {
	return func(s *Service) { s.seed = seed }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithPersistenceTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.persistenceTimeout = d
		}
	}
}

func NewService(settings Settings, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		settings:           settings,
		seed:               func() int64 { return time.Now().UnixNano() },
		now:                time.Now,
		persistenceTimeout: defaultPersistenceTimeout,
		logger:             logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry = NewRegistry(s.now)

	return s
}

// CreateGame generates and registers a new game
func (s *Service) CreateGame(ctx context.Context, params CreateParams) (*Game, error) {
	logger := s.logger.With("component", "game_service", "operation", "create_game", "creator", params.Creator)
	logger.Debug("Creating new game", "planets", params.Planets, "galaxies", params.Galaxies, "players", len(params.Players))

	seed := params.Seed
	if seed == 0 {
		seed = s.seed()
	}

	generated, err := NewGame(params, s.settings, rand.New(rand.NewSource(seed)), s.now())
	if err != nil {
		return nil, err
	}

	g, outbox, err := s.registry.Create(generated)
	if err != nil {
		return nil, err
	}

	logger.Info("Game created",
		"game_id", g.ID,
		"players", len(g.Players),
		"systems", g.SystemCount(),
		"seed", seed)

	s.flush(ctx, outbox)
	return g, nil
}

// JoinGame adds a player to an existing game
func (s *Service) JoinGame(ctx context.Context, gameID, name string) (*Game, error) {
	logger := s.logger.With("component", "game_service", "operation", "join_game", "game_id", gameID, "player", name)

	rng := rand.New(rand.NewSource(s.seed()))
	g, outbox, err := s.registry.Commit(gameID, func(g *Game) error {
		return g.Join(name, rng)
	}, updated)
	if err != nil {
		return nil, err
	}

	logger.Info("Player joined game", "players", len(g.Players))

	s.flush(ctx, outbox)
	return g, nil
}

// SendFleet launches a fleet on behalf of actor
func (s *Service) SendFleet(ctx context.Context, gameID, actor string, cmd SendFleetCommand) (*Game, *Fleet, error) {
	logger := s.logger.With("component", "game_service", "operation", "send_fleet", "game_id", gameID, "player", actor)

	var fleet *Fleet
	g, outbox, err := s.registry.Commit(gameID, func(g *Game) error {
		var err error
		fleet, err = g.SendFleet(actor, cmd)
		return err
	}, updated)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Fleet launched",
		"fleet_id", fleet.ID,
		"source", fleet.Source.String(),
		"destination", fleet.Destination.String(),
		"ships", fleet.Ships,
		"turns", fleet.TurnsRemaining)

	s.flush(ctx, outbox)
	return g, fleet, nil
}

// DeclareReady marks actor ready. The report is non-nil when this completed
// the quorum and the year advanced.
func (s *Service) DeclareReady(ctx context.Context, gameID, actor string) (*Game, *TurnReport, error) {
	logger := s.logger.With("component", "game_service", "operation", "declare_ready", "game_id", gameID, "player", actor)

	var report *TurnReport
	g, outbox, err := s.registry.Commit(gameID, func(g *Game) error {
		var err error
		report, err = g.DeclareReady(actor)
		return err
	}, func(g *Game) Event {
		if report == nil {
			return updated(g)
		}
		return Event{Type: EventTurnAdvanced, GameID: g.ID, Year: g.Year, Game: g, Report: report}
	})
	if err != nil {
		if errors.Is(err, errors.ErrorTypeInvariant) {
			logger.Error("Turn resolution rejected, game left unchanged", "error", err)
		}
		return nil, nil, err
	}

	if report == nil {
		logger.Debug("Player ready", "ready", g.ReadyCount(), "players", len(g.Players))
		s.flush(ctx, outbox)
		return g, nil, nil
	}

	for _, a := range report.Arrivals {
		logger.Debug("Fleet arrived",
			"fleet_id", a.FleetID,
			"owner", a.Owner,
			"destination", a.Destination.String(),
			"ships", a.Ships,
			"outcome", a.Outcome,
			"previous_owner", a.PreviousOwner,
			"ships_after", a.ShipsAfter)
	}
	logger.Info("Turn advanced",
		"year", report.Year,
		"arrivals", len(report.Arrivals),
		"produced", report.Produced,
		"in_flight", report.InFlight)

	s.flush(ctx, outbox)
	return g, report, nil
}

// CancelReady withdraws actor's readiness
func (s *Service) CancelReady(ctx context.Context, gameID, actor string) (*Game, error) {
	logger := s.logger.With("component", "game_service", "operation", "cancel_ready", "game_id", gameID, "player", actor)

	g, outbox, err := s.registry.Commit(gameID, func(g *Game) error {
		return g.CancelReady(actor)
	}, updated)
	if err != nil {
		return nil, err
	}

	logger.Debug("Player no longer ready", "ready", g.ReadyCount(), "players", len(g.Players))

	s.flush(ctx, outbox)
	return g, nil
}

// GetState returns the last committed snapshot of a game
func (s *Service) GetState(gameID string) (*Game, error) {
	return s.registry.Lookup(gameID)
}

// ListGames returns summaries of every running game
func (s *Service) ListGames() []Summary {
	games := s.registry.List()
	summaries := make([]Summary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, g.Summary())
	}
	return summaries
}

// DeleteGame removes a game from memory and from the store
func (s *Service) DeleteGame(ctx context.Context, gameID string) error {
	logger := s.logger.With("component", "game_service", "operation", "delete_game", "game_id", gameID)

	outbox, err := s.registry.Delete(gameID)
	if err != nil {
		return err
	}

	// snapshots committed before the deletion are saved first
	s.flush(ctx, outbox)

	if s.store != nil {
		storeCtx, cancel := context.WithTimeout(ctx, s.persistenceTimeout)
		defer cancel()
		if err := s.store.Delete(storeCtx, gameID); err != nil {
			logger.Error("Failed to delete game snapshot", "error", err)
			return errors.WrapExternal("failed to delete game snapshot", err)
		}
	}

	logger.Info("Game deleted")
	return nil
}

// DeleteAllGames removes every game and returns how many were removed
func (s *Service) DeleteAllGames(ctx context.Context) (int, error) {
	logger := s.logger.With("component", "game_service", "operation", "delete_all_games")

	outboxes := s.registry.DeleteAll()
	for _, outbox := range outboxes {
		s.flush(ctx, outbox)
	}

	if s.store != nil {
		storeCtx, cancel := context.WithTimeout(ctx, s.persistenceTimeout)
		defer cancel()
		if err := s.store.DeleteAll(storeCtx); err != nil {
			logger.Error("Failed to delete game snapshots", "error", err)
			return len(outboxes), errors.WrapExternal("failed to delete game snapshots", err)
		}
	}

	logger.Info("All games deleted", "count", len(outboxes))
	return len(outboxes), nil
}

// Restore loads every persisted snapshot into the registry. Snapshots that
// fail validation are skipped and logged.
func (s *Service) Restore(ctx context.Context) (int, error) {
	logger := s.logger.With("component", "game_service", "operation", "restore")

	if s.store == nil {
		logger.Debug("No snapshot store configured, nothing to restore")
		return 0, nil
	}

	games, err := s.store.LoadAll(ctx)
	if err != nil {
		logger.Error("Failed to load game snapshots", "error", err)
		return 0, errors.WrapExternal("failed to load game snapshots", err)
	}

	restored := 0
	for _, g := range games {
		if _, err := s.registry.Add(g); err != nil {
			logger.Warn("Skipping game snapshot", "game_id", g.ID, "error", err)
			continue
		}
		restored++
	}

	logger.Info("Games restored", "count", restored, "skipped", len(games)-restored)
	return restored, nil
}

func updated(g *Game) Event {
	return Event{Type: EventGameUpdated, GameID: g.ID, Year: g.Year, Game: g}
}

// flush delivers the game's queued events in commit order. Delivery outlives
// the request that happens to drain, since it may carry other callers' events.
func (s *Service) flush(ctx context.Context, outbox *Outbox) {
	ctx = context.WithoutCancel(ctx)
	outbox.Drain(func(event Event) {
		s.deliver(ctx, event)
	})
}

// deliver persists and broadcasts one event. A failed save is logged and does
// not undo the command; the next commit of the same game writes a newer
// version.
func (s *Service) deliver(ctx context.Context, event Event) {
	if s.store != nil && event.Game != nil {
		storeCtx, cancel := context.WithTimeout(ctx, s.persistenceTimeout)
		if err := s.store.Save(storeCtx, event.Game); err != nil {
			s.logger.Error("Failed to persist game snapshot",
				"component", "game_service",
				"game_id", event.GameID,
				"version", event.Game.Version,
				"error", err)
		}
		cancel()
	}

	s.publish(ctx, event)
}

func (s *Service) publish(ctx context.Context, event Event) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Publish(ctx, event)
}
