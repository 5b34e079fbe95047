package game

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"risiko-server/internal/shared/database"
)

var _ SnapshotStore = (*Repository)(nil)

// Repository stores one JSON snapshot row per game
type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing game repository", "driver", db.Driver)

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Save upserts a snapshot. A row holding the same or a newer version is left
// alone, so a late save can never roll a game back.
func (r *Repository) Save(ctx context.Context, g *Game) error {
	logger := r.logger.With(
		"component", "game_repository",
		"operation", "save",
		"game_id", g.ID,
		"version", g.Version,
	)

	state, err := EncodeSnapshot(g)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO game_snapshots (id, version, year, player_count, state)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			version = excluded.version,
			year = excluded.year,
			player_count = excluded.player_count,
			state = excluded.state,
			updated_at = CURRENT_TIMESTAMP
		WHERE game_snapshots.version < excluded.version
	`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), g.ID, g.Version, g.Year, len(g.Players), string(state))
	if err != nil {
		logger.Error("Failed to save game snapshot", "error", err)
		return fmt.Errorf("failed to save game snapshot: %w", err)
	}

	rowsAffected, err := rowsAffected(result, logger)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		logger.Debug("Stored snapshot is not older, skipping")
		return nil
	}

	logger.Debug("Game snapshot saved", "size_bytes", len(state))
	return nil
}

// LoadAll returns every stored game, oldest first
func (r *Repository) LoadAll(ctx context.Context) ([]*Game, error) {
	logger := r.logger.With("component", "game_repository", "operation", "load_all")
	logger.Debug("Loading game snapshots")

	rows, err := r.db.QueryContext(ctx, `SELECT id, state FROM game_snapshots ORDER BY created_at, id`)
	if err != nil {
		logger.Error("Failed to query game snapshots", "error", err)
		return nil, fmt.Errorf("failed to query game snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var games []*Game
	for rows.Next() {
		var id, state string
		if err := rows.Scan(&id, &state); err != nil {
			logger.Error("Failed to scan game snapshot row", "error", err)
			return nil, fmt.Errorf("failed to scan game snapshot: %w", err)
		}

		g, err := DecodeSnapshot([]byte(state))
		if err != nil {
			logger.Warn("Skipping unreadable game snapshot", "game_id", id, "error", err)
			continue
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating game snapshots: %w", err)
	}

	logger.Debug("Game snapshots loaded", "count", len(games))
	return games, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	logger := r.logger.With("component", "game_repository", "operation", "delete", "game_id", id)

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM game_snapshots WHERE id = $1`), id); err != nil {
		logger.Error("Failed to delete game snapshot", "error", err)
		return fmt.Errorf("failed to delete game snapshot: %w", err)
	}

	logger.Debug("Game snapshot deleted")
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	logger := r.logger.With("component", "game_repository", "operation", "delete_all")

	result, err := r.db.ExecContext(ctx, `DELETE FROM game_snapshots`)
	if err != nil {
		logger.Error("Failed to delete game snapshots", "error", err)
		return fmt.Errorf("failed to delete game snapshots: %w", err)
	}

	count, err := rowsAffected(result, logger)
	if err != nil {
		return err
	}

	logger.Info("Game snapshots deleted", "count", count)
	return nil
}

func rowsAffected(result sql.Result, logger *slog.Logger) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		logger.Error("Failed to get rows affected", "error", err)
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
