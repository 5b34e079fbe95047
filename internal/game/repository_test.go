package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"risiko-server/internal/shared/database"
)

func openTempRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db, discardLogger())
}

func TestRepositorySaveLoad(t *testing.T) {
	repo := openTempRepository(t)
	ctx := context.Background()

	first := newTestGame(t)
	second := newTestGame(t)
	second.ID = "game-2"
	second.Players = second.Players[:1]
	second.Galaxies[0].Systems[1].Owner = Unowned

	for _, g := range []*Game{first, second} {
		if err := repo.Save(ctx, g); err != nil {
			t.Fatalf("save %s: %v", g.ID, err)
		}
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d games, want 2", len(loaded))
	}

	byID := map[string]*Game{}
	for _, g := range loaded {
		byID[g.ID] = g
	}
	if !reflect.DeepEqual(byID["game-1"], first) || !reflect.DeepEqual(byID["game-2"], second) {
		t.Fatal("loaded games differ from saved games")
	}
}

func TestRepositoryKeepsNewestVersion(t *testing.T) {
	repo := openTempRepository(t)
	ctx := context.Background()

	newer := newTestGame(t)
	newer.Version = 5
	newer.Year = 3

	older := newTestGame(t)
	older.Version = 4

	if err := repo.Save(ctx, newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}
	if err := repo.Save(ctx, older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := repo.Save(ctx, newer); err != nil {
		t.Fatalf("save same version: %v", err)
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Version != 5 || loaded[0].Year != 3 {
		t.Fatalf("stored snapshot = %+v, want version 5", loaded[0].Summary())
	}

	newest := newer.Clone()
	newest.Version = 6
	newest.Year = 4
	if err := repo.Save(ctx, newest); err != nil {
		t.Fatalf("save newest: %v", err)
	}
	loaded, _ = repo.LoadAll(ctx)
	if loaded[0].Version != 6 || loaded[0].Year != 4 {
		t.Fatalf("stored version = %d, want 6", loaded[0].Version)
	}
}

func TestRepositoryDelete(t *testing.T) {
	repo := openTempRepository(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		g := newTestGame(t)
		g.ID = id
		if err := repo.Save(ctx, g); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	loaded, _ := repo.LoadAll(ctx)
	if len(loaded) != 2 {
		t.Fatalf("loaded %d games after delete, want 2", len(loaded))
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	loaded, _ = repo.LoadAll(ctx)
	if len(loaded) != 0 {
		t.Fatalf("loaded %d games after delete all, want 0", len(loaded))
	}
}

func TestRepositorySkipsCorruptRows(t *testing.T) {
	repo := openTempRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, newTestGame(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := repo.db.Exec(`INSERT INTO game_snapshots (id, version, year, player_count, state) VALUES ('broken', 1, 1, 0, '{"id":')`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "game-1" {
		t.Fatalf("loaded %d games, want only game-1", len(loaded))
	}
}

type fixedResult struct {
	rows int64
	err  error
}

func (r fixedResult) LastInsertId() (int64, error) { return 0, nil }
func (r fixedResult) RowsAffected() (int64, error) { return r.rows, r.err }

var _ sql.Result = fixedResult{}

func TestRowsAffected(t *testing.T) {
	if n, err := rowsAffected(fixedResult{rows: 3}, discardLogger()); err != nil || n != 3 {
		t.Fatalf("rowsAffected = %d, %v", n, err)
	}

	failure := fmt.Errorf("driver cannot count rows")
	if _, err := rowsAffected(fixedResult{err: failure}, discardLogger()); !errors.Is(err, failure) {
		t.Fatalf("err = %v, want the driver error wrapped", err)
	}
}
