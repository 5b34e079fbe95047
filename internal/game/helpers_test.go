package game

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"risiko-server/internal/spatial"
)

var testEpoch = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestGame builds a small hand-made game:
//
//	1 alice   100 ships at (0,0)
//	2 bob      50 ships at (0,3)
//	3 unowned   0 ships at (4,0)
//	4 pirates  15 ships at (6,8)
func newTestGame(t *testing.T) *Game {
	t.Helper()

	g := &Game{
		ID:      "game-1",
		Creator: "alice",
		Year:    1,
		Version: 1,
		Rules:   DefaultSettings().Rules,
		Grid:    spatial.Grid{Rows: 40, Cols: 15},
		Galaxies: []Galaxy{{
			Index: 0,
			Name:  "Andromeda",
			Systems: []System{
				{ID: 1, Galaxy: 0, Position: spatial.Position{Row: 0, Col: 0}, Owner: "alice", CurrentShips: 100, ShipProduction: 10, DefenseFactor: 1.0},
				{ID: 2, Galaxy: 0, Position: spatial.Position{Row: 0, Col: 3}, Owner: "bob", CurrentShips: 50, ShipProduction: 5, DefenseFactor: 1.0},
				{ID: 3, Galaxy: 0, Position: spatial.Position{Row: 4, Col: 0}, Owner: Unowned, CurrentShips: 0, ShipProduction: 3, DefenseFactor: 0.8},
				{ID: 4, Galaxy: 0, Position: spatial.Position{Row: 6, Col: 8}, Owner: NeutralOwner, CurrentShips: 15, ShipProduction: 2, DefenseFactor: 0.5},
			},
		}},
		Fleets: []Fleet{},
		Players: []Player{
			{Name: "alice", Color: "#FF0000", JoinedYear: 1},
			{Name: "bob", Color: "#0000FF", JoinedYear: 1},
		},
		NextFleetID: 1,
		CreatedAt:   testEpoch,
		UpdatedAt:   testEpoch,
	}

	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("test game is invalid: %v", err)
	}
	return g
}

func ref(id int) SystemRef {
	return SystemRef{Galaxy: 0, ID: id}
}

// readyAll declares every player ready and returns the report of the barrier
func readyAll(t *testing.T, g *Game) *TurnReport {
	t.Helper()

	var report *TurnReport
	for _, p := range g.Players {
		r, err := g.DeclareReady(p.Name)
		if err != nil {
			t.Fatalf("declare ready %s: %v", p.Name, err)
		}
		if r != nil {
			report = r
		}
	}
	if report == nil {
		t.Fatal("barrier did not fire after every player declared ready")
	}
	return report
}
