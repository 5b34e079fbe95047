package game

import (
	"encoding/json"

	"risiko-server/internal/shared/errors"
)

// EncodeSnapshot serialises the complete state of a game
func EncodeSnapshot(g *Game) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, errors.WrapInternal("failed to encode game snapshot", err)
	}
	return data, nil
}

// DecodeSnapshot restores a game and rejects snapshots that break the game's
// invariants.
func DecodeSnapshot(data []byte) (*Game, error) {
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.WrapValidation("malformed game snapshot", err)
	}

	if g.Fleets == nil {
		g.Fleets = []Fleet{}
	}
	if g.Players == nil {
		g.Players = []Player{}
	}

	if err := g.CheckInvariants(); err != nil {
		return nil, err
	}

	return &g, nil
}
