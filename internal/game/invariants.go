package game

import (
	"strings"

	"risiko-server/internal/shared/errors"
	"risiko-server/internal/spatial"
)

// CheckInvariants validates the structural rules every committed game obeys.
// A violation means a bug or a corrupted snapshot, never bad player input.
func (g *Game) CheckInvariants() error {
	if g.ID == "" {
		return errors.Invariantf("game has no id")
	}
	if g.Year < 1 {
		return errors.Invariantf("game %s has year %d", g.ID, g.Year)
	}
	if !g.Rules.ETA.IsValid() || !g.Rules.Combat.IsValid() {
		return errors.Invariantf("game %s has unknown rules %q/%q", g.ID, g.Rules.ETA, g.Rules.Combat)
	}

	players := make(map[string]bool, len(g.Players))
	for _, p := range g.Players {
		if strings.TrimSpace(p.Name) == "" || isReservedName(p.Name) {
			return errors.Invariantf("game %s has invalid player name %q", g.ID, p.Name)
		}
		if players[p.Name] {
			return errors.Invariantf("game %s lists player %q twice", g.ID, p.Name)
		}
		players[p.Name] = true
	}
	if !players[g.Creator] {
		return errors.Invariantf("game %s has creator %q who is not a player", g.ID, g.Creator)
	}
	if len(g.Galaxies) == 0 {
		return errors.Invariantf("game %s has no galaxies", g.ID)
	}

	for gi := range g.Galaxies {
		galaxy := &g.Galaxies[gi]
		if galaxy.Index != gi {
			return errors.Invariantf("galaxy at %d carries index %d", gi, galaxy.Index)
		}

		occupied := make(map[spatial.Position]int, len(galaxy.Systems))
		for si := range galaxy.Systems {
			s := &galaxy.Systems[si]
			if s.Galaxy != gi {
				return errors.Invariantf("system %d of galaxy %d claims galaxy %d", s.ID, gi, s.Galaxy)
			}
			if err := g.checkSystem(s, si, players); err != nil {
				return err
			}
			if other, taken := occupied[s.Position]; taken {
				return errors.Invariantf("systems %d and %d of galaxy %d share position %s", other, s.ID, gi, s.Position)
			}
			occupied[s.Position] = s.ID
		}
	}

	for _, f := range g.Fleets {
		if f.Ships <= 0 {
			return errors.Invariantf("fleet %d carries %d ships", f.ID, f.Ships)
		}
		if f.TurnsRemaining < 1 {
			return errors.Invariantf("fleet %d is in flight with %d turns remaining", f.ID, f.TurnsRemaining)
		}
		if !players[f.Owner] {
			return errors.Invariantf("fleet %d belongs to unknown player %q", f.ID, f.Owner)
		}
		if g.System(f.Source) == nil || g.System(f.Destination) == nil {
			return errors.Invariantf("fleet %d references a missing system", f.ID)
		}
		if f.ID >= g.NextFleetID {
			return errors.Invariantf("fleet %d is not below the next fleet id %d", f.ID, g.NextFleetID)
		}
	}

	return nil
}

func (g *Game) checkSystem(s *System, index int, players map[string]bool) error {
	if s.ID != index+1 {
		return errors.Invariantf("system at %d of galaxy %d carries id %d", index, s.Galaxy, s.ID)
	}
	if s.CurrentShips < 0 {
		return errors.Invariantf("system %s has %d ships", s.Ref(), s.CurrentShips)
	}
	if s.ShipProduction < 1 {
		return errors.Invariantf("system %s has production %d", s.Ref(), s.ShipProduction)
	}
	if s.DefenseFactor < MinDefenseFactor || s.DefenseFactor > MaxDefenseFactor {
		return errors.Invariantf("system %s has defense factor %v", s.Ref(), s.DefenseFactor)
	}
	if !g.Grid.Contains(s.Position) {
		return errors.Invariantf("system %s sits outside the grid at %s", s.Ref(), s.Position)
	}
	if s.Owner != Unowned && s.Owner != NeutralOwner && !players[s.Owner] {
		return errors.Invariantf("system %s belongs to unknown player %q", s.Ref(), s.Owner)
	}
	return nil
}

func isReservedName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), NeutralOwner)
}
