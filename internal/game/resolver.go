package game

import (
	"sort"

	"risiko-server/internal/shared/errors"
)

type Outcome string

const (
	OutcomeReinforced Outcome = "reinforced"
	OutcomeClaimed    Outcome = "claimed"
	OutcomeCaptured   Outcome = "captured"
	OutcomeRepelled   Outcome = "repelled"
)

// Arrival records how one fleet was resolved against its destination
type Arrival struct {
	FleetID         int       `json:"fleet_id"`
	Owner           string    `json:"owner"`
	Source          SystemRef `json:"source"`
	Destination     SystemRef `json:"destination"`
	Ships           int       `json:"ships"`
	Outcome         Outcome   `json:"outcome"`
	PreviousOwner   string    `json:"previous_owner"`
	DefendersBefore int       `json:"defenders_before"`
	ShipsAfter      int       `json:"ships_after"`
}

// resolveFleets moves every fleet one turn closer and resolves the ones that
// arrive. Arrivals are applied in ascending (source, fleet id) order so that
// fleets converging on one system always resolve the same way.
func (g *Game) resolveFleets() ([]Arrival, error) {
	inFlight := make([]Fleet, 0, len(g.Fleets))
	var landed []Fleet

	for _, f := range g.Fleets {
		if f.TurnsRemaining > 0 {
			f.TurnsRemaining--
		}
		if f.TurnsRemaining > 0 {
			inFlight = append(inFlight, f)
			continue
		}
		landed = append(landed, f)
	}

	sort.SliceStable(landed, func(i, j int) bool {
		if landed[i].Source != landed[j].Source {
			return landed[i].Source.Less(landed[j].Source)
		}
		return landed[i].ID < landed[j].ID
	})

	arrivals := make([]Arrival, 0, len(landed))
	for _, f := range landed {
		arrival, err := g.land(f)
		if err != nil {
			return nil, err
		}
		arrivals = append(arrivals, arrival)
	}

	g.Fleets = inFlight
	return arrivals, nil
}

func (g *Game) land(f Fleet) (Arrival, error) {
	dest := g.System(f.Destination)
	if dest == nil {
		return Arrival{}, errors.Invariantf("fleet %d targets missing system %s", f.ID, f.Destination)
	}

	arrival := Arrival{
		FleetID:         f.ID,
		Owner:           f.Owner,
		Source:          f.Source,
		Destination:     f.Destination,
		Ships:           f.Ships,
		PreviousOwner:   dest.Owner,
		DefendersBefore: dest.CurrentShips,
	}

	switch {
	case dest.Owner == f.Owner:
		dest.CurrentShips += f.Ships
		arrival.Outcome = OutcomeReinforced
	case dest.Owner == Unowned:
		dest.CurrentShips += f.Ships
		dest.Owner = f.Owner
		arrival.Outcome = OutcomeClaimed
	default:
		battle := Fight(g.Rules.Combat, f.Ships, dest.CurrentShips, dest.DefenseFactor)
		dest.CurrentShips = battle.Remaining
		if battle.Captured {
			dest.Owner = f.Owner
			arrival.Outcome = OutcomeCaptured
		} else {
			arrival.Outcome = OutcomeRepelled
		}
	}

	arrival.ShipsAfter = dest.CurrentShips
	return arrival, nil
}
