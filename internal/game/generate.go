package game

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"risiko-server/internal/shared/errors"
	"risiko-server/internal/spatial"

	"github.com/google/uuid"
)

const (
	minRandomProduction = 1
	maxRandomProduction = 10
	minRandomDefense    = 0.7
)

// NewGame validates params and generates a fresh game: shuffled system
// positions per galaxy, one starting system per player and pirates on a share
// of the systems left unowned. All randomness comes from rng.
func NewGame(params CreateParams, settings Settings, rng *rand.Rand, now time.Time) (*Game, error) {
	params = params.withDefaults(settings)
	if err := params.validate(settings); err != nil {
		return nil, err
	}

	g := &Game{
		ID:          uuid.NewString(),
		Creator:     params.Creator,
		Year:        1,
		Rules:       settings.Rules,
		Grid:        settings.Grid,
		Galaxies:    make([]Galaxy, params.Galaxies),
		Fleets:      []Fleet{},
		Players:     make([]Player, 0, len(params.Players)),
		NextFleetID: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for gi := range g.Galaxies {
		galaxy, err := generateGalaxy(gi, params.Planets, settings.Grid, rng)
		if err != nil {
			return nil, errors.WrapInternal("failed to generate galaxy", err)
		}
		g.Galaxies[gi] = galaxy
	}

	for i, name := range params.Players {
		color := randomColor(rng)
		if len(params.Colors) > 0 {
			color = params.Colors[i]
		}
		g.Players = append(g.Players, Player{Name: name, Color: color, JoinedYear: g.Year})

		start := g.pickStartingSystem(i%params.Galaxies, rng)
		if start == nil {
			return nil, errors.Validationf("no starting system left for %q", name)
		}
		g.grantStartingSystem(start, name)
	}

	g.placePirates(*params.PirateFraction, settings.PirateGarrison, rng)

	if err := g.CheckInvariants(); err != nil {
		return nil, err
	}

	return g, nil
}

func generateGalaxy(index, planets int, grid spatial.Grid, rng *rand.Rand) (Galaxy, error) {
	positions, err := grid.Positions(rng, planets)
	if err != nil {
		return Galaxy{}, fmt.Errorf("galaxy %d: %w", index, err)
	}

	systems := make([]System, planets)
	for i := range systems {
		systems[i] = System{
			ID:             i + 1,
			Galaxy:         index,
			Position:       positions[i],
			Owner:          Unowned,
			ShipProduction: minRandomProduction + rng.Intn(maxRandomProduction-minRandomProduction+1),
			DefenseFactor:  math.Round((minRandomDefense+rng.Float64()*(MaxDefenseFactor-minRandomDefense))*100) / 100,
		}
	}

	return Galaxy{Index: index, Name: spatial.GalaxyName(index), Systems: systems}, nil
}

// pickStartingSystem picks a random unowned system, preferring the given
// galaxy and falling through to the following ones when it is full.
func (g *Game) pickStartingSystem(preferred int, rng *rand.Rand) *System {
	for offset := range g.Galaxies {
		galaxy := &g.Galaxies[(preferred+offset)%len(g.Galaxies)]

		var free []int
		for si := range galaxy.Systems {
			if galaxy.Systems[si].Owner == Unowned {
				free = append(free, si)
			}
		}
		if len(free) > 0 {
			return &galaxy.Systems[free[rng.Intn(len(free))]]
		}
	}
	return nil
}

func (g *Game) grantStartingSystem(s *System, owner string) {
	s.Owner = owner
	s.CurrentShips = g.Rules.StartingShips
	s.ShipProduction = g.Rules.StartingProduction
	s.DefenseFactor = g.Rules.StartingDefense
}

// placePirates occupies round(fraction * unowned) of the unowned systems
func (g *Game) placePirates(fraction float64, garrison int, rng *rand.Rand) {
	var free []*System
	for gi := range g.Galaxies {
		for si := range g.Galaxies[gi].Systems {
			if g.Galaxies[gi].Systems[si].Owner == Unowned {
				free = append(free, &g.Galaxies[gi].Systems[si])
			}
		}
	}

	count := int(math.Round(fraction * float64(len(free))))
	rng.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})

	for _, s := range free[:count] {
		s.Owner = NeutralOwner
		s.CurrentShips = garrison
	}
}

func randomColor(rng *rand.Rand) string {
	return fmt.Sprintf("#%06X", rng.Intn(0x1000000))
}
