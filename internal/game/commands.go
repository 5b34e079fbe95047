package game

import (
	"math/rand"
	"regexp"
	"strings"

	"risiko-server/internal/shared/errors"
	"risiko-server/internal/spatial"
)

const maxPlayerNameLength = 32

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CreateParams are the inputs of CreateGame. Zero values fall back to Settings.
type CreateParams struct {
	Planets        int      `json:"planets"`
	Galaxies       int      `json:"galaxies"`
	Players        []string `json:"players"`
	Creator        string   `json:"creator"`
	Colors         []string `json:"colors,omitempty"`
	PirateFraction *float64 `json:"pirate_fraction,omitempty"`
	Seed           int64    `json:"seed,omitempty"`
}

func (p CreateParams) withDefaults(settings Settings) CreateParams {
	if p.Planets == 0 {
		p.Planets = settings.DefaultPlanets
	}
	if p.Galaxies == 0 {
		p.Galaxies = settings.DefaultGalaxies
	}
	if p.PirateFraction == nil {
		fraction := settings.PirateFraction
		p.PirateFraction = &fraction
	}

	players := make([]string, len(p.Players))
	for i, name := range p.Players {
		players[i] = strings.TrimSpace(name)
	}
	p.Players = players
	p.Creator = strings.TrimSpace(p.Creator)

	return p
}

func (p CreateParams) validate(settings Settings) error {
	maxPlanets := min(settings.MaxPlanets, settings.Grid.Capacity())
	if p.Planets < settings.MinPlanets || p.Planets > maxPlanets {
		return errors.Validationf("planet count %d must lie within %d..%d", p.Planets, settings.MinPlanets, maxPlanets)
	}

	if p.Galaxies < 1 || p.Galaxies > settings.MaxGalaxies {
		return errors.Validationf("galaxy count %d must lie within 1..%d", p.Galaxies, settings.MaxGalaxies)
	}

	if len(p.Players) == 0 {
		return errors.Validation("at least one player is required")
	}

	if len(p.Players) > settings.Rules.MaxPlayers {
		return errors.Validationf("at most %d players may take part, got %d", settings.Rules.MaxPlayers, len(p.Players))
	}

	if len(p.Players) > p.Planets*p.Galaxies {
		return errors.Validationf("%d players do not fit on %d systems", len(p.Players), p.Planets*p.Galaxies)
	}

	seen := make(map[string]bool, len(p.Players))
	for _, name := range p.Players {
		if err := validatePlayerName(name); err != nil {
			return err
		}
		if seen[name] {
			return errors.Validationf("player %q is listed twice", name)
		}
		seen[name] = true
	}

	if !seen[p.Creator] {
		return errors.Validationf("creator %q is not among the players", p.Creator)
	}

	if len(p.Colors) > 0 {
		if len(p.Colors) != len(p.Players) {
			return errors.Validationf("got %d colors for %d players", len(p.Colors), len(p.Players))
		}
		for _, color := range p.Colors {
			if !colorPattern.MatchString(color) {
				return errors.Validationf("color %q is not of the form #RRGGBB", color)
			}
		}
	}

	if fraction := *p.PirateFraction; fraction < 0 || fraction > 1 {
		return errors.Validationf("pirate fraction %v must lie within 0..1", fraction)
	}

	return nil
}

func validatePlayerName(name string) error {
	if name == "" {
		return errors.Validation("player name is required")
	}
	if len(name) > maxPlayerNameLength {
		return errors.Validationf("player name %q is longer than %d characters", name, maxPlayerNameLength)
	}
	if isReservedName(name) {
		return errors.Validationf("player name %q is reserved", name)
	}
	return nil
}

// Join adds a player and grants them a starting system
func (g *Game) Join(name string, rng *rand.Rand) error {
	name = strings.TrimSpace(name)
	if err := validatePlayerName(name); err != nil {
		return err
	}

	if g.IsParticipant(name) {
		return errors.Conflictf("player %q already takes part in game %s", name, g.ID)
	}

	if len(g.Players) >= g.Rules.MaxPlayers {
		return errors.Validationf("game %s is full with %d players", g.ID, len(g.Players))
	}

	if len(g.Galaxies) == 0 {
		return errors.Invariantf("game %s has no galaxies", g.ID)
	}

	start := g.pickStartingSystem(len(g.Players)%len(g.Galaxies), rng)
	if start == nil {
		return errors.Conflictf("game %s has no unowned system left for %q", g.ID, name)
	}

	g.Players = append(g.Players, Player{
		Name:       name,
		Color:      randomColor(rng),
		JoinedYear: g.Year,
	})
	g.grantStartingSystem(start, name)

	return nil
}

// SendFleetCommand is the payload of SendFleet
type SendFleetCommand struct {
	Source      SystemRef `json:"source"`
	Destination SystemRef `json:"destination"`
	Ships       int       `json:"ships"`
}

// SendFleet launches ships from a system the actor owns. The ships leave the
// source immediately.
func (g *Game) SendFleet(actor string, cmd SendFleetCommand) (*Fleet, error) {
	if !g.IsParticipant(actor) {
		return nil, errors.Forbiddenf("player %q does not take part in game %s", actor, g.ID)
	}

	source := g.System(cmd.Source)
	if source == nil {
		return nil, errors.NotFoundf("source system %s not found", cmd.Source)
	}

	if source.Owner != actor {
		return nil, errors.Forbiddenf("system %s is not owned by %q", cmd.Source, actor)
	}

	if cmd.Ships <= g.Rules.MinLaunchShips {
		return nil, errors.Validationf("a fleet needs more than %d ships, got %d", g.Rules.MinLaunchShips, cmd.Ships)
	}

	if source.CurrentShips < cmd.Ships {
		return nil, errors.InsufficientResourcesf("system %s holds %d ships, cannot launch %d", cmd.Source, source.CurrentShips, cmd.Ships)
	}

	dest := g.System(cmd.Destination)
	if dest == nil {
		return nil, errors.NotFoundf("destination system %s not found", cmd.Destination)
	}

	if cmd.Source == cmd.Destination {
		return nil, errors.Validation("source and destination must differ")
	}

	source.CurrentShips -= cmd.Ships

	g.NextFleetID++
	fleet := Fleet{
		ID:             g.NextFleetID - 1,
		Owner:          actor,
		Source:         cmd.Source,
		Destination:    cmd.Destination,
		Ships:          cmd.Ships,
		TurnsRemaining: spatial.TurnsRequired(spatial.Distance(source.Position, dest.Position), g.Rules.ETA),
		LaunchedYear:   g.Year,
	}
	g.Fleets = append(g.Fleets, fleet)

	return &fleet, nil
}

// DeclareReady marks the actor ready. When that completes the quorum the
// barrier fires before returning and the report is non-nil. Declaring twice is
// a no-op.
func (g *Game) DeclareReady(actor string) (*TurnReport, error) {
	player := g.Player(actor)
	if player == nil {
		return nil, errors.Forbiddenf("player %q does not take part in game %s", actor, g.ID)
	}

	player.Ready = true

	if !g.AllReady() {
		return nil, nil
	}

	return g.advanceTurn()
}

// CancelReady withdraws the actor's readiness for the current year
func (g *Game) CancelReady(actor string) error {
	player := g.Player(actor)
	if player == nil {
		return errors.Forbiddenf("player %q does not take part in game %s", actor, g.ID)
	}

	player.Ready = false
	return nil
}
