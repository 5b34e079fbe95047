package game

import (
	"fmt"
	"time"

	"risiko-server/internal/spatial"
)

const (
	// Unowned marks a system nobody holds
	Unowned = ""
	// NeutralOwner marks a system occupied by pirates at creation
	NeutralOwner = "Pirates"

	MinDefenseFactor = 0.5
	MaxDefenseFactor = 1.0
)

type CombatPolicy string

const (
	// CombatRaw compares raw ship counts; the winner keeps the difference
	CombatRaw CombatPolicy = "raw"
	// CombatDefense scales the defenders by the system's defense factor
	CombatDefense CombatPolicy = "defense"
)

func (p CombatPolicy) IsValid() bool {
	return p == CombatRaw || p == CombatDefense
}

func ParseCombatPolicy(s string) (CombatPolicy, error) {
	policy := CombatPolicy(s)
	if !policy.IsValid() {
		return "", fmt.Errorf("unknown combat policy %q", s)
	}
	return policy, nil
}

// Rules are fixed when a game is created and travel with its snapshot, so a
// game resolves every fleet with the same formulas for its whole life.
type Rules struct {
	ETA                spatial.ETAPolicy `json:"eta_policy"`
	Combat             CombatPolicy      `json:"combat_policy"`
	MinLaunchShips     int               `json:"min_launch_ships"`
	MaxPlayers         int               `json:"max_players"`
	StartingShips      int               `json:"starting_ships"`
	StartingProduction int               `json:"starting_production"`
	StartingDefense    float64           `json:"starting_defense"`
}

// SystemRef addresses a system across the galaxies of one game
type SystemRef struct {
	Galaxy int `json:"galaxy"`
	ID     int `json:"id"`
}

func (r SystemRef) String() string {
	return fmt.Sprintf("%d/%d", r.Galaxy, r.ID)
}

func (r SystemRef) Less(o SystemRef) bool {
	if r.Galaxy != o.Galaxy {
		return r.Galaxy < o.Galaxy
	}
	return r.ID < o.ID
}

type System struct {
	ID             int              `json:"id"`
	Galaxy         int              `json:"galaxy"`
	Position       spatial.Position `json:"position"`
	Owner          string           `json:"owner"`
	CurrentShips   int              `json:"current_ships"`
	ShipProduction int              `json:"ship_production"`
	DefenseFactor  float64          `json:"defense_factor"`
}

func (s *System) Ref() SystemRef {
	return SystemRef{Galaxy: s.Galaxy, ID: s.ID}
}

func (s *System) IsNeutral() bool {
	return s.Owner == NeutralOwner
}

// Produces reports whether production applies to the system
func (s *System) Produces() bool {
	return s.Owner != Unowned && s.Owner != NeutralOwner
}

type Galaxy struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Systems []System `json:"systems"`
}

// System returns the system with the given id; ids run from 1 to len(Systems)
func (g *Galaxy) System(id int) *System {
	if id < 1 || id > len(g.Systems) {
		return nil
	}
	return &g.Systems[id-1]
}

type Fleet struct {
	ID             int       `json:"id"`
	Owner          string    `json:"owner"`
	Source         SystemRef `json:"source"`
	Destination    SystemRef `json:"destination"`
	Ships          int       `json:"ships"`
	TurnsRemaining int       `json:"turns_remaining"`
	LaunchedYear   int       `json:"launched_year"`
}

type Player struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	Ready      bool   `json:"ready"`
	JoinedYear int    `json:"joined_year"`
}

// Game is the aggregate root of one match. A *Game handed out by the Registry
// is a committed snapshot and must be treated as read-only.
type Game struct {
	ID          string       `json:"id"`
	Creator     string       `json:"creator"`
	Year        int          `json:"year"`
	Version     int64        `json:"version"`
	Rules       Rules        `json:"rules"`
	Grid        spatial.Grid `json:"grid"`
	Galaxies    []Galaxy     `json:"galaxies"`
	Fleets      []Fleet      `json:"fleets"`
	Players     []Player     `json:"players"`
	NextFleetID int          `json:"next_fleet_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Summary is the discovery view of a game
type Summary struct {
	ID          string    `json:"id"`
	Creator     string    `json:"creator"`
	PlayerCount int       `json:"player_count"`
	ReadyCount  int       `json:"ready_count"`
	Year        int       `json:"year"`
	SystemCount int       `json:"system_count"`
	FleetCount  int       `json:"fleet_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (g *Game) System(ref SystemRef) *System {
	if ref.Galaxy < 0 || ref.Galaxy >= len(g.Galaxies) {
		return nil
	}
	return g.Galaxies[ref.Galaxy].System(ref.ID)
}

func (g *Game) Player(name string) *Player {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return &g.Players[i]
		}
	}
	return nil
}

func (g *Game) IsParticipant(name string) bool {
	return g.Player(name) != nil
}

func (g *Game) SystemCount() int {
	count := 0
	for i := range g.Galaxies {
		count += len(g.Galaxies[i].Systems)
	}
	return count
}

func (g *Game) ReadyCount() int {
	count := 0
	for _, p := range g.Players {
		if p.Ready {
			count++
		}
	}
	return count
}

func (g *Game) AllReady() bool {
	return len(g.Players) > 0 && g.ReadyCount() == len(g.Players)
}

// TotalShips counts ships stationed in systems plus ships in flight
func (g *Game) TotalShips() int {
	total := 0
	for i := range g.Galaxies {
		for _, s := range g.Galaxies[i].Systems {
			total += s.CurrentShips
		}
	}
	for _, f := range g.Fleets {
		total += f.Ships
	}
	return total
}

func (g *Game) Summary() Summary {
	return Summary{
		ID:          g.ID,
		Creator:     g.Creator,
		PlayerCount: len(g.Players),
		ReadyCount:  g.ReadyCount(),
		Year:        g.Year,
		SystemCount: g.SystemCount(),
		FleetCount:  len(g.Fleets),
		CreatedAt:   g.CreatedAt,
	}
}

// Clone returns a deep copy that shares no slices with g
func (g *Game) Clone() *Game {
	c := *g

	c.Galaxies = make([]Galaxy, len(g.Galaxies))
	for i, galaxy := range g.Galaxies {
		systems := make([]System, len(galaxy.Systems))
		copy(systems, galaxy.Systems)
		galaxy.Systems = systems
		c.Galaxies[i] = galaxy
	}

	c.Fleets = make([]Fleet, len(g.Fleets))
	copy(c.Fleets, g.Fleets)

	c.Players = make([]Player, len(g.Players))
	copy(c.Players, g.Players)

	return &c
}
