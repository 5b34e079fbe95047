package game

import (
	"fmt"

	"risiko-server/internal/shared/config"
	"risiko-server/internal/spatial"
)

// Settings bound and default the parameters of new games
type Settings struct {
	Grid            spatial.Grid
	MinPlanets      int
	MaxPlanets      int
	DefaultPlanets  int
	MaxGalaxies     int
	DefaultGalaxies int
	PirateFraction  float64
	PirateGarrison  int
	Rules           Rules
}

func DefaultSettings() Settings {
	return Settings{
		Grid:            spatial.Grid{Rows: 40, Cols: 15},
		MinPlanets:      1,
		MaxPlanets:      600,
		DefaultPlanets:  80,
		MaxGalaxies:     10,
		DefaultGalaxies: 1,
		PirateFraction:  0.35,
		PirateGarrison:  15,
		Rules: Rules{
			ETA:                spatial.ETARound,
			Combat:             CombatRaw,
			MinLaunchShips:     5,
			MaxPlayers:         8,
			StartingShips:      250,
			StartingProduction: 10,
			StartingDefense:    1.0,
		},
	}
}

// SettingsFromConfig maps the GAME_* configuration onto Settings
func SettingsFromConfig(cfg config.GameConfig) (Settings, error) {
	eta, err := spatial.ParseETAPolicy(cfg.ETAPolicy)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid game configuration: %w", err)
	}

	combat, err := ParseCombatPolicy(cfg.CombatPolicy)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid game configuration: %w", err)
	}

	return Settings{
		Grid:            spatial.Grid{Rows: cfg.GridRows, Cols: cfg.GridCols},
		MinPlanets:      cfg.MinPlanets,
		MaxPlanets:      cfg.MaxPlanets,
		DefaultPlanets:  cfg.DefaultPlanets,
		MaxGalaxies:     cfg.MaxGalaxies,
		DefaultGalaxies: cfg.DefaultGalaxies,
		PirateFraction:  cfg.PirateFraction,
		PirateGarrison:  cfg.PirateGarrison,
		Rules: Rules{
			ETA:                eta,
			Combat:             combat,
			MinLaunchShips:     cfg.MinLaunchShips,
			MaxPlayers:         cfg.MaxPlayers,
			StartingShips:      cfg.StartingShips,
			StartingProduction: cfg.StartingProduction,
			StartingDefense:    cfg.StartingDefense,
		},
	}, nil
}
