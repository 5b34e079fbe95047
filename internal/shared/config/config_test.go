package config

import (
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Game.DefaultPlanets != 80 {
		t.Fatalf("expected 80 default planets, got %d", cfg.Game.DefaultPlanets)
	}
	if cfg.Game.GridRows*cfg.Game.GridCols != 600 {
		t.Fatalf("expected a 40x15 grid, got %dx%d", cfg.Game.GridRows, cfg.Game.GridCols)
	}
	if cfg.Game.ETAPolicy != "round" || cfg.Game.CombatPolicy != "raw" {
		t.Fatalf("unexpected default policies %q/%q", cfg.Game.ETAPolicy, cfg.Game.CombatPolicy)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("expected postgres driver by default, got %q", cfg.Database.Driver)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing secret",
			env:  map[string]string{"JWT_SECRET": ""},
			want: "JWT_SECRET is required",
		},
		{
			name: "short secret",
			env:  map[string]string{"JWT_SECRET": "short"},
			want: "at least 32 characters",
		},
		{
			name: "unknown driver",
			env:  map[string]string{"JWT_SECRET": testSecret, "DB_DRIVER": "mysql"},
			want: "DB_DRIVER",
		},
		{
			name: "planets beyond grid",
			env:  map[string]string{"JWT_SECRET": testSecret, "GAME_MAX_PLANETS": "601"},
			want: "grid capacity",
		},
		{
			name: "unknown eta policy",
			env:  map[string]string{"JWT_SECRET": testSecret, "GAME_ETA_POLICY": "floor"},
			want: "GAME_ETA_POLICY",
		},
		{
			name: "unknown combat policy",
			env:  map[string]string{"JWT_SECRET": testSecret, "GAME_COMBAT_POLICY": "dice"},
			want: "GAME_COMBAT_POLICY",
		},
		{
			name: "pirate fraction out of range",
			env:  map[string]string{"JWT_SECRET": testSecret, "GAME_PIRATE_FRACTION": "1.5"},
			want: "GAME_PIRATE_FRACTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSQLiteDriverNeedsPath(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "SQLite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected driver to be normalised to sqlite, got %q", cfg.Database.Driver)
	}
}

func TestFrontendOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("FRONTEND_URL", "https://play.example.com")
	t.Setenv("FRONTEND_EXTRA_ORIGINS", " https://beta.example.com, ,http://localhost:5173")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := strings.Join(cfg.Frontend.Origins(), " ")
	want := "https://play.example.com https://beta.example.com http://localhost:5173"
	if got != want {
		t.Fatalf("origins = %q, want %q", got, want)
	}
}
