package game

import "testing"

func TestFight(t *testing.T) {
	tests := []struct {
		name      string
		policy    CombatPolicy
		ships     int
		defenders int
		defense   float64
		want      Battle
	}{
		{"raw capture keeps the difference", CombatRaw, 8, 5, 1.0, Battle{Captured: true, Remaining: 3}},
		{"raw exact tie leaves an empty garrison", CombatRaw, 5, 5, 1.0, Battle{Remaining: 0}},
		{"raw repelled", CombatRaw, 3, 5, 1.0, Battle{Remaining: 2}},
		{"raw ignores defense factor", CombatRaw, 6, 10, 0.5, Battle{Remaining: 4}},
		{"raw against empty system", CombatRaw, 6, 0, 1.0, Battle{Captured: true, Remaining: 6}},

		{"defense 1.0 capture", CombatDefense, 8, 5, 1.0, Battle{Captured: true, Remaining: 3}},
		{"defense 1.0 exact tie", CombatDefense, 5, 5, 1.0, Battle{Remaining: 0}},
		{"defense 0.5 exact tie", CombatDefense, 5, 10, 0.5, Battle{Remaining: 0}},
		{"defense 0.5 capture", CombatDefense, 6, 10, 0.5, Battle{Captured: true, Remaining: 1}},
		{"defense 0.5 repelled", CombatDefense, 2, 10, 0.5, Battle{Remaining: 6}},
		{"defense 0.7 tie despite float noise", CombatDefense, 7, 10, 0.7, Battle{Remaining: 0}},
		{"defense 0.7 capture", CombatDefense, 8, 10, 0.7, Battle{Captured: true, Remaining: 1}},
		{"defense fractional strength rounds up", CombatDefense, 3, 3, 0.75, Battle{Captured: true, Remaining: 0}},
		{"defense losses round down", CombatDefense, 3, 10, 0.8, Battle{Remaining: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fight(tt.policy, tt.ships, tt.defenders, tt.defense)
			if got != tt.want {
				t.Fatalf("Fight(%s, %d, %d, %v) = %+v, want %+v", tt.policy, tt.ships, tt.defenders, tt.defense, got, tt.want)
			}
		})
	}
}

func TestFightNeverCreatesShips(t *testing.T) {
	for _, policy := range []CombatPolicy{CombatRaw, CombatDefense} {
		for _, defense := range []float64{0.5, 0.66, 0.7, 0.85, 1.0} {
			for ships := 1; ships <= 40; ships++ {
				for defenders := 0; defenders <= 40; defenders++ {
					b := Fight(policy, ships, defenders, defense)
					if b.Remaining < 0 {
						t.Fatalf("%s: negative remaining for %d vs %d at %v", policy, ships, defenders, defense)
					}
					if b.Remaining > ships+defenders {
						t.Fatalf("%s: %d vs %d at %v left %d ships", policy, ships, defenders, defense, b.Remaining)
					}
					if b.Captured && ships <= defenders && defense == 1.0 {
						t.Fatalf("%s: %d ships captured %d defenders", policy, ships, defenders)
					}
				}
			}
		}
	}
}
