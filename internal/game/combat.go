package game

import "math"

// Battle is the result of a hostile fleet meeting a garrison
type Battle struct {
	Captured bool
	// Remaining is the attacker's surviving ships on capture, otherwise the
	// defender's surviving garrison.
	Remaining int
}

// Fight resolves an attack of ships against defenders at a system with the
// given defense factor. An exact tie always leaves the defender in place.
//
// CombatRaw: the attacker captures iff ships > defenders and keeps
// ships-defenders; otherwise the garrison shrinks by ships.
//
// CombatDefense: the garrison fights with defenders*defense strength. The
// attacker captures iff ships exceed that strength and keeps ships minus the
// strength rounded up; otherwise the garrison loses ships/defense rounded down.
func Fight(policy CombatPolicy, ships, defenders int, defense float64) Battle {
	switch policy {
	case CombatDefense:
		strength := quantize(float64(defenders) * defense)
		if float64(ships) > strength {
			return Battle{Captured: true, Remaining: max(0, ships-int(math.Ceil(strength)))}
		}
		losses := int(math.Floor(quantize(float64(ships) / defense)))
		return Battle{Remaining: max(0, defenders-losses)}
	default:
		if ships > defenders {
			return Battle{Captured: true, Remaining: ships - defenders}
		}
		return Battle{Remaining: max(0, defenders-ships)}
	}
}

// quantize drops float noise such as 10*0.7 == 7.000000000000001
func quantize(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
