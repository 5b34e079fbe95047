package spatial

import "math"

// Distance returns the Euclidean distance between two grid positions
func Distance(a, b Position) float64 {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// TurnsRequired converts a distance into the number of turn advances a fleet
// needs to arrive. The result is never below one.
func TurnsRequired(distance float64, policy ETAPolicy) int {
	var turns float64
	switch policy {
	case ETACeil:
		turns = math.Ceil(distance)
	default:
		turns = math.Round(distance)
	}

	if turns < 1 {
		return 1
	}
	return int(turns)
}
