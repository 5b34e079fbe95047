package spatial

import "fmt"

// Position is a cell on a galaxy grid. It is assigned once when the galaxy is
// generated and never changes afterwards.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// ETAPolicy decides how a fractional distance becomes a whole number of turns.
type ETAPolicy string

const (
	// ETARound rounds half away from zero with a floor of one turn
	ETARound ETAPolicy = "round"
	// ETACeil takes the ceiling with a floor of one turn
	ETACeil ETAPolicy = "ceil"
)

func (p ETAPolicy) IsValid() bool {
	return p == ETARound || p == ETACeil
}

func ParseETAPolicy(s string) (ETAPolicy, error) {
	policy := ETAPolicy(s)
	if !policy.IsValid() {
		return "", fmt.Errorf("unknown ETA policy %q", s)
	}
	return policy, nil
}
