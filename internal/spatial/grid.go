package spatial

import (
	"fmt"
	"math/rand"
)

// Grid describes the rows x cols board every galaxy of a game is laid out on
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (g Grid) Capacity() int {
	return g.Rows * g.Cols
}

func (g Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// Positions returns n distinct cells of the grid in random order
func (g Grid) Positions(rng *rand.Rand, n int) ([]Position, error) {
	if n < 0 || n > g.Capacity() {
		return nil, fmt.Errorf("cannot place %d systems on a %dx%d grid", n, g.Rows, g.Cols)
	}

	cells := make([]Position, 0, g.Capacity())
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			cells = append(cells, Position{Row: row, Col: col})
		}
	}

	rng.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})

	return cells[:n], nil
}

var galaxyNames = []string{"Andromeda", "Milky Way", "Centaurus", "Pegasus", "Cygnus", "Draco"}

// GalaxyName returns a display name for the galaxy at index
func GalaxyName(index int) string {
	name := galaxyNames[index%len(galaxyNames)]
	if round := index / len(galaxyNames); round > 0 {
		return fmt.Sprintf("%s %d", name, round+1)
	}
	return name
}
