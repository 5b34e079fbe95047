package game

// TurnReport describes one firing of the readiness barrier
type TurnReport struct {
	PreviousYear int       `json:"previous_year"`
	Year         int       `json:"year"`
	Arrivals     []Arrival `json:"arrivals"`
	Produced     int       `json:"produced"`
	InFlight     int       `json:"in_flight"`
}

// advanceTurn is the barrier body: fleets, then production, then the year,
// then readiness. Callers run it on a working copy so a failure leaves the
// committed game untouched.
func (g *Game) advanceTurn() (*TurnReport, error) {
	report := &TurnReport{PreviousYear: g.Year}

	arrivals, err := g.resolveFleets()
	if err != nil {
		return nil, err
	}
	report.Arrivals = arrivals

	report.Produced = g.produce()

	g.Year++
	for i := range g.Players {
		g.Players[i].Ready = false
	}

	if err := g.CheckInvariants(); err != nil {
		return nil, err
	}

	report.Year = g.Year
	report.InFlight = len(g.Fleets)
	return report, nil
}

func (g *Game) produce() int {
	produced := 0
	for gi := range g.Galaxies {
		systems := g.Galaxies[gi].Systems
		for si := range systems {
			if systems[si].Produces() {
				systems[si].CurrentShips += systems[si].ShipProduction
				produced += systems[si].ShipProduction
			}
		}
	}
	return produced
}
