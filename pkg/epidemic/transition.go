package epidemic

// Transition returns the next state of c given the number of infected
// neighbors and a single uniform draw r in [0,1).
//
// The same r is compared against every threshold of a branch. For an
// infected cell the mortality check is reached only when the recovery
// check failed, so reversion to susceptible happens only for
// Recovery <= r < Mortality.
func Transition(c Cell, infected int, r float64) State {
	switch c.State {
	case Susceptible:
		if infected > 0 && r < c.Rates.Exposure {
			return Exposed
		}
	case Exposed:
		if r < c.Rates.Infection {
			return Infected
		}
	case Infected:
		if r < c.Rates.Recovery {
			return Recovered
		} else if r < c.Rates.Mortality {
			return Susceptible
		}
	case Recovered:
		if r < c.Rates.ImmunityLoss {
			return Susceptible
		}
	}
	return c.State
}
