// Package epidemic simulates SEIR epidemics with vacant cells on a matrix of
// square automata. Automata that share an id behave as one contiguous region.
package epidemic

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// State enumerates the epidemic compartments a cell can occupy.
type State uint8

const (
	Vacant State = iota
	Susceptible
	Exposed
	Infected
	Recovered
)

// NumStates is the number of distinct cell states.
const NumStates = 5

var stateCodes = [NumStates]string{"V", "S", "E", "I", "R"}

var stateNames = [NumStates]string{"vacant", "susceptible", "exposed", "infected", "recovered"}

// String returns the single-letter code for the state.
func (s State) String() string {
	if int(s) < NumStates {
		return stateCodes[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Name returns the lower-case long name for the state.
func (s State) Name() string {
	if int(s) < NumStates {
		return stateNames[s]
	}
	return s.String()
}

// States lists every state in declaration order.
func States() []State {
	return []State{Vacant, Susceptible, Exposed, Infected, Recovered}
}

// ParseState accepts either a single-letter code or a long name.
func ParseState(v string) (State, error) {
	v = strings.TrimSpace(v)
	for i := 0; i < NumStates; i++ {
		if strings.EqualFold(v, stateCodes[i]) || strings.EqualFold(v, stateNames[i]) {
			return State(i), nil
		}
	}
	return Vacant, fmt.Errorf("%w: %q", ErrUnknownState, v)
}

var (
	// ErrUnknownState is returned by ParseState for unrecognized input.
	ErrUnknownState = errors.New("unknown state")
	// ErrInvalidRate is returned when a transition rate is outside [0,1].
	ErrInvalidRate = errors.New("rate must be within [0,1]")
)

// Rates holds the per-cell transition probabilities.
type Rates struct {
	// Exposure is the chance a susceptible cell with an infected neighbor becomes exposed.
	Exposure float64
	// Infection is the chance an exposed cell becomes infected.
	Infection float64
	// Recovery is the chance an infected cell recovers.
	Recovery float64
	// Mortality reverts an infected cell to susceptible.
	Mortality float64
	// ImmunityLoss is the chance a recovered cell becomes susceptible again.
	ImmunityLoss float64
}

// DefaultRates returns the uniform rates every cell starts with.
func DefaultRates() Rates {
	return Rates{
		Exposure:     0.2,
		Infection:    0.1,
		Recovery:     0.1,
		Mortality:    0.05,
		ImmunityLoss: 0.01,
	}
}

// Validate reports the first rate that is NaN or outside [0,1].
func (r Rates) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"exposure", r.Exposure},
		{"infection", r.Infection},
		{"recovery", r.Recovery},
		{"mortality", r.Mortality},
		{"immunity_loss", r.ImmunityLoss},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidRate, f.name, f.v)
		}
	}
	return nil
}

// Cell is the atomic unit of the simulation.
type Cell struct {
	State State
	Rates Rates
}

// NewCell returns a vacant cell with default rates.
func NewCell() Cell {
	return Cell{State: Vacant, Rates: DefaultRates()}
}
