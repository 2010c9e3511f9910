package epidemic

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// constSource always returns the same draw.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

// sequenceSource replays a recorded list of draws, cycling when exhausted.
type sequenceSource struct {
	draws []float64
	pos   int
}

func (s *sequenceSource) Float64() float64 {
	v := s.draws[s.pos%len(s.draws)]
	s.pos++
	return v
}

func recordDraws(seed uint64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, 0))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()
	}
	return out
}

type SchedulerSuite struct {
	suite.Suite
}

// twoAutomata builds a 1x2 matrix of 5x5 automata: left susceptible with
// certain exposure, right fully infected.
func (s *SchedulerSuite) twoAutomata(leftID, rightID int) (*Matrix, *Automaton, *Automaton) {
	m, err := NewMatrix(1, 2, 5, leftID)
	s.Require().NoError(err)
	s.Require().NoError(m.SetID(0, 1, rightID))
	left, _ := m.At(0, 0)
	right, _ := m.At(0, 1)
	left.FillRegion(Susceptible, 0, 0, 5, 5)
	left.SetRates(Rates{Exposure: 1, Infection: 1, Recovery: 0.1, Mortality: 0.05, ImmunityLoss: 0.01}, 0, 0, 5, 5)
	right.FillRegion(Infected, 0, 0, 5, 5)
	return m, left, right
}

func (s *SchedulerSuite) TestSameIDBoundaryExposesEdgeColumn() {
	m, left, right := s.twoAutomata(7, 7)

	for r := 0; r < 5; r++ {
		s.Require().Positive(m.CountInfectedNeighbors(left, r, 4))
	}
	s.Require().Equal(3, m.CountInfectedNeighbors(left, 2, 4))

	NewScheduler(m, constSource(0.5)).Advance(1)

	for r := 0; r < 5; r++ {
		s.Require().Equal(Exposed, left.StateAt(r, 4), "row %d right edge", r)
		s.Require().Equal(Susceptible, left.StateAt(r, 0), "row %d left edge", r)
		for c := 0; c < 4; c++ {
			s.Require().Equal(Susceptible, left.StateAt(r, c))
		}
	}
	s.Require().Equal(25, right.RecomputeCounts()[Infected])
}

func (s *SchedulerSuite) TestDifferentIDBoundaryIsClosed() {
	m, left, _ := s.twoAutomata(1, 2)

	NewScheduler(m, constSource(0)).Advance(1)

	for r := 0; r < 5; r++ {
		s.Require().Equal(Susceptible, left.StateAt(r, 4))
	}
	s.Require().Equal(25, left.RecomputeCounts()[Susceptible])
}

func (s *SchedulerSuite) TestTickIsSynchronous() {
	m, err := NewMatrix(1, 1, 7, 1)
	s.Require().NoError(err)
	a, _ := m.At(0, 0)
	a.FillRegion(Susceptible, 0, 0, 7, 7)
	a.SetRates(Rates{Exposure: 1, Infection: 1}, 0, 0, 7, 7)
	a.FillRegion(Infected, 3, 3, 1, 1)

	NewScheduler(m, constSource(0.5)).Advance(1)

	counts := a.RecomputeCounts()
	s.Require().Equal(8, counts[Exposed], "only direct neighbors see the pre-tick infection")
	s.Require().Equal(40, counts[Susceptible])
	s.Require().Equal(Exposed, a.StateAt(2, 2))
	s.Require().Equal(Susceptible, a.StateAt(1, 3))
}

func (s *SchedulerSuite) TestVacantIsAbsorbing() {
	m, err := NewMatrix(2, 2, 6, 1)
	s.Require().NoError(err)
	m.Each(func(a *Automaton) {
		a.FillRegion(Infected, 0, 0, 6, 3)
		a.SetRates(Rates{Exposure: 1, Infection: 1, Recovery: 1, Mortality: 1, ImmunityLoss: 1}, 0, 0, 6, 6)
	})

	NewScheduler(m, rand.New(rand.NewPCG(5, 0))).Advance(25)

	m.Each(func(a *Automaton) {
		for r := 0; r < 6; r++ {
			for c := 3; c < 6; c++ {
				s.Require().Equal(Vacant, a.StateAt(r, c))
			}
		}
	})
}

func (s *SchedulerSuite) TestCountsMatchTallyAfterAdvance() {
	m, err := NewMatrix(2, 3, 8, 1)
	s.Require().NoError(err)
	s.Require().NoError(m.SetID(1, 2, 2))
	m.Each(func(a *Automaton) {
		a.FillRegion(Susceptible, 0, 0, 8, 8)
		a.FillRegion(Infected, 2, 2, 3, 3)
		a.FillRegion(Vacant, 6, 0, 2, 8)
	})

	sched := NewScheduler(m, rand.New(rand.NewPCG(11, 0)))
	sched.Advance(12)
	s.Require().Equal(12, sched.Ticks())

	m.Each(func(a *Automaton) {
		got := a.RecomputeCounts()
		s.Require().Equal(tally(a), got)
		s.Require().Equal(64, got.Total())
		s.Require().Equal(got, a.RecomputeCounts())
	})
}

func (s *SchedulerSuite) TestDeterministicGivenRecordedDraws() {
	build := func() *Matrix {
		m, err := NewMatrix(2, 2, 6, 1)
		s.Require().NoError(err)
		s.Require().NoError(m.SetID(0, 1, 2))
		m.Each(func(a *Automaton) {
			a.FillRegion(Susceptible, 0, 0, 6, 6)
			a.FillRegion(Infected, 0, 0, 2, 2)
		})
		return m
	}
	draws := recordDraws(42, 2*2*6*6*10)

	first := build()
	NewScheduler(first, &sequenceSource{draws: draws}).Advance(10)
	second := build()
	NewScheduler(second, &sequenceSource{draws: draws}).Advance(10)

	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			a, _ := first.At(r, c)
			b, _ := second.At(r, c)
			s.Require().True(slices.Equal(a.States(), b.States()), "automaton (%d,%d) diverged", r, c)
		}
	}
}

func (s *SchedulerSuite) TestAdvanceSplitsMatchSingleCall() {
	build := func() *Matrix {
		m, err := NewMatrix(1, 2, 5, 3)
		s.Require().NoError(err)
		m.Each(func(a *Automaton) { a.FillRegion(Susceptible, 0, 0, 5, 5) })
		a, _ := m.At(0, 1)
		a.FillRegion(Infected, 1, 1, 2, 2)
		return m
	}

	whole := build()
	NewScheduler(whole, rand.New(rand.NewPCG(9, 9))).Advance(6)

	split := build()
	sched := NewScheduler(split, rand.New(rand.NewPCG(9, 9)))
	sched.Advance(2)
	sched.Step()
	sched.Advance(0)
	sched.Advance(-3)
	sched.Advance(3)
	s.Require().Equal(6, sched.Ticks())

	for c := 0; c < 2; c++ {
		a, _ := whole.At(0, c)
		b, _ := split.At(0, c)
		s.Require().Equal(a.States(), b.States())
	}
}

func (s *SchedulerSuite) TestObserverRunsAfterCommit() {
	m, left, _ := s.twoAutomata(7, 7)
	sched := NewScheduler(m, constSource(0.5))

	var seen []int
	sched.Observe(func(tick int, got *Matrix) {
		s.Require().Same(m, got)
		if tick == 1 {
			a, _ := got.At(0, 0)
			s.Require().Equal(Exposed, a.StateAt(2, 4), "observer must see committed state")
		}
		seen = append(seen, tick)
	})
	sched.Advance(3)

	s.Require().Equal([]int{1, 2, 3}, seen)
	s.Require().Equal(Infected, left.StateAt(2, 4), "exposure then certain progression")
}

func (s *SchedulerSuite) TestStaleCountersUntilRecompute() {
	m, left, _ := s.twoAutomata(7, 7)
	before := left.Counts()

	NewScheduler(m, constSource(0.5)).Advance(1)

	s.Require().Equal(before, left.Counts(), "advance leaves the cache alone")
	s.Require().Equal(5, left.RecomputeCounts()[Exposed])
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func TestSchedulerRunsWithSeededRand(t *testing.T) {
	m, err := NewMatrix(1, 1, 4, 1)
	require.NoError(t, err)
	a, _ := m.At(0, 0)
	a.FillRegion(Susceptible, 0, 0, 4, 4)
	a.FillRegion(Infected, 0, 0, 1, 1)

	sched := NewScheduler(m, rand.New(rand.NewPCG(1, 2)))
	sched.Advance(4)
	require.Equal(t, 16, a.RecomputeCounts().Total())
	require.Same(t, m, sched.Matrix())
}
