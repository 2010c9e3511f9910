package epidemic

// RandomSource supplies uniform draws in [0,1). *rand.Rand from
// math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// Observer is called after every committed tick with the 1-based
// cumulative tick number.
type Observer func(tick int, m *Matrix)

// Scheduler advances a Matrix in synchronous ticks. Each tick computes
// every cell from the pre-tick state into a shadow buffer and only then
// commits the shadow buffers into the live automata.
type Scheduler struct {
	m         *Matrix
	src       RandomSource
	shadow    [][]Cell
	ticks     int
	observers []Observer
}

// NewScheduler allocates the shadow buffers for m once; they are reused by
// every call to Advance.
func NewScheduler(m *Matrix, src RandomSource) *Scheduler {
	s := &Scheduler{m: m, src: src, shadow: make([][]Cell, len(m.automata))}
	for i, a := range m.automata {
		s.shadow[i] = make([]Cell, len(a.cells))
	}
	return s
}

// Matrix returns the live matrix driven by the scheduler.
func (s *Scheduler) Matrix() *Matrix { return s.m }

// Ticks returns the number of ticks committed so far.
func (s *Scheduler) Ticks() int { return s.ticks }

// Reset zeroes the tick counter. The matrix is left as is.
func (s *Scheduler) Reset() { s.ticks = 0 }

// SetSource replaces the random source used by subsequent ticks.
func (s *Scheduler) SetSource(src RandomSource) { s.src = src }

// Observe registers fn to run after every commit.
func (s *Scheduler) Observe(fn Observer) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Step advances the matrix by one tick.
func (s *Scheduler) Step() { s.Advance(1) }

// Advance runs the requested number of ticks. Non-positive counts are a
// no-op. Cached counters are not refreshed.
func (s *Scheduler) Advance(ticks int) {
	for t := 0; t < ticks; t++ {
		for i, a := range s.m.automata {
			s.compute(a, s.shadow[i])
		}
		for i, a := range s.m.automata {
			a.cells, s.shadow[i] = s.shadow[i], a.cells
		}
		s.ticks++
		for _, fn := range s.observers {
			fn(s.ticks, s.m)
		}
	}
}

// compute writes the next generation of a into next. One random value is
// drawn per cell, vacant cells included, so the stream position does not
// depend on the grid contents.
func (s *Scheduler) compute(a *Automaton, next []Cell) {
	n := a.n
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			idx := r*n + c
			cur := a.cells[idx]
			infected := s.m.CountInfectedNeighbors(a, r, c)
			draw := s.src.Float64()
			next[idx] = Cell{State: Transition(cur, infected, draw), Rates: cur.Rates}
		}
	}
}
