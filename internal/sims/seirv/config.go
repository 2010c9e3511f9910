package seirv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"epigrid/pkg/epidemic"
)

// Fill seeds a rectangle of one automaton with a state.
type Fill struct {
	Row, Col int
	State    epidemic.State

	StartRow, StartCol int
	Height, Width      int
}

// String renders the fill in the form accepted by ParseFills.
func (f Fill) String() string {
	return fmt.Sprintf("%d,%d:%s:%d,%d,%d,%d", f.Row, f.Col, f.State, f.StartRow, f.StartCol, f.Height, f.Width)
}

// Config controls the matrix layout, seeding and rates of the simulation.
type Config struct {
	Rows int
	Cols int
	N    int

	Seed int64

	// DefaultID tags every automaton not covered by IDs.
	DefaultID int
	// IDs optionally overrides ids row by row.
	IDs [][]int

	Fills []Fill
	Rates epidemic.Rates

	// Recount selects the exact-counter fill instead of the historical
	// increment-only fill.
	Recount bool
}

// DefaultConfig returns the standard 2x2 scenario: susceptible automata on
// the left, infected automata on the right, each matrix row one connected
// region.
func DefaultConfig() Config {
	c := Config{
		Rows:      2,
		Cols:      2,
		N:         20,
		Seed:      1337,
		DefaultID: 1,
		Rates:     epidemic.DefaultRates(),
	}
	c.IDs, c.Fills = defaultLayout(c.Rows, c.Cols, c.N)
	return c
}

// defaultLayout tags each matrix row with its own id and alternates
// susceptible and infected columns. Infected automata below the first row
// only carry an n/2 x n/2 patch in their top-left corner. Fills never
// overlap.
func defaultLayout(rows, cols, n int) ([][]int, []Fill) {
	ids := make([][]int, rows)
	var fills []Fill
	for r := 0; r < rows; r++ {
		ids[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			ids[r][c] = r + 1
			switch {
			case c%2 == 0:
				fills = append(fills, Fill{Row: r, Col: c, State: epidemic.Susceptible, Height: n, Width: n})
			case r == 0:
				fills = append(fills, Fill{Row: r, Col: c, State: epidemic.Infected, Height: n, Width: n})
			default:
				fills = append(fills, Fill{Row: r, Col: c, State: epidemic.Infected, Height: n / 2, Width: n / 2})
			}
		}
	}
	return ids, fills
}

var (
	// ErrBadIDs is returned for malformed id layouts.
	ErrBadIDs = errors.New("malformed id layout")
	// ErrBadFill is returned for malformed fill descriptors.
	ErrBadFill = errors.New("malformed fill")
)

// ParseIDs parses a row-major id layout such as "1,1;2,2".
func ParseIDs(v string) ([][]int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadIDs)
	}
	var out [][]int
	for _, rowText := range strings.Split(v, ";") {
		var row []int
		for _, field := range strings.Split(rowText, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrBadIDs, field, err)
			}
			row = append(row, id)
		}
		if len(out) > 0 && len(row) != len(out[0]) {
			return nil, fmt.Errorf("%w: ragged row %q", ErrBadIDs, rowText)
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseFills parses fills of the form "row,col:STATE:r0,c0,h,w" separated
// by semicolons.
func ParseFills(v string) ([]Fill, error) {
	var out []Fill
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := parseFill(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadFill)
	}
	return out, nil
}

func parseFill(v string) (Fill, error) {
	sections := strings.Split(v, ":")
	if len(sections) != 3 {
		return Fill{}, fmt.Errorf("%w: %q: want row,col:STATE:r0,c0,h,w", ErrBadFill, v)
	}
	pos, err := parseInts(sections[0], 2)
	if err != nil {
		return Fill{}, fmt.Errorf("%w: %q: position: %v", ErrBadFill, v, err)
	}
	state, err := epidemic.ParseState(sections[1])
	if err != nil {
		return Fill{}, fmt.Errorf("%w: %q: %v", ErrBadFill, v, err)
	}
	rect, err := parseInts(sections[2], 4)
	if err != nil {
		return Fill{}, fmt.Errorf("%w: %q: rectangle: %v", ErrBadFill, v, err)
	}
	return Fill{
		Row: pos[0], Col: pos[1], State: state,
		StartRow: rect[0], StartCol: rect[1], Height: rect[2], Width: rect[3],
	}, nil
}

func parseInts(v string, want int) ([]int, error) {
	fields := strings.Split(v, ",")
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d integers, got %d", want, len(fields))
	}
	out := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Values that fail to parse keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rows"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Rows = parsed
		}
	}
	if v, ok := cfg["cols"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Cols = parsed
		}
	}
	if v, ok := cfg["n"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.N = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	c.IDs, c.Fills = defaultLayout(c.Rows, c.Cols, c.N)
	if v, ok := cfg["id"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.DefaultID = parsed
			c.IDs = nil
		}
	}
	if v, ok := cfg["ids"]; ok {
		if parsed, err := ParseIDs(v); err == nil {
			c.IDs = parsed
		}
	}
	if v, ok := cfg["fill"]; ok {
		if parsed, err := ParseFills(v); err == nil {
			c.Fills = parsed
		}
	}
	rates := []struct {
		key string
		dst *float64
	}{
		{"exposure", &c.Rates.Exposure},
		{"infection", &c.Rates.Infection},
		{"recovery", &c.Rates.Recovery},
		{"mortality", &c.Rates.Mortality},
		{"immunity_loss", &c.Rates.ImmunityLoss},
	}
	for _, r := range rates {
		if v, ok := cfg[r.key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
				*r.dst = parsed
			}
		}
	}
	if v, ok := cfg["recount"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Recount = parsed
		}
	}
	return c
}

// Validate checks the config for values NewWithConfig cannot honor.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 || c.N <= 0 {
		return fmt.Errorf("%w: rows=%d cols=%d n=%d", epidemic.ErrInvalidShape, c.Rows, c.Cols, c.N)
	}
	if err := c.Rates.Validate(); err != nil {
		return err
	}
	if len(c.IDs) > c.Rows {
		return fmt.Errorf("%w: %d id rows for %d matrix rows", ErrBadIDs, len(c.IDs), c.Rows)
	}
	for _, row := range c.IDs {
		if len(row) > c.Cols {
			return fmt.Errorf("%w: %d ids for %d matrix columns", ErrBadIDs, len(row), c.Cols)
		}
	}
	for _, f := range c.Fills {
		if f.Row < 0 || f.Row >= c.Rows || f.Col < 0 || f.Col >= c.Cols {
			return fmt.Errorf("%w: %s targets automaton outside %dx%d", ErrBadFill, f, c.Rows, c.Cols)
		}
	}
	return nil
}
