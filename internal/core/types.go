package core

import (
	"image/color"
	"sort"

	"epigrid/pkg/epidemic"
)

// Size describes the dimensions of a simulation's display grid in cells.
type Size struct {
	W int
	H int
}

// Sim defines the contract the viewers and runners drive.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Tiling describes how a Sim's display grid is split into automata.
type Tiling struct {
	Rows, Cols int
	N          int
}

// Tiled is implemented by sims whose display is a matrix of automata.
type Tiled interface {
	Tiling() Tiling
	IDs() [][]int
}

// CensusProvider exposes per-automaton counts for HUDs, reports and metrics.
// Census refreshes the counters before returning them.
type CensusProvider interface {
	Census() [][]epidemic.Counts
	Ticks() int
}

// PaletteProvider maps display values to colors.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// Factory constructs a Sim using an optional configuration map. It returns
// an error when the map describes a scenario the sim cannot build.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names lists the registered simulations in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
