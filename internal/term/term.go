// Package term draws a sim in a terminal with tcell. Each cell takes two
// columns so automata stay roughly square.
package term

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"epigrid/internal/core"
	"epigrid/internal/report"
	"epigrid/pkg/epidemic"
)

// Viewer owns the screen loop for one sim.
type Viewer struct {
	screen  tcell.Screen
	sim     core.Sim
	palette []color.RGBA
	pacer   *core.FixedStep
	seed    int64
	paused  bool
}

// New builds a viewer. tps paces ticks independently of the redraw rate.
func New(screen tcell.Screen, sim core.Sim, tps int, seed int64) *Viewer {
	v := &Viewer{screen: screen, sim: sim, pacer: core.NewFixedStep(tps), seed: seed}
	if p, ok := sim.(core.PaletteProvider); ok {
		v.palette = p.Palette()
	}
	return v
}

// Paused reports whether automatic ticking is suspended.
func (v *Viewer) Paused() bool { return v.paused }

// HandleEvent applies one input event and reports whether the viewer should
// keep running.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'n':
			v.paused = true
			v.sim.Step()
		case 'r':
			v.sim.Reset(v.seed)
		case 's':
			v.seed = time.Now().UnixNano()
			v.sim.Reset(v.seed)
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// Tick advances the sim when the pacer allows it.
func (v *Viewer) Tick() {
	if !v.paused && v.pacer.ShouldStep() {
		v.sim.Step()
	}
}

// Draw renders the grid and a status line below it.
func (v *Viewer) Draw() {
	v.screen.Clear()
	size := v.sim.Size()
	cells := v.sim.Cells()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			value := cells[y*size.W+x]
			style := tcell.StyleDefault.Background(v.color(value)).Foreground(tcell.ColorBlack)
			glyph := rune(report.GridGlyph(epidemic.State(value)))
			v.screen.SetContent(x*2, y, glyph, nil, style)
			v.screen.SetContent(x*2+1, y, ' ', nil, style)
		}
	}
	v.drawLine(0, size.H, v.status())
	v.drawLine(0, size.H+1, "[space] pause  [n] step  [r] reset  [s] reseed  [q] quit")
	v.screen.Show()
}

func (v *Viewer) color(value uint8) tcell.Color {
	if len(v.palette) == 0 {
		if value == 0 {
			return tcell.ColorBlack
		}
		return tcell.ColorWhite
	}
	idx := int(value)
	if idx >= len(v.palette) {
		idx = len(v.palette) - 1
	}
	c := v.palette[idx]
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (v *Viewer) status() string {
	state := "running"
	if v.paused {
		state = "paused"
	}
	p, ok := v.sim.(core.CensusProvider)
	if !ok {
		return fmt.Sprintf("%s  %s", v.sim.Name(), state)
	}
	var total epidemic.Counts
	for _, row := range p.Census() {
		for _, c := range row {
			total = total.Add(c)
		}
	}
	return fmt.Sprintf("%s  tick %d  %s  %s", v.sim.Name(), p.Ticks(), total, state)
}

func (v *Viewer) drawLine(x, y int, s string) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

// Run polls input and redraws until the user quits or ctx is cancelled. The
// caller owns Init and Fini of the screen.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !v.HandleEvent(ev) {
				return nil
			}
			v.Draw()
		case <-ticker.C:
			v.Tick()
			v.Draw()
		}
	}
}
