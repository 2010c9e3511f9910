//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"epigrid/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws automaton borders and id labels over a tiled sim.
// Key 1 toggles borders, key 2 toggles ids.
type Overlay struct {
	sim        core.Sim
	scale      int
	showBorder bool
	showIDs    bool
	pixel      *ebiten.Image
}

// NewOverlay constructs an overlay with borders and ids visible.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showBorder: true, showIDs: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showBorder = !o.showBorder
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showIDs = !o.showIDs
	}
}

// Draw renders the overlay onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	tiled, ok := o.sim.(core.Tiled)
	if !ok {
		return
	}
	t := tiled.Tiling()
	if t.N <= 0 || t.Rows <= 0 || t.Cols <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	span := t.N * scale
	width, height := t.Cols*span, t.Rows*span
	lineColor := color.RGBA{R: 40, G: 40, B: 48, A: 255}

	if o.showBorder {
		for c := 1; c < t.Cols; c++ {
			o.fillRect(screen, c*span, 0, 1, height, lineColor)
		}
		for r := 1; r < t.Rows; r++ {
			o.fillRect(screen, 0, r*span, width, 1, lineColor)
		}
	}
	if o.showIDs {
		face := basicfont.Face7x13
		for r, row := range tiled.IDs() {
			for c, id := range row {
				label := fmt.Sprintf("id %d", id)
				x, y := c*span+4, r*span+14
				bounds := text.BoundString(face, label)
				o.fillRect(screen, x-2, y-bounds.Dy()-1, bounds.Dx()+4, bounds.Dy()+4, color.RGBA{A: 160})
				text.Draw(screen, label, face, x, y, color.White)
			}
		}
	}
}

func (o *Overlay) fillRect(dst *ebiten.Image, x, y, w, h int, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(o.pixel, op)
}
