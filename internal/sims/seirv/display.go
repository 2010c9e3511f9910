package seirv

import (
	"image/color"

	"epigrid/pkg/epidemic"
)

var seirvPalette = []color.RGBA{
	epidemic.Vacant:      {R: 255, G: 255, B: 255, A: 255},
	epidemic.Susceptible: {R: 0, G: 255, B: 0, A: 255},
	epidemic.Exposed:     {R: 255, G: 255, B: 0, A: 255},
	epidemic.Infected:    {R: 255, G: 0, B: 0, A: 255},
	epidemic.Recovered:   {R: 0, G: 0, B: 255, A: 255},
}

// Palette exposes the color palette used for rendering cell states.
func (w *World) Palette() []color.RGBA {
	return seirvPalette
}

// StateColor returns the display color of s.
func StateColor(s epidemic.State) color.RGBA {
	if int(s) < len(seirvPalette) {
		return seirvPalette[s]
	}
	return color.RGBA{A: 255}
}
