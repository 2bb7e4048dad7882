package render

import (
	"image/color"

	"cleansim/internal/cleaning"
)

// Palette maps display cell values to colors: white clean floor,
// ochre dirt, red robot.
func Palette() []color.RGBA {
	p := make([]color.RGBA, 3)
	p[cleaning.DisplayClean] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p[cleaning.DisplayDirty] = color.RGBA{R: 0xb2, G: 0xac, B: 0x88, A: 255}
	p[cleaning.DisplayRobot] = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	return p
}
