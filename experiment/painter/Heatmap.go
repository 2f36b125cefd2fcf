// Package painter renders learned value tables as image artifacts.
// Painters are experiment tooling: they produce static snapshots of a
// trained environment, not the interactive rendering that lives
// outside the core.
package painter

import (
	"fmt"

	"github.com/fogleman/gg"

	"github.com/MJRobillard/q-learner-grid/environment"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
	"github.com/MJRobillard/q-learner-grid/utils/floatutils"
)

// Heatmap paints the greedy value of every cell of an environment's
// grid to a PNG file. Cells are shaded by their maximum valid action
// value, rescaled between the table's minimum and maximum; hazard and
// goal cells keep fixed tints so the layout stays readable before any
// learning has happened.
type Heatmap struct {
	CellSize int // pixels per grid cell
}

// NewHeatmap returns a Heatmap painting cells at the given pixel size
func NewHeatmap(cellSize int) *Heatmap {
	if cellSize <= 0 {
		cellSize = 48
	}
	return &Heatmap{CellSize: cellSize}
}

// Save renders env's grid and writes the PNG to filename
func (h *Heatmap) Save(env environment.Environment, filename string) error {
	grid := env.Grid()
	size := grid.Size()
	px := h.CellSize

	dc := gg.NewContext(size*px, size*px)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	min := env.MinQValue()
	max := env.MaxQValue()

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			pos := gridworld.Position{Row: r, Col: c}
			x := float64(c * px)
			y := float64(r * px)

			switch grid.KindAt(pos) {
			case gridworld.Goal:
				dc.SetRGB(0.20, 0.70, 0.30)
			case gridworld.Hazard:
				dc.SetRGB(0.75, 0.15, 0.15)
			default:
				t := 0.5
				if max > min {
					value := env.MaxValidQValue(pos)
					t = floatutils.Clip((value-min)/(max-min), 0, 1)
				}
				// cold (blue) to warm (orange) ramp
				dc.SetRGB(0.15+0.70*t, 0.25+0.40*t, 0.85-0.65*t)
			}
			dc.DrawRectangle(x, y, float64(px), float64(px))
			dc.Fill()

			if pos == grid.Start() {
				dc.SetRGB(1, 1, 1)
				dc.SetLineWidth(2)
				dc.DrawRectangle(x+2, y+2, float64(px)-4, float64(px)-4)
				dc.Stroke()
			}

			if !grid.Terminal(pos) {
				dc.SetRGB(1, 1, 1)
				label := fmt.Sprintf("%.1f", env.MaxValidQValue(pos))
				dc.DrawStringAnchored(label, x+float64(px)/2,
					y+float64(px)/2, 0.5, 0.5)
			}
		}
	}

	// grid lines
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.SetLineWidth(1)
	for i := 0; i <= size; i++ {
		offset := float64(i * px)
		dc.DrawLine(offset, 0, offset, float64(size*px))
		dc.DrawLine(0, offset, float64(size*px), offset)
	}
	dc.Stroke()

	return dc.SavePNG(filename)
}
