package analysis

import (
	"strings"

	"github.com/StuyPulse/StuyLib-sub001/internal/metrics"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait is the tracking error (X) against its rate (Y). A settling
// loop spirals into the origin; a limit cycle traces a closed orbit.
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait differentiates the error of a recorded run. errFn
// defaults to metrics.Linear.
func NewPhasePortrait(result *sim.Result, errFn metrics.ErrorFunc) *PhasePortrait {
	if errFn == nil {
		errFn = metrics.Linear
	}
	p := &PhasePortrait{}
	if result == nil || result.Len() < 2 {
		return p
	}

	p.Points = make([]Point, 0, result.Len()-1)
	prev := errFn(result.Setpoints[0], result.Measurements[0])
	for i := 1; i < result.Len(); i++ {
		e := errFn(result.Setpoints[i], result.Measurements[i])
		dt := result.Times[i] - result.Times[i-1]
		if dt <= 0 {
			continue
		}
		p.Points = append(p.Points, Point{X: e, Y: (e - prev) / dt})
		prev = e
	}
	return p
}

// Crossings counts sign changes of the error, which is twice the number
// of oscillations about the setpoint.
func (p *PhasePortrait) Crossings() int {
	n := 0
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1].X, p.Points[i].X
		if (a < 0 && b >= 0) || (a > 0 && b <= 0) {
			n++
		}
	}
	return n
}

// ASCII renders the portrait on a width×height grid with axes through the
// origin when it is in view.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
