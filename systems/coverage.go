package systems

import "math"

// CoverageGrid records which cells of the world have been inside any agent's
// sense radius during the current day. It never affects behavior.
type CoverageGrid struct {
	w, h       float64
	cell       float64
	cols, rows int
	wrap       bool
	data       []bool
	marked     int
}

// NewCoverageGrid creates a grid covering a w x h world.
func NewCoverageGrid(width, height, cellSize float64, wrap bool) *CoverageGrid {
	w := math.Max(1, math.Floor(width))
	h := math.Max(1, math.Floor(height))
	cell := math.Max(2, math.Floor(cellSize))
	cols := int(math.Ceil(w / cell))
	rows := int(math.Ceil(h / cell))

	return &CoverageGrid{
		w:    w,
		h:    h,
		cell: cell,
		cols: cols,
		rows: rows,
		wrap: wrap,
		data: make([]bool, cols*rows),
	}
}

// Clear resets every cell to unscanned.
func (g *CoverageGrid) Clear() {
	for i := range g.data {
		g.data[i] = false
	}
	g.marked = 0
}

// MarkCircle marks every cell whose center lies within the circle.
func (g *CoverageGrid) MarkCircle(x, y, r float64) {
	if r <= 0 {
		return
	}
	rr := r * r
	minCx := int(math.Floor((x - r) / g.cell))
	maxCx := int(math.Floor((x + r) / g.cell))
	minCy := int(math.Floor((y - r) / g.cell))
	maxCy := int(math.Floor((y + r) / g.cell))

	for cy := minCy; cy <= maxCy; cy++ {
		for cx := minCx; cx <= maxCx; cx++ {
			dx := float64(cx)*g.cell + g.cell*0.5 - x
			dy := float64(cy)*g.cell + g.cell*0.5 - y
			if g.wrap {
				// nearest wrapped image of the cell center
				if math.Abs(dx) > g.w/2 {
					dx -= math.Copysign(g.w, dx)
				}
				if math.Abs(dy) > g.h/2 {
					dy -= math.Copysign(g.h, dy)
				}
			}
			if dx*dx+dy*dy <= rr {
				g.markCell(cx, cy)
			}
		}
	}
}

func (g *CoverageGrid) markCell(cx, cy int) {
	if g.wrap {
		cx = ((cx % g.cols) + g.cols) % g.cols
		cy = ((cy % g.rows) + g.rows) % g.rows
	} else if cx < 0 || cy < 0 || cx >= g.cols || cy >= g.rows {
		return
	}
	i := cy*g.cols + cx
	if !g.data[i] {
		g.data[i] = true
		g.marked++
	}
}

// CoveredCells returns the number of marked cells.
func (g *CoverageGrid) CoveredCells() int {
	return g.marked
}

// CellArea returns the area of a single cell.
func (g *CoverageGrid) CellArea() float64 {
	return g.cell * g.cell
}

// CoveragePercent returns the scanned fraction of the world area, in percent.
// Edge cells that overhang the world can push the raw ratio past 100; it is capped.
func (g *CoverageGrid) CoveragePercent() float64 {
	pct := float64(g.marked) * g.CellArea() / (g.w * g.h) * 100
	return math.Min(pct, 100)
}
