package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection in a bounded field.
// Objects are inserted by their bounding box and index, then candidates near a
// point are found with a single cell lookup.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that overlap a grid cell.
// The slice is reused between rebuilds (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given field dimensions.
func NewSpatialGrid(fieldW, fieldH, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(fieldW / cellSize))
	rows := int(math.Ceil(fieldH / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// InsertRect adds an item to every cell its rectangle touches.
func (g *SpatialGrid) InsertRect(x0, y0, x1, y1 float64, index int) {
	c0, r0 := g.posToCell(x0, y0)
	c1, r1 := g.posToCell(x1, y1)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			idx := r*g.cols + c
			g.cells[idx].items = append(g.cells[idx].items, index)
		}
	}
}

// QueryPoint calls fn for each item index whose rectangle touches the cell holding (x, y).
// Items spanning several cells are reported once. If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryPoint(x, y float64, fn func(index int) bool) {
	if x < 0 || y < 0 || x > float64(g.cols)*g.cellSize || y > float64(g.rows)*g.cellSize {
		return
	}
	col, row := g.posToCell(x, y)
	for _, itemIdx := range g.cells[row*g.cols+col].items {
		if fn(itemIdx) {
			return
		}
	}
}

// posToCell converts field coordinates to grid cell coordinates.
// Clamps to valid range to handle edge cases with floating point.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(x * g.invCellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(y * g.invCellSize)
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
