// Package spatial provides broad-phase lookup structures for static
// obstacles.
//
// Structures use preallocated slices with integer indices (not pointers)
// so the caller keeps ownership of the obstacles themselves.
package spatial

import (
	"math"
)

// SpatialGrid buckets axis-aligned boxes into fixed-size cells.
// A box is registered in every cell it touches, so a query only has to
// visit the cells under the query box.
//
// Memory layout: cells are stored in row-major order (cells[row*cols+col])
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division
	cols, rows  int
	cells       [][]uint32 // cells[row*cols+col] = list of entity indices
	scratch     []uint32   // reusable buffer for query results

	// seen[id] == stamp marks an id already emitted by the current query
	seen  []uint32
	stamp uint32
}

// NewSpatialGrid creates a grid for the given world bounds.
// cellSize should be close to the typical box size.
func NewSpatialGrid(worldWidth, worldHeight, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(worldWidth / cellSize))
	rows := int(math.Ceil(worldHeight / cellSize))

	// Ensure at least 1x1 grid
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	for i := range cells {
		cells[i] = make([]uint32, 0, 4)
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 16),
	}
}

// Clear resets all cells without deallocating underlying memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0] // Keep capacity, reset length
	}
}

// cellRange returns the clamped cell span covered by a box.
func (g *SpatialGrid) cellRange(minX, minY, maxX, maxY float64) (minCol, minRow, maxCol, maxRow int) {
	minCol = g.clampCol(int(math.Floor(minX * g.invCellSize)))
	maxCol = g.clampCol(int(math.Floor(maxX * g.invCellSize)))
	minRow = g.clampRow(int(math.Floor(minY * g.invCellSize)))
	maxRow = g.clampRow(int(math.Floor(maxY * g.invCellSize)))
	return
}

func (g *SpatialGrid) clampCol(col int) int {
	if col < 0 {
		return 0
	}
	if col >= g.cols {
		return g.cols - 1
	}
	return col
}

func (g *SpatialGrid) clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= g.rows {
		return g.rows - 1
	}
	return row
}

// InsertBox registers entityID in every cell overlapped by the box.
// Boxes outside the world are clamped onto the border cells.
func (g *SpatialGrid) InsertBox(entityID uint32, minX, minY, maxX, maxY float64) {
	minCol, minRow, maxCol, maxRow := g.cellRange(minX, minY, maxX, maxY)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col
			g.cells[idx] = append(g.cells[idx], entityID)
		}
	}
	if int(entityID) >= len(g.seen) {
		grown := make([]uint32, int(entityID)+1, 2*(int(entityID)+1))
		copy(grown, g.seen)
		g.seen = grown
	}
}

// QueryBox returns every entity ID registered in a cell under the box,
// each at most once, in cell scan order.
//
// IMPORTANT: The returned slice is reused on subsequent calls.
// Copy the results if you need to persist them.
//
// Candidates may not actually overlap the box; the caller must do the
// precise rectangle test (narrow phase).
func (g *SpatialGrid) QueryBox(minX, minY, maxX, maxY float64) []uint32 {
	g.scratch = g.scratch[:0]
	g.stamp++
	if g.stamp == 0 {
		// wrapped: old marks could collide with the new stamp
		for i := range g.seen {
			g.seen[i] = 0
		}
		g.stamp = 1
	}

	minCol, minRow, maxCol, maxRow := g.cellRange(minX, minY, maxX, maxY)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, id := range g.cells[row*g.cols+col] {
				if g.seen[id] == g.stamp {
					continue
				}
				g.seen[id] = g.stamp
				g.scratch = append(g.scratch, id)
			}
		}
	}

	return g.scratch
}

// Stats returns grid statistics for debugging/profiling.
func (g *SpatialGrid) Stats() GridStats {
	var totalEntries, maxInCell, nonEmpty int
	for _, cell := range g.cells {
		count := len(cell)
		totalEntries += count
		if count > maxInCell {
			maxInCell = count
		}
		if count > 0 {
			nonEmpty++
		}
	}

	avgPerCell := 0.0
	if nonEmpty > 0 {
		avgPerCell = float64(totalEntries) / float64(nonEmpty)
	}

	return GridStats{
		TotalCells:     len(g.cells),
		NonEmptyCells:  nonEmpty,
		TotalEntries:   totalEntries,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avgPerCell,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells     int
	NonEmptyCells  int
	TotalEntries   int // a box spanning several cells counts once per cell
	MaxInCell      int
	AvgPerNonEmpty float64
}

// Dimensions returns the grid dimensions.
func (g *SpatialGrid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
