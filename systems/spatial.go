// Package systems provides the simulation rules and per-tick systems.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// minCellSize keeps a misconfigured cell size from degenerating into per-pixel buckets.
const minCellSize = 8

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32 // delta from query origin, toroidal when the world wraps
	DistSq float32
}

type cellKey struct {
	cx, cy int32
}

// SpatialHash buckets entities by the floor-divided cell of their position.
// It is cleared and rebuilt from scratch every tick; there are no incremental updates.
type SpatialHash struct {
	cellSize float32
	cells    map[cellKey][]ecs.Entity
	count    int
}

// NewSpatialHash creates an empty hash with the given cell size.
func NewSpatialHash(cellSize float32) *SpatialHash {
	if cellSize < minCellSize {
		cellSize = minCellSize
	}
	return &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]ecs.Entity),
	}
}

// CellSize returns the effective cell size.
func (h *SpatialHash) CellSize() float32 {
	return h.cellSize
}

// Len returns the number of inserted entities.
func (h *SpatialHash) Len() int {
	return h.count
}

// Clear removes all entities. Bucket storage is kept for reuse.
func (h *SpatialHash) Clear() {
	for k, bucket := range h.cells {
		h.cells[k] = bucket[:0]
	}
	h.count = 0
}

// Insert adds an entity at the given position.
func (h *SpatialHash) Insert(e ecs.Entity, x, y float32) {
	k := h.key(x, y)
	h.cells[k] = append(h.cells[k], e)
	h.count++
}

// QueryAroundInto appends every entity in the 3x3 block of cells centered on
// the cell containing (x, y). The result is approximate: no distance filter is applied.
func (h *SpatialHash) QueryAroundInto(dst []ecs.Entity, x, y float32) []ecs.Entity {
	c := h.key(x, y)
	for iy := int32(-1); iy <= 1; iy++ {
		for ix := int32(-1); ix <= 1; ix++ {
			dst = append(dst, h.cells[cellKey{c.cx + ix, c.cy + iy}]...)
		}
	}
	return dst
}

// QueryAround returns the entities in the 3x3 block around (x, y).
func (h *SpatialHash) QueryAround(x, y float32) []ecs.Entity {
	return h.QueryAroundInto(nil, x, y)
}

func (h *SpatialHash) key(x, y float32) cellKey {
	return cellKey{
		cx: int32(math.Floor(float64(x / h.cellSize))),
		cy: int32(math.Floor(float64(y / h.cellSize))),
	}
}
