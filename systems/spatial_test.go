package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/egobh/components"
)

func newTestEntities(t *testing.T, n int) []ecs.Entity {
	t.Helper()
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](world)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = mapper.NewEntity(&components.Position{})
	}
	return out
}

func containsEntity(list []ecs.Entity, e ecs.Entity) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

func TestSpatialHash_QueryAroundCoversNeighborCells(t *testing.T) {
	es := newTestEntities(t, 4)
	h := NewSpatialHash(100)

	h.Insert(es[0], 150, 150) // same cell
	h.Insert(es[1], 250, 50)  // diagonal neighbor
	h.Insert(es[2], 350, 150) // two cells away
	h.Insert(es[3], -10, 150) // negative coords floor to cell -1

	got := h.QueryAround(150, 150)
	if !containsEntity(got, es[0]) || !containsEntity(got, es[1]) {
		t.Errorf("query missing neighbors: %v", got)
	}
	if containsEntity(got, es[2]) {
		t.Error("query returned entity two cells away")
	}
	if containsEntity(got, es[3]) {
		t.Error("query returned entity in cell -1 from cell 1")
	}

	got = h.QueryAround(50, 150)
	if !containsEntity(got, es[3]) {
		t.Error("negative coordinate entity not found from adjacent cell")
	}
}

func TestSpatialHash_ClearAndLen(t *testing.T) {
	es := newTestEntities(t, 3)
	h := NewSpatialHash(50)
	for i, e := range es {
		h.Insert(e, float32(i*10), 0)
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}

	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", h.Len())
	}
	if got := h.QueryAround(0, 0); len(got) != 0 {
		t.Errorf("query after Clear returned %d entities", len(got))
	}
}

func TestSpatialHash_CellSizeFloor(t *testing.T) {
	h := NewSpatialHash(1)
	if h.CellSize() != minCellSize {
		t.Errorf("CellSize = %v, want %v", h.CellSize(), minCellSize)
	}
}

func TestSpatialHash_QueryIntoAppends(t *testing.T) {
	es := newTestEntities(t, 2)
	h := NewSpatialHash(64)
	h.Insert(es[1], 10, 10)

	dst := []ecs.Entity{es[0]}
	dst = h.QueryAroundInto(dst, 10, 10)
	if len(dst) != 2 || dst[0] != es[0] || dst[1] != es[1] {
		t.Errorf("QueryAroundInto = %v, want [%v %v]", dst, es[0], es[1])
	}
}
