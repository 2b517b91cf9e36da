package telemetry

import "testing"

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for day := 1; day <= 5; day++ {
		h.Push(DayStats{Day: day})
	}

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	days := h.Days()
	for i, want := range []int{3, 4, 5} {
		if days[i].Day != want {
			t.Errorf("days[%d] = %d, want %d", i, days[i].Day, want)
		}
	}
	last, ok := h.Last()
	if !ok || last.Day != 5 {
		t.Errorf("Last = %v,%v, want day 5", last.Day, ok)
	}
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(2)
	h.Push(DayStats{Day: 1})
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len after reset = %d", h.Len())
	}
	if _, ok := h.Last(); ok {
		t.Error("Last on empty history returned ok")
	}
	h.Push(DayStats{Day: 9})
	if d := h.Days(); len(d) != 1 || d[0].Day != 9 {
		t.Errorf("Days after reset = %+v", d)
	}
}

func TestHistory_MinimumCapacity(t *testing.T) {
	h := NewHistory(0)
	if h.Cap() != 1 {
		t.Errorf("Cap = %d, want 1", h.Cap())
	}
}
