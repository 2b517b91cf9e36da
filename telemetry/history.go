package telemetry

// History keeps the most recent settled days, oldest first.
type History struct {
	buf   []DayStats
	start int
	n     int
}

// NewHistory creates a ring holding at most capacity days.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]DayStats, capacity)}
}

// Push appends a day, evicting the oldest when full.
func (h *History) Push(s DayStats) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = s
		h.n++
		return
	}
	h.buf[h.start] = s
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored days.
func (h *History) Len() int { return h.n }

// Cap returns the ring capacity.
func (h *History) Cap() int { return len(h.buf) }

// Last returns the most recent day.
func (h *History) Last() (DayStats, bool) {
	if h.n == 0 {
		return DayStats{}, false
	}
	return h.buf[(h.start+h.n-1)%len(h.buf)], true
}

// Days returns a copy of the stored days, oldest first.
func (h *History) Days() []DayStats {
	out := make([]DayStats, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Reset drops all stored days.
func (h *History) Reset() {
	h.start = 0
	h.n = 0
}
