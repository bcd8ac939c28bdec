package lane

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultHistorySize is the number of recent lines averaged per side.
const DefaultHistorySize = 5

// History is a bounded FIFO of the most recent lines detected for one side.
// Pushing at capacity evicts the oldest entry.
type History struct {
	buf   []LaneLine
	start int
	size  int
}

// NewHistory creates an empty history. Capacities below one are raised to one.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]LaneLine, capacity)}
}

// Push appends a line, evicting the oldest one when the history is full.
func (h *History) Push(l LaneLine) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = l
		h.size++
		return
	}
	h.buf[h.start] = l
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of retained lines.
func (h *History) Len() int { return h.size }

// Cap returns the history capacity.
func (h *History) Cap() int { return len(h.buf) }

// Lines returns the retained lines from oldest to newest.
func (h *History) Lines() []LaneLine {
	out := make([]LaneLine, h.size)
	for i := range out {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Mean returns the element-wise rounded mean of the retained lines. ok is false when
// the history is empty.
func (h *History) Mean() (LaneLine, bool) {
	if h.size == 0 {
		return LaneLine{}, false
	}
	var cols [4][]float64
	for i := range cols {
		cols[i] = make([]float64, 0, h.size)
	}
	for _, l := range h.Lines() {
		cols[0] = append(cols[0], float64(l.X1))
		cols[1] = append(cols[1], float64(l.Y1))
		cols[2] = append(cols[2], float64(l.X2))
		cols[3] = append(cols[3], float64(l.Y2))
	}
	return LaneLine{
		X1: roundMean(cols[0]),
		Y1: roundMean(cols[1]),
		X2: roundMean(cols[2]),
		Y2: roundMean(cols[3]),
	}, true
}

// Reset drops all retained lines.
func (h *History) Reset() {
	h.start, h.size = 0, 0
}

// TemporalSmoother keeps one History per side and turns per-frame detections into
// stable lines. A missed detection leaves the history untouched, so the last known
// lines persist across dropouts; there is no age-based expiry.
//
// TemporalSmoother is not safe for concurrent use. Updates must arrive in frame order.
type TemporalSmoother struct {
	histories [2]*History
}

// NewTemporalSmoother creates a smoother whose histories hold capacity lines each.
func NewTemporalSmoother(capacity int) *TemporalSmoother {
	return &TemporalSmoother{
		histories: [2]*History{NewHistory(capacity), NewHistory(capacity)},
	}
}

// Update records this frame's detection for side (nil when nothing was detected) and
// returns the mean of the side's history. ok is false while the side has never been
// detected.
func (s *TemporalSmoother) Update(side Side, detected *LaneLine) (LaneLine, bool) {
	h := s.History(side)
	if detected != nil {
		h.Push(*detected)
	}
	return h.Mean()
}

// History returns the history backing side.
func (s *TemporalSmoother) History(side Side) *History {
	if side == Left {
		return s.histories[0]
	}
	return s.histories[1]
}

// Reset clears both histories, as at the start of a new stream.
func (s *TemporalSmoother) Reset() {
	for _, h := range s.histories {
		h.Reset()
	}
}

func roundMean(xs []float64) int {
	return int(math.Round(stat.Mean(xs, nil)))
}
