package puzzle

// History is the ordered, duplicate-free list of numbers found in a run.
// The first entry is the run's seed.
type History struct {
	order []int
	seen  map[int]struct{}
}

// NewHistory starts a history containing only seed.
func NewHistory(seed int) *History {
	h := &History{seen: map[int]struct{}{}}
	h.add(seed)
	return h
}

// Contains reports whether n was already found.
func (h *History) Contains(n int) bool {
	_, ok := h.seen[n]
	return ok
}

// Max returns the largest recorded number.
func (h *History) Max() int {
	best := 0
	for i, n := range h.order {
		if i == 0 || n > best {
			best = n
		}
	}
	return best
}

// Numbers returns a copy in discovery order.
func (h *History) Numbers() []int {
	return append([]int(nil), h.order...)
}

func (h *History) add(n int) bool {
	if h.Contains(n) {
		return false
	}
	h.seen[n] = struct{}{}
	h.order = append(h.order, n)
	return true
}
