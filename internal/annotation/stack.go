package annotation

import (
	"sort"
)

// Stack is the ordered, mutable sequence of layers. Later entries paint on
// top. The layer at index 0, if present, is the base image and is exempt
// from selection hit-testing.
type Stack struct {
	layers []*Layer
	nextID int
}

// NewStack creates an empty stack. Ids start at 1.
func NewStack() *Stack {
	return &Stack{nextID: 1}
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Layer returns the layer at index i, or nil if out of range.
func (s *Stack) Layer(i int) *Layer {
	if i < 0 || i >= len(s.layers) {
		return nil
	}
	return s.layers[i]
}

// Layers returns the backing slice in paint order. Callers must not reorder
// it directly; mutation goes through the stack contract.
func (s *Stack) Layers() []*Layer {
	return s.layers
}

// NextID returns the id the next added layer will receive.
func (s *Stack) NextID() int {
	return s.nextID
}

// Add appends the layer and assigns it the next monotonic id. Ids are never
// reused within a session.
func (s *Stack) Add(l *Layer) *Layer {
	l.ID = s.nextID
	s.nextID++
	s.layers = append(s.layers, l)
	return l
}

// InsertAt places the layer at index i, shifting later layers up, and
// assigns it the next monotonic id. i is clamped to the stack bounds.
func (s *Stack) InsertAt(i int, l *Layer) *Layer {
	if i < 0 {
		i = 0
	}
	if i > len(s.layers) {
		i = len(s.layers)
	}
	l.ID = s.nextID
	s.nextID++
	s.layers = append(s.layers, nil)
	copy(s.layers[i+1:], s.layers[i:])
	s.layers[i] = l
	return l
}

// Duplicate deep-copies the layer at index i, assigns the copy a fresh id,
// and appends it. Returns the new index, or -1 if i is out of range.
func (s *Stack) Duplicate(i int) int {
	src := s.Layer(i)
	if src == nil {
		return -1
	}
	s.Add(src.Clone())
	return len(s.layers) - 1
}

// RemoveByIndices removes the given indices. All indices are validated
// first; any out-of-range index makes the whole call a no-op returning
// false. Removal happens in descending index order so earlier removals do
// not shift later ones.
func (s *Stack) RemoveByIndices(indices []int) bool {
	if len(indices) == 0 {
		return false
	}
	for _, i := range indices {
		if i < 0 || i >= len(s.layers) {
			return false
		}
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	prev := -1
	for _, i := range sorted {
		if i == prev {
			continue // duplicate index
		}
		prev = i
		s.layers = append(s.layers[:i], s.layers[i+1:]...)
	}
	return true
}

// MoveForward swaps the layer one step toward the top. No-op at the top.
func (s *Stack) MoveForward(i int) bool {
	if i < 0 || i >= len(s.layers)-1 {
		return false
	}
	s.layers[i], s.layers[i+1] = s.layers[i+1], s.layers[i]
	return true
}

// MoveBackward swaps the layer one step toward the bottom. No-op at the
// bottom.
func (s *Stack) MoveBackward(i int) bool {
	if i <= 0 || i >= len(s.layers) {
		return false
	}
	s.layers[i], s.layers[i-1] = s.layers[i-1], s.layers[i]
	return true
}

// MoveToFront moves the layer to the top of the stack.
func (s *Stack) MoveToFront(i int) bool {
	if i < 0 || i >= len(s.layers) || i == len(s.layers)-1 {
		return false
	}
	l := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	s.layers = append(s.layers, l)
	return true
}

// MoveToBack moves the layer to the bottom of the stack.
func (s *Stack) MoveToBack(i int) bool {
	if i <= 0 || i >= len(s.layers) {
		return false
	}
	l := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	s.layers = append([]*Layer{l}, s.layers...)
	return true
}

// OffsetAll shifts every positional field of every layer. Used when the
// canvas is resized with an anchor other than top-left so annotations stay
// pinned to image content.
func (s *Stack) OffsetAll(dx, dy float64) {
	for _, l := range s.layers {
		l.Translate(dx, dy)
	}
}

// Replace swaps in a whole new layer slice (session load, flatten, undo
// restore) and resynchronizes nextID to max(existing ids) + 1. nextID never
// decreases, so ids stay unique across the session.
func (s *Stack) Replace(layers []*Layer) {
	s.layers = layers
	for _, l := range layers {
		if l.ID >= s.nextID {
			s.nextID = l.ID + 1
		}
	}
}

// Clear removes all layers. Ids keep counting from where they were.
func (s *Stack) Clear() {
	s.layers = nil
}

// Clone returns a deep copy of the stack, including the id counter.
func (s *Stack) Clone() *Stack {
	c := &Stack{nextID: s.nextID}
	if s.layers != nil {
		c.layers = make([]*Layer, len(s.layers))
		for i, l := range s.layers {
			c.layers[i] = l.Clone()
		}
	}
	return c
}
