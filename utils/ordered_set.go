package utils

// OrderedSet keeps unique values in first-insertion order.
type OrderedSet[T comparable] struct {
	index map[T]struct{}
	items []T
}

func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{index: make(map[T]struct{})}
}

// Add inserts v and reports whether it was new.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// AddAll inserts every value and returns how many were new.
func (s *OrderedSet[T]) AddAll(values ...T) int {
	added := 0
	for _, v := range values {
		if s.Add(v) {
			added++
		}
	}
	return added
}

func (s *OrderedSet[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the values in insertion order.
func (s *OrderedSet[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
