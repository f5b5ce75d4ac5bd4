package ui

// selection tracks the highlighted row of the item list by index.
// index is -1 when nothing is selected.
type selection struct {
	index int
}

func newSelection() selection {
	return selection{index: -1}
}

// selected returns the highlighted index, if any.
func (s *selection) selected() (int, bool) {
	return s.index, s.index >= 0
}

func (s *selection) selectIndex(i, n int) {
	s.index = i
	s.clamp(n)
}

// next moves down, wrapping from the last row to the first.
func (s *selection) next(n int) {
	switch {
	case n == 0:
		s.index = -1
	case s.index < 0 || s.index >= n-1:
		s.index = 0
	default:
		s.index++
	}
}

// prev moves up, wrapping from the first row to the last.
func (s *selection) prev(n int) {
	switch {
	case n == 0:
		s.index = -1
	case s.index < 0:
		s.index = 0
	case s.index == 0:
		s.index = n - 1
	default:
		s.index--
	}
}

// clamp keeps the selection valid after the list is rebuilt with n rows.
func (s *selection) clamp(n int) {
	switch {
	case n == 0:
		s.index = -1
	case s.index >= n:
		s.index = n - 1
	case s.index < -1:
		s.index = -1
	}
}
