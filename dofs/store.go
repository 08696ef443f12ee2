package dofs

import "fmt"

// Store is the ordered, named dof vector of one geometric object.
// It is not safe for concurrent mutation; see the package comment.
type Store struct {
	names    []string
	values   []float64
	fixed    []bool
	index    map[string]int
	onChange []func()
}

// NewStore builds a store from parallel name and value slices. Both are
// copied. Returns ErrNameCount on length mismatch and ErrDuplicateName
// when a name repeats.
func NewStore(names []string, values []float64) (*Store, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%w: %d names, %d values", ErrNameCount, len(names), len(values))
	}
	idx := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := idx[n]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, n)
		}
		idx[n] = i
	}
	s := &Store{
		names:  append([]string(nil), names...),
		values: append([]float64(nil), values...),
		fixed:  make([]bool, len(names)),
		index:  idx,
	}
	return s, nil
}

// OnChange registers fn to run after every value mutation. Multiple
// callbacks run in registration order.
func (s *Store) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *Store) notify() {
	for _, fn := range s.onChange {
		fn()
	}
}

// NumFull returns the total number of dofs.
func (s *Store) NumFull() int { return len(s.values) }

// NumFree returns the number of unfixed dofs.
func (s *Store) NumFree() int {
	n := 0
	for _, f := range s.fixed {
		if !f {
			n++
		}
	}
	return n
}

// Names returns a copy of all dof names in declaration order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// FreeNames returns the names of the unfixed dofs in declaration order.
func (s *Store) FreeNames() []string {
	out := make([]string, 0, s.NumFree())
	for i, n := range s.names {
		if !s.fixed[i] {
			out = append(out, n)
		}
	}
	return out
}

// FreeIndices returns the full-vector index of each free dof in order.
// Dof-derivative arrays are laid out over the full vector; restricting
// them to an optimizer's view selects exactly these columns.
func (s *Store) FreeIndices() []int {
	out := make([]int, 0, s.NumFree())
	for i := range s.values {
		if !s.fixed[i] {
			out = append(out, i)
		}
	}
	return out
}

// Index returns the full-vector position of the named dof.
func (s *Store) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, &NameError{Name: name}
	}
	return i, nil
}

// Get returns the value of the named dof, fixed or free.
func (s *Store) Get(name string) (float64, error) {
	i, err := s.Index(name)
	if err != nil {
		return 0, err
	}
	return s.values[i], nil
}

// Set assigns the named dof and notifies the change listeners.
func (s *Store) Set(name string, v float64) error {
	i, err := s.Index(name)
	if err != nil {
		return err
	}
	s.values[i] = v
	s.notify()
	return nil
}

// Value returns the dof at full-vector index i.
func (s *Store) Value(i int) (float64, error) {
	if i < 0 || i >= len(s.values) {
		return 0, fmt.Errorf("%w: %d of %d", ErrIndexRange, i, len(s.values))
	}
	return s.values[i], nil
}

// SetValue assigns the dof at full-vector index i and notifies.
func (s *Store) SetValue(i int, v float64) error {
	if i < 0 || i >= len(s.values) {
		return fmt.Errorf("%w: %d of %d", ErrIndexRange, i, len(s.values))
	}
	s.values[i] = v
	s.notify()
	return nil
}

// FullX returns a copy of the full value vector.
func (s *Store) FullX() []float64 {
	return append([]float64(nil), s.values...)
}

// SetFullX replaces the full value vector and notifies.
// Returns ErrLength unless len(x) == NumFull.
func (s *Store) SetFullX(x []float64) error {
	if len(x) != len(s.values) {
		return fmt.Errorf("%w: got %d, want %d", ErrLength, len(x), len(s.values))
	}
	copy(s.values, x)
	s.notify()
	return nil
}

// X returns a copy of the free value vector in declaration order.
func (s *Store) X() []float64 {
	out := make([]float64, 0, s.NumFree())
	for i, v := range s.values {
		if !s.fixed[i] {
			out = append(out, v)
		}
	}
	return out
}

// SetX replaces the free value vector, mapping each entry back to its
// full-vector position, and notifies. Returns ErrLength unless
// len(x) == NumFree.
func (s *Store) SetX(x []float64) error {
	if len(x) != s.NumFree() {
		return fmt.Errorf("%w: got %d, want %d free", ErrLength, len(x), s.NumFree())
	}
	k := 0
	for i := range s.values {
		if !s.fixed[i] {
			s.values[i] = x[k]
			k++
		}
	}
	s.notify()
	return nil
}

// IsFree reports whether the named dof is currently unfixed.
func (s *Store) IsFree(name string) (bool, error) {
	i, err := s.Index(name)
	if err != nil {
		return false, err
	}
	return !s.fixed[i], nil
}

// Fix removes the named dof from the free view. The value is untouched,
// so caches stay valid and no notification fires.
func (s *Store) Fix(name string) error {
	i, err := s.Index(name)
	if err != nil {
		return err
	}
	s.fixed[i] = true
	return nil
}

// Unfix returns the named dof to the free view.
func (s *Store) Unfix(name string) error {
	i, err := s.Index(name)
	if err != nil {
		return err
	}
	s.fixed[i] = false
	return nil
}

// FixAll fixes every dof.
func (s *Store) FixAll() {
	for i := range s.fixed {
		s.fixed[i] = true
	}
}

// UnfixAll frees every dof.
func (s *Store) UnfixAll() {
	for i := range s.fixed {
		s.fixed[i] = false
	}
}
