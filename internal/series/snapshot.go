package series

// Snapshot is an immutable copy of the store. All series have the same length
// and position i of every series describes the same sample.
type Snapshot struct {
	Index   []uint64
	Raw     []float64
	Average []float64
	Rolling []float64
	Max     []float64

	Capacity int
	Window   int
	Total    uint64 // samples appended over the lifetime of the store
}

// Len returns the number of points in the snapshot
func (s Snapshot) Len() int {
	return len(s.Index)
}

// Empty reports whether the snapshot holds no points
func (s Snapshot) Empty() bool {
	return len(s.Index) == 0
}

// Latest returns the newest point of the snapshot
func (s Snapshot) Latest() (Point, bool) {
	n := len(s.Index)
	if n == 0 {
		return Point{}, false
	}
	return s.At(n - 1), true
}

// At returns the point at position i
func (s Snapshot) At(i int) Point {
	return Point{
		Index:   s.Index[i],
		Raw:     s.Raw[i],
		Average: s.Average[i],
		Rolling: s.Rolling[i],
		Max:     s.Max[i],
	}
}

// Aligned reports whether all series have the same length
func (s Snapshot) Aligned() bool {
	n := len(s.Index)
	return len(s.Raw) == n && len(s.Average) == n && len(s.Rolling) == n && len(s.Max) == n
}
