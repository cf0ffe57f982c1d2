// Package series keeps the bounded, aligned history of samples and the
// statistics derived from it.
package series

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
)

// ErrInvalidCapacity is returned for a retention capacity below one
var ErrInvalidCapacity = errors.New("series capacity must be positive")

// Sample is one accepted measurement and its sequence position
type Sample struct {
	Index uint64
	Value float64
}

// Point is one position across all series. Points are appended and evicted
// as a whole so the series always stay aligned.
type Point struct {
	Index   uint64
	Raw     float64
	Average float64 // mean of all retained raw values
	Rolling float64 // mean of the most recent Window raw values
	Max     float64 // max of all retained raw values
}

// Sample returns the measurement part of the point
func (p Point) Sample() Sample {
	return Sample{Index: p.Index, Value: p.Raw}
}

// Store holds at most Capacity points. It is safe for one writer and any
// number of concurrent readers.
type Store struct {
	mutex    sync.Mutex
	capacity int
	window   int

	points *deque.Deque[Point]
	// maxima holds candidates for the running max in decreasing Raw order
	maxima *deque.Deque[Point]

	sum       float64
	windowSum float64
	next      uint64
	evictions uint64
}

// NewStore creates an empty store. The rolling window is capacity/divisor,
// but at least one sample.
func NewStore(capacity, divisor int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if divisor <= 0 {
		divisor = 1
	}
	window := capacity / divisor
	if window < 1 {
		window = 1
	}
	return &Store{
		capacity: capacity,
		window:   window,
		points:   deque.New[Point](capacity + 1),
		maxima:   deque.New[Point](),
	}, nil
}

// Capacity returns the maximum number of retained points
func (s *Store) Capacity() int {
	return s.capacity
}

// Window returns the size of the rolling average window
func (s *Store) Window() int {
	return s.window
}

// Append adds value as the newest sample, evicting the oldest point when the
// store is full, and returns the point as stored.
func (s *Store) Append(value float64) Point {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p := Point{Index: s.next, Raw: value}
	s.next++

	n := s.points.Len() + 1
	s.sum += value
	s.windowSum += value
	if n > s.window {
		s.windowSum -= s.points.At(n - 1 - s.window).Raw
	}

	for s.maxima.Len() > 0 && s.maxima.Back().Raw <= value {
		s.maxima.PopBack()
	}
	s.maxima.PushBack(p)

	if n > s.capacity {
		evicted := s.points.PopFront()
		s.sum -= evicted.Raw
		if s.maxima.Front().Index == evicted.Index {
			s.maxima.PopFront()
		}
		n--
		s.evictions++
	}

	p.Average = s.sum / float64(n)
	p.Rolling = s.windowSum / float64(min(n, s.window))
	p.Max = s.maxima.Front().Raw
	s.points.PushBack(p)

	// re-sum once per full turnover to keep subtraction error from accumulating
	if s.evictions >= uint64(s.capacity) {
		s.resum()
	}

	return p
}

func (s *Store) resum() {
	s.evictions = 0
	s.sum = 0
	s.windowSum = 0
	n := s.points.Len()
	for i := 0; i < n; i++ {
		raw := s.points.At(i).Raw
		s.sum += raw
		if i >= n-s.window {
			s.windowSum += raw
		}
	}
}

// Snapshot returns a copy of all retained points as aligned series
func (s *Store) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n := s.points.Len()
	snap := Snapshot{
		Index:    make([]uint64, n),
		Raw:      make([]float64, n),
		Average:  make([]float64, n),
		Rolling:  make([]float64, n),
		Max:      make([]float64, n),
		Capacity: s.capacity,
		Window:   s.window,
		Total:    s.next,
	}
	for i := 0; i < n; i++ {
		p := s.points.At(i)
		snap.Index[i] = p.Index
		snap.Raw[i] = p.Raw
		snap.Average[i] = p.Average
		snap.Rolling[i] = p.Rolling
		snap.Max[i] = p.Max
	}
	return snap
}

// Latest returns the newest point
func (s *Store) Latest() (Point, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.points.Len() == 0 {
		return Point{}, false
	}
	return s.points.Back(), true
}

// Len returns the number of retained points
func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.points.Len()
}

// Total returns the number of samples ever appended
func (s *Store) Total() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.next
}

// Reset drops the retained history. Indices keep counting from where they were.
func (s *Store) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.points.Clear()
	s.maxima.Clear()
	s.sum = 0
	s.windowSum = 0
	s.evictions = 0
}
