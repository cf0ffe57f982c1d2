package acquisition

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuel-koch/go-serial-hud/internal/device"
	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/parser"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

// scriptedSource replays lines; a nil entry is a read timeout
type scriptedSource struct {
	lines [][]byte
	err   error
}

func (s *scriptedSource) ReadLine() ([]byte, error) {
	if len(s.lines) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == nil {
		return nil, device.ErrReadTimeout
	}
	return line, nil
}

type memoryRecorder struct {
	mu      sync.Mutex
	samples []series.Sample
}

func (m *memoryRecorder) Record(sample series.Sample, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, sample)
}

func newStore(t *testing.T, capacity int) *series.Store {
	t.Helper()
	s, err := series.NewStore(capacity, 10)
	require.NoError(t, err)
	return s
}

func TestTask_FiniteSource(t *testing.T) {
	store := newStore(t, 5)
	recorder := &memoryRecorder{}
	src := &scriptedSource{lines: [][]byte{
		[]byte("1.0\r\n"),
		[]byte("boot banner v2\r\n"),
		[]byte("2.0\r\n"),
		[]byte("\xff\xfe\r\n"),
		[]byte("3.0\r\n"),
		[]byte("0.0\r\n"),
		[]byte("4.0\r\n"),
		[]byte("-1.5\r\n"),
		[]byte("5.0\r\n"),
		[]byte("value=6.0 unit=V\r\n"),
	}}

	task := New(src, parser.New(parser.Positive), store, recorder, logging.Nop())
	require.NoError(t, task.Run(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, []float64{2, 3, 4, 5, 6}, snap.Raw)
	latest, _ := snap.Latest()
	assert.InDelta(t, 4.0, latest.Average, 1e-12)
	assert.Equal(t, 6.0, latest.Max)

	stats := task.Stats()
	assert.Equal(t, uint64(10), stats.Lines)
	assert.Equal(t, uint64(6), stats.Accepted)
	assert.Equal(t, uint64(4), stats.Dropped)

	require.Len(t, recorder.samples, 6)
	for i, s := range recorder.samples {
		assert.Equal(t, uint64(i), s.Index)
	}
	assert.Equal(t, 6.0, recorder.samples[5].Value)
}

func TestTask_TimeoutIsNotFatal(t *testing.T) {
	store := newStore(t, 10)
	src := &scriptedSource{lines: [][]byte{
		[]byte("1.5\n"),
		nil,
		[]byte("2.5\n"),
	}}

	task := New(src, parser.New(nil), store, nil, logging.Nop())
	require.NoError(t, task.Run(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, []uint64{0, 1}, snap.Index)
	assert.Equal(t, []float64{1.5, 2.5}, snap.Raw)
	assert.Equal(t, uint64(1), task.Stats().Timeouts)
}

func TestTask_ReadErrorStops(t *testing.T) {
	broken := errors.New("device disconnected")
	src := &scriptedSource{lines: [][]byte{[]byte("1.0\n")}, err: broken}

	task := New(src, parser.New(nil), newStore(t, 10), nil, logging.Nop())
	err := task.Run(context.Background())
	assert.ErrorIs(t, err, broken)
	assert.Equal(t, uint64(1), task.Stats().Accepted)
}

// endlessSource produces a timeout forever
type endlessSource struct{}

func (endlessSource) ReadLine() ([]byte, error) {
	time.Sleep(time.Millisecond)
	return nil, device.ErrReadTimeout
}

func TestTask_Cancellation(t *testing.T) {
	task := New(endlessSource{}, parser.New(nil), newStore(t, 10), nil, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- task.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("task did not stop after cancellation")
	}
	assert.NotZero(t, task.Stats().Timeouts)
}

func TestTask_DeviceLineReader(t *testing.T) {
	store := newStore(t, 10)
	reader := device.NewLineReader(strings.NewReader("12.5\r\n13.5\r\nnoise\r\n"))

	// the line reader reports the end of this reader as a timeout, so stop via context
	ctx, cancel := context.WithCancel(context.Background())
	task := New(cancelOnTimeout{r: reader, cancel: cancel}, parser.New(nil), store, nil, logging.Nop())
	require.NoError(t, task.Run(ctx))

	assert.Equal(t, []float64{12.5, 13.5}, store.Snapshot().Raw)
}

type cancelOnTimeout struct {
	r      LineReader
	cancel context.CancelFunc
}

func (c cancelOnTimeout) ReadLine() ([]byte, error) {
	line, err := c.r.ReadLine()
	if errors.Is(err, device.ErrReadTimeout) {
		c.cancel()
	}
	return line, err
}
