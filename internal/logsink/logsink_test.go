package logsink

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

func TestFormatRecord(t *testing.T) {
	at := time.Date(2024, 3, 7, 9, 5, 2, 0, time.Local)

	assert.Equal(t, "24/03/07-09:05:02,0,3.14\n", FormatRecord(series.Sample{Index: 0, Value: 3.14}, at))
	assert.Equal(t, "24/03/07-09:05:02,42,3.0\n", FormatRecord(series.Sample{Index: 42, Value: 3}, at))
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		1:       "1.0",
		0.5:     "0.5",
		1023.25: "1023.25",
		-2.5:    "-2.5",
	}
	for v, want := range tests {
		assert.Equal(t, want, FormatValue(v))
	}
}

func TestOpen_TruncatesExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	sink, err := Open(path, 8, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, path, sink.Path())

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	sink.Record(series.Sample{Index: 0, Value: 1.5}, at)
	sink.Record(series.Sample{Index: 1, Value: 2}, at)
	require.NoError(t, sink.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "24/01/02-03:04:05,0,1.5\n24/01/02-03:04:05,1,2.0\n", string(content))

	stats := sink.Stats()
	assert.Equal(t, uint64(2), stats.Written)
	assert.Equal(t, uint64(len(content)), stats.Bytes)
	assert.Zero(t, stats.Dropped)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing-dir", "samples.txt"), 8, logging.Nop())
	assert.Error(t, err)
}

// failingWriter fails every write
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("no space left on device") }
func (failingWriter) Close() error              { return nil }

func TestSink_WriteFailureIsCounted(t *testing.T) {
	sink := New("failing", failingWriter{}, 4, logging.Nop())
	sink.Record(series.Sample{Index: 0, Value: 1}, time.Now())
	sink.Record(series.Sample{Index: 1, Value: 2}, time.Now())
	require.NoError(t, sink.Close())

	stats := sink.Stats()
	assert.Equal(t, uint64(2), stats.Failed)
	assert.Zero(t, stats.Written)
}

// blockingWriter holds every write until released
type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	lines   int
}

func (b *blockingWriter) Write(p []byte) (int, error) {
	<-b.release
	b.mu.Lock()
	b.lines++
	b.mu.Unlock()
	return len(p), nil
}

func (b *blockingWriter) Close() error { return nil }

func TestSink_RecordNeverBlocks(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	sink := New("blocking", w, 2, logging.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			sink.Record(series.Sample{Index: uint64(i), Value: 1}, time.Now())
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a stalled writer")
	}

	close(w.release)
	require.NoError(t, sink.Close())

	stats := sink.Stats()
	assert.Equal(t, uint64(100), stats.Written+stats.Dropped)
	assert.NotZero(t, stats.Dropped)
}

func TestSink_CloseIsIdempotent(t *testing.T) {
	sink, err := Open(filepath.Join(t.TempDir(), "samples.txt"), 1, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	assert.NoError(t, sink.Close())
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(series.Sample{Index: 1, Value: 1}, time.Now())
}
