// Package logsink appends accepted samples to a plain text file without ever
// blocking the acquisition loop.
package logsink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

// TimestampFormat renders as YY/MM/DD-HH:MM:SS
const TimestampFormat = "06/01/02-15:04:05"

// Recorder receives accepted samples
type Recorder interface {
	Record(sample series.Sample, at time.Time)
}

// Nop discards every record
type Nop struct{}

// Record implements Recorder
func (Nop) Record(series.Sample, time.Time) {}

// Stats summarizes what happened to recorded samples
type Stats struct {
	Written uint64
	Dropped uint64 // buffer was full
	Failed  uint64 // write error
	Bytes   uint64
}

type record struct {
	sample series.Sample
	at     time.Time
}

// Sink is a best effort, asynchronous Recorder backed by a file
type Sink struct {
	path    string
	w       io.WriteCloser
	records chan record
	logger  *logging.Logger

	closeOnce sync.Once
	done      chan struct{}

	written atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
	bytes   atomic.Uint64
}

// Open removes an existing file at path, creates a fresh one and starts the writer
func Open(path string, bufferSize int, logger *logging.Logger) (*Sink, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove old log %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log %s: %w", path, err)
	}

	return New(path, file, bufferSize, logger), nil
}

// New starts a sink writing to w
func New(path string, w io.WriteCloser, bufferSize int, logger *logging.Logger) *Sink {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = logging.Global()
	}
	s := &Sink{
		path:    path,
		w:       w,
		records: make(chan record, bufferSize),
		logger:  logger.With("component", "logsink", "path", path),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Path returns the file the sink writes to
func (s *Sink) Path() string {
	return s.path
}

// Record queues a sample. When the queue is full the sample is dropped.
func (s *Sink) Record(sample series.Sample, at time.Time) {
	select {
	case s.records <- record{sample: sample, at: at}:
	default:
		if s.dropped.Add(1) == 1 {
			s.logger.Warn("log buffer full, dropping samples", "index", sample.Index)
		}
	}
}

func (s *Sink) run() {
	defer close(s.done)
	for r := range s.records {
		line := FormatRecord(r.sample, r.at)
		n, err := io.WriteString(s.w, line)
		s.bytes.Add(uint64(n))
		if err != nil {
			if s.failed.Add(1) == 1 {
				s.logger.Warn("failed to write sample log", "error", err, "index", r.sample.Index)
			} else {
				s.logger.Debug("failed to write sample log", "error", err, "index", r.sample.Index)
			}
			continue
		}
		s.written.Add(1)
	}
}

// Close flushes queued records and closes the file. Record must not be
// called after Close.
func (s *Sink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.records)
		<-s.done
		err = s.w.Close()
		stats := s.Stats()
		s.logger.Info("sample log closed",
			"written", stats.Written, "dropped", stats.Dropped, "failed", stats.Failed)
	})
	return err
}

// Stats returns the current counters
func (s *Sink) Stats() Stats {
	return Stats{
		Written: s.written.Load(),
		Dropped: s.dropped.Load(),
		Failed:  s.failed.Load(),
		Bytes:   s.bytes.Load(),
	}
}

// FormatRecord renders one log line: "<timestamp>,<index>,<value>\n"
func FormatRecord(sample series.Sample, at time.Time) string {
	return at.Format(TimestampFormat) + "," +
		strconv.FormatUint(sample.Index, 10) + "," +
		FormatValue(sample.Value) + "\n"
}

// FormatValue prints the shortest representation of v, always with a fraction
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
