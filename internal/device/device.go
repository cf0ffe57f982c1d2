// Package device locates and opens the serial device that emits samples.
package device

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tarm/serial"
)

var (
	// ErrNoDevice is returned when none of the candidate paths exist
	ErrNoDevice = errors.New("no serial device found")
	// ErrReadTimeout is returned when no byte arrived within the read timeout
	ErrReadTimeout = errors.New("serial read timeout")
)

// Config describes how to open the serial link
type Config struct {
	Candidates  []string
	Baud        int
	ReadTimeout time.Duration
}

// Locate returns the first candidate path that exists
func Locate(candidates []string) (string, error) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNoDevice, strings.Join(candidates, ", "))
}

// Port is an open serial port that yields lines
type Port struct {
	*LineReader
	Path string
	port *serial.Port
}

// Open locates the device and opens it with 8 data bits, no parity and one stop bit
func Open(cfg Config) (*Port, error) {
	path, err := Locate(cfg.Candidates)
	if err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        path,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return &Port{
		LineReader: NewLineReader(port),
		Path:       path,
		port:       port,
	}, nil
}

// Close closes the underlying port
func (p *Port) Close() error {
	return p.port.Close()
}

// LineReader splits a byte stream into lines. A read that returns nothing
// (how the serial port reports an expired read timeout) yields ErrReadTimeout.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader wraps r
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line including its terminator. A partial line
// pending when the timeout expires is returned as it is.
func (l *LineReader) ReadLine() ([]byte, error) {
	line, err := l.r.ReadBytes('\n')
	if err == nil {
		return line, nil
	}
	if errors.Is(err, io.EOF) {
		if len(line) > 0 {
			return line, nil
		}
		return nil, ErrReadTimeout
	}
	return line, err
}
