// Package transcript records the protocol lines an agent reads and writes
// as zstd-compressed JSON lines, and reads them back for replay.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Direction tells whether a line was read by or written by the agent.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// Entry is one recorded protocol line.
type Entry struct {
	Seq  int       `json:"seq"`
	Dir  Direction `json:"dir"`
	Line string    `json:"line"`
}

// Recorder appends entries to a compressed stream. It is safe for use from
// the input and output sides at once.
type Recorder struct {
	mu  sync.Mutex
	seq int
	c   io.Closer
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens path for writing and returns a Recorder over it.
func Create(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create transcript: %w", err)
	}
	r, err := NewRecorder(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.c = f
	return r, nil
}

// NewRecorder writes compressed entries to w. Close does not close w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &Recorder{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Record appends one line.
func (r *Recorder) Record(dir Direction, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return fmt.Errorf("transcript: record after close")
	}
	b, err := json.Marshal(Entry{Seq: r.seq, Dir: dir, Line: line})
	if err != nil {
		return err
	}
	r.seq++
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes and finalizes the stream.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if r.c != nil {
		if cerr := r.c.Close(); err == nil {
			err = cerr
		}
	}
	r.w = nil
	return err
}

// Sink returns an io.Writer that records every complete line written to it
// under dir. A trailing partial line is recorded by Flush.
func (r *Recorder) Sink(dir Direction) *LineSink {
	return &LineSink{rec: r, dir: dir}
}

// LineSink splits a byte stream into lines for a Recorder.
type LineSink struct {
	rec *Recorder
	dir Direction
	buf []byte
}

func (s *LineSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimRight(s.buf[:i], "\r")
		if err := s.rec.Record(s.dir, string(line)); err != nil {
			return 0, err
		}
		s.buf = s.buf[i+1:]
	}
	return len(p), nil
}

// Flush records any buffered partial line.
func (s *LineSink) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	line := string(s.buf)
	s.buf = s.buf[:0]
	return s.rec.Record(s.dir, line)
}

// Read decodes every entry from a compressed transcript stream.
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var entries []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return entries, fmt.Errorf("transcript entry %d: %w", len(entries), err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("read transcript: %w", err)
	}
	return entries, nil
}

// ReadFile decodes the transcript at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Lines returns the lines of entries in the given direction, in order.
func Lines(entries []Entry, dir Direction) []string {
	var out []string
	for _, e := range entries {
		if e.Dir == dir {
			out = append(out, e.Line)
		}
	}
	return out
}
