// Package protocol reads the game engine's line-oriented input and writes the
// agent's one-line-per-tick answer.
//
// Startup input is the factory count, the link count and one
// "factory_a factory_b distance" line per link. Every tick then starts with
// an entity count followed by one "id KIND arg1 arg2 arg3 arg4 arg5" line per
// entity.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

// Entity kinds sent by the game engine.
const (
	KindFactory = "FACTORY"
	KindTroop   = "TROOP"
	KindBomb    = "BOMB"
)

// ParseError reports input that does not follow the protocol.
type ParseError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("protocol: line %d: %s", e.Line, e.Reason)
	if e.Text != "" {
		msg += fmt.Sprintf(" (%q)", e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader decodes startup and tick input.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	last    string
}

// NewReader wraps r. Lines longer than 1 MiB are rejected.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Reader{scanner: sc}
}

// ReadGraph consumes the startup block and builds the distance table.
func (r *Reader) ReadGraph() (*conquest.Graph, error) {
	counts, err := r.readInts(1, "factory count")
	if err != nil {
		return nil, err
	}
	factoryCount := counts[0]

	counts, err = r.readInts(1, "link count")
	if err != nil {
		return nil, err
	}
	linkCount := counts[0]
	if linkCount < 0 {
		return nil, r.errorf(nil, "negative link count %d", linkCount)
	}

	links := make([]conquest.Link, 0, linkCount)
	for range linkCount {
		v, err := r.readInts(3, "link")
		if err != nil {
			return nil, err
		}
		links = append(links, conquest.Link{A: v[0], B: v[1], Distance: v[2]})
	}

	g, err := conquest.NewGraph(factoryCount, links)
	if err != nil {
		return nil, r.errorf(err, "invalid map")
	}
	return g, nil
}

// ReadTick consumes one tick snapshot into gs: factories are updated in
// place and troops are replaced wholesale. It returns io.EOF when the input
// ends cleanly before a new tick starts.
func (r *Reader) ReadTick(gs *conquest.GameState) error {
	if !r.next() {
		if err := r.scanner.Err(); err != nil {
			return r.errorf(err, "read entity count")
		}
		return io.EOF
	}
	count, err := r.parseInts(1, "entity count")
	if err != nil {
		return err
	}
	if count[0] < 0 {
		return r.errorf(nil, "negative entity count %d", count[0])
	}

	gs.ResetTroops()
	for range count[0] {
		if err := r.readEntity(gs); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readEntity(gs *conquest.GameState) error {
	if !r.next() {
		return r.eof("entity")
	}
	fields := strings.Fields(r.last)
	if len(fields) != 7 {
		return r.errorf(nil, "entity: expected 7 fields, got %d", len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return r.errorf(err, "entity id")
	}
	var args [5]int
	for i := range args {
		if args[i], err = strconv.Atoi(fields[i+2]); err != nil {
			return r.errorf(err, "entity %d arg %d", id, i+1)
		}
	}

	switch fields[1] {
	case KindFactory:
		if err := gs.SetFactory(id, conquest.Owner(args[0]), args[1], args[2]); err != nil {
			return r.errorf(err, "factory %d", id)
		}
	case KindTroop:
		t := conquest.Troop{
			ID:             id,
			Owner:          conquest.Owner(args[0]),
			Source:         args[1],
			Destination:    args[2],
			Size:           args[3],
			TicksRemaining: args[4],
		}
		if err := gs.AddTroop(t); err != nil {
			return r.errorf(err, "troop %d", id)
		}
	case KindBomb:
		// Bombs in flight are not modelled.
	default:
		return r.errorf(nil, "unknown entity kind %q", fields[1])
	}
	return nil
}

// readInts reads the next line and parses exactly n integers from it.
func (r *Reader) readInts(n int, what string) ([]int, error) {
	if !r.next() {
		return nil, r.eof(what)
	}
	return r.parseInts(n, what)
}

func (r *Reader) parseInts(n int, what string) ([]int, error) {
	fields := strings.Fields(r.last)
	if len(fields) != n {
		return nil, r.errorf(nil, "%s: expected %d values, got %d", what, n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, r.errorf(err, "%s", what)
		}
		out[i] = v
	}
	return out, nil
}

// next advances to the next non-blank line.
func (r *Reader) next() bool {
	for r.scanner.Scan() {
		r.line++
		r.last = r.scanner.Text()
		if strings.TrimSpace(r.last) != "" {
			return true
		}
	}
	r.last = ""
	return false
}

func (r *Reader) eof(what string) error {
	if err := r.scanner.Err(); err != nil {
		return r.errorf(err, "read %s", what)
	}
	return r.errorf(io.ErrUnexpectedEOF, "read %s", what)
}

func (r *Reader) errorf(err error, format string, args ...any) error {
	return &ParseError{
		Line:   r.line,
		Text:   r.last,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// IsParseError reports whether err came from malformed input.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
