package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

const sampleInput = `3
3
0 1 4
0 2 2
1 2 6
4
0 FACTORY 1 12 2 0 0
1 FACTORY -1 9 3 0 0
2 FACTORY 0 4 1 0 0
7 TROOP -1 1 0 5 3
2
0 FACTORY 1 14 2 0 0
8 BOMB 1 1 0 3 0
`

func TestReader_GraphAndTicks(t *testing.T) {
	r := NewReader(strings.NewReader(sampleInput))

	g, err := r.ReadGraph()
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.FactoryCount() != 3 {
		t.Fatalf("FactoryCount = %d, want 3", g.FactoryCount())
	}
	if d := g.Distance(2, 1); d != 6 {
		t.Errorf("Distance(2, 1) = %d, want 6", d)
	}

	gs := conquest.NewGameState(g)
	if err := r.ReadTick(gs); err != nil {
		t.Fatalf("ReadTick 1: %v", err)
	}
	if f := gs.Factories[1]; f.Owner != conquest.Enemy || f.Garrison != 9 || f.Production != 3 {
		t.Errorf("factory 1 = %+v", f)
	}
	if len(gs.Troops) != 1 {
		t.Fatalf("expected 1 troop, got %d", len(gs.Troops))
	}
	tr := gs.Troops[0]
	if tr.ID != 7 || tr.Owner != conquest.Enemy || tr.Destination != 0 || tr.Size != 5 || tr.TicksRemaining != 3 {
		t.Errorf("troop = %+v", tr)
	}

	if err := r.ReadTick(gs); err != nil {
		t.Fatalf("ReadTick 2: %v", err)
	}
	if len(gs.Troops) != 0 {
		t.Errorf("troops should be replaced each tick, got %d", len(gs.Troops))
	}
	if gs.Factories[0].Garrison != 14 {
		t.Errorf("factory 0 garrison = %d, want 14", gs.Factories[0].Garrison)
	}
	if gs.Factories[1].Garrison != 9 {
		t.Errorf("factories not in the snapshot keep their value, got %d", gs.Factories[1].Garrison)
	}

	if err := r.ReadTick(gs); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF at end of input, got %v", err)
	}
}

func TestReader_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad factory count", "x\n"},
		{"missing link", "2\n1\n"},
		{"short link", "2\n1\n0 1\n"},
		{"bad distance", "2\n1\n0 1 0\n"},
		{"truncated tick", "2\n1\n0 1 3\n2\n0 FACTORY 1 1 1 0 0\n"},
		{"unknown kind", "2\n1\n0 1 3\n1\n0 SHIP 1 1 1 0 0\n"},
		{"bad owner", "2\n1\n0 1 3\n1\n0 FACTORY 4 1 1 0 0\n"},
		{"bad troop", "2\n1\n0 1 3\n1\n5 TROOP 1 0 1 0 2\n"},
		{"wrong arity", "2\n1\n0 1 3\n1\n0 FACTORY 1 1 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			g, err := r.ReadGraph()
			if err == nil {
				err = r.ReadTick(conquest.NewGameState(g))
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsParseError(err) {
				t.Errorf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestReader_SkipsBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("\n2\n\n1\n0 1 3\n"))
	g, err := r.ReadGraph()
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.Distance(0, 1) != 3 {
		t.Errorf("Distance = %d, want 3", g.Distance(0, 1))
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Line: 4, Text: "0 1", Reason: "link: expected 3 values, got 2"}
	want := `protocol: line 4: link: expected 3 values, got 2 ("0 1")`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	wrapped := &ParseError{Line: 1, Reason: "x", Err: io.ErrUnexpectedEOF}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("ParseError should unwrap to its cause")
	}
}

func TestFormatOrders(t *testing.T) {
	tests := []struct {
		name   string
		orders []conquest.Order
		want   string
	}{
		{"none", nil, "WAIT"},
		{"move", []conquest.Order{conquest.Move(1, 2, 10)}, "WAIT;MOVE 1 2 10"},
		{
			"mixed",
			[]conquest.Order{conquest.Move(0, 3, 4), conquest.Upgrade(0), conquest.Bomb(2, 5)},
			"WAIT;MOVE 0 3 4;INC 0;BOMB 2 5",
		},
		{"message", []conquest.Order{conquest.Message("hold; fast")}, "WAIT;MSG hold, fast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatOrders(tt.orders); got != tt.want {
				t.Errorf("FormatOrders = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseOrders(t *testing.T) {
	orders, err := ParseOrders("WAIT;MOVE 0 3 4;INC 0;BOMB 2 5;MSG hi there")
	if err != nil {
		t.Fatalf("ParseOrders: %v", err)
	}
	want := []conquest.Order{
		conquest.Move(0, 3, 4),
		conquest.Upgrade(0),
		conquest.Bomb(2, 5),
		conquest.Message("hi there"),
	}
	if len(orders) != len(want) {
		t.Fatalf("got %d orders, want %d", len(orders), len(want))
	}
	for i := range want {
		if orders[i] != want[i] {
			t.Errorf("order %d = %+v, want %+v", i, orders[i], want[i])
		}
	}

	if orders, err := ParseOrders("WAIT"); err != nil || len(orders) != 0 {
		t.Errorf("ParseOrders(WAIT) = %v, %v", orders, err)
	}
	if _, err := ParseOrders("WAIT;MOVE 1 x 3"); err == nil {
		t.Error("expected error for non-numeric argument")
	}
	if _, err := ParseOrders("WAIT;JUMP 1"); err == nil {
		t.Error("expected error for unknown verb")
	}
}

func TestWriter_OneLinePerTick(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteOrders(nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteOrders([]conquest.Order{conquest.Upgrade(4)}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "WAIT\nWAIT;INC 4\n" {
		t.Errorf("output = %q", got)
	}
}
