package transcript

import (
	"bytes"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRecorder_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	if err != nil {
		t.Fatal(err)
	}
	in := rec.Sink(In)
	out := rec.Sink(Out)

	io.WriteString(in, "3\n3\n0 1 ")
	io.WriteString(in, "4\r\n")
	io.WriteString(out, "WAIT\n")
	io.WriteString(in, "tail")
	if err := in.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Entry{
		{Seq: 0, Dir: In, Line: "3"},
		{Seq: 1, Dir: In, Line: "3"},
		{Seq: 2, Dir: In, Line: "0 1 4"},
		{Seq: 3, Dir: Out, Line: "WAIT"},
		{Seq: 4, Dir: In, Line: "tail"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v, want %+v", entries, want)
	}
	if got := Lines(entries, Out); !reflect.DeepEqual(got, []string{"WAIT"}) {
		t.Errorf("Lines(Out) = %v", got)
	}
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	rec, err := NewRecorder(io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	if err := rec.Record(In, "x"); err == nil {
		t.Error("expected error after Close")
	}
	if err := rec.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestCreateAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.jsonl.zst")
	rec, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range []string{"a", "b"} {
		if err := rec.Record(Out, l); err != nil {
			t.Fatal(err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := Lines(entries, Out); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("lines = %v", got)
	}
}

func TestRead_NotZstd(t *testing.T) {
	if _, err := Read(strings.NewReader("plain text\n")); err == nil {
		t.Error("expected error for uncompressed input")
	}
}
