package conquest

import "testing"

func TestNewGraph_NeighborOrder(t *testing.T) {
	g, err := NewGraph(4, []Link{
		{0, 1, 5},
		{0, 2, 2},
		{0, 3, 2},
		{1, 2, 7},
		{1, 3, 1},
		{2, 3, 4},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	want := []Neighbor{{2, 2}, {2, 3}, {5, 1}}
	got := g.Neighbors(0)
	if len(got) != len(want) {
		t.Fatalf("neighbors(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbors(0)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got = g.Neighbors(1)
	if got[0].ID != 3 || got[len(got)-1].ID != 2 {
		t.Errorf("neighbors(1) = %v, want 3 first and 2 last", got)
	}
}

func TestGraph_DistanceSymmetric(t *testing.T) {
	g := completeGraph(t, 5, func(a, b int) int { return a + b + 1 })
	for a := range 5 {
		if d := g.Distance(a, a); d != 0 {
			t.Errorf("Distance(%d, %d) = %d, want 0", a, a, d)
		}
		for b := range 5 {
			if g.Distance(a, b) != g.Distance(b, a) {
				t.Errorf("Distance(%d, %d) != Distance(%d, %d)", a, b, b, a)
			}
		}
	}
	if d := g.Distance(1, 3); d != 5 {
		t.Errorf("Distance(1, 3) = %d, want 5", d)
	}
	if d := g.Distance(0, 9); d != -1 {
		t.Errorf("out of range distance = %d, want -1", d)
	}
	if ns := g.Neighbors(9); ns != nil {
		t.Errorf("out of range neighbors = %v, want nil", ns)
	}
}

func TestGraph_Unlinked(t *testing.T) {
	g, err := NewGraph(3, []Link{{0, 1, 3}})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if d := g.Distance(0, 2); d != -1 {
		t.Errorf("unlinked distance = %d, want -1", d)
	}
	if len(g.Neighbors(2)) != 0 {
		t.Errorf("factory 2 should have no neighbors, got %v", g.Neighbors(2))
	}
}

func TestGraph_DuplicateLinkLastWins(t *testing.T) {
	g, err := NewGraph(2, []Link{{0, 1, 3}, {1, 0, 6}})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if d := g.Distance(0, 1); d != 6 {
		t.Errorf("Distance = %d, want 6", d)
	}
	if ns := g.Neighbors(0); len(ns) != 1 || ns[0].Distance != 6 {
		t.Errorf("neighbors(0) = %v, want one entry at distance 6", ns)
	}
}

func TestNewGraph_Errors(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		links []Link
	}{
		{"no factories", 0, nil},
		{"unknown factory", 2, []Link{{0, 5, 1}}},
		{"self loop", 2, []Link{{1, 1, 1}}},
		{"zero distance", 2, []Link{{0, 1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGraph(tt.n, tt.links); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGraph_Links(t *testing.T) {
	g := completeGraph(t, 3, func(a, b int) int { return 2 })
	links := g.Links()
	if len(links) != 3 {
		t.Fatalf("Links() = %v, want 3 links", links)
	}
	if links[0] != (Link{0, 1, 2}) || links[2] != (Link{1, 2, 2}) {
		t.Errorf("Links() order = %v", links)
	}
}
