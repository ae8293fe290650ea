package conquest

import (
	"fmt"
	"sort"
)

// Link is a direct edge between two factories as read at game start.
type Link struct {
	A, B     int
	Distance int
}

// Neighbor is one entry of a factory's routing list.
type Neighbor struct {
	Distance int
	ID       int
}

// Graph holds the fixed distance table and the per-factory nearest-first
// neighbor lists. It is built once and shared by every state clone.
type Graph struct {
	n         int
	dist      []int // flat [a*n + b]; -1 = no link
	neighbors [][]Neighbor
}

// NewGraph builds the distance table from direct links. The map is assumed
// complete, so no shortest-path search is done.
func NewGraph(factoryCount int, links []Link) (*Graph, error) {
	if factoryCount <= 0 {
		return nil, fmt.Errorf("conquest: factory count must be positive, got %d", factoryCount)
	}
	g := &Graph{
		n:         factoryCount,
		dist:      make([]int, factoryCount*factoryCount),
		neighbors: make([][]Neighbor, factoryCount),
	}
	for i := range g.dist {
		g.dist[i] = -1
	}
	for i := range factoryCount {
		g.dist[i*factoryCount+i] = 0
	}

	for _, l := range links {
		if l.A < 0 || l.A >= factoryCount || l.B < 0 || l.B >= factoryCount {
			return nil, fmt.Errorf("conquest: link %d-%d references unknown factory", l.A, l.B)
		}
		if l.A == l.B {
			return nil, fmt.Errorf("conquest: link %d-%d is a self loop", l.A, l.B)
		}
		if l.Distance <= 0 {
			return nil, fmt.Errorf("conquest: link %d-%d has non-positive distance %d", l.A, l.B, l.Distance)
		}
		if g.dist[l.A*factoryCount+l.B] < 0 {
			g.neighbors[l.A] = append(g.neighbors[l.A], Neighbor{Distance: l.Distance, ID: l.B})
			g.neighbors[l.B] = append(g.neighbors[l.B], Neighbor{Distance: l.Distance, ID: l.A})
		} else {
			g.replaceNeighbor(l.A, l.B, l.Distance)
			g.replaceNeighbor(l.B, l.A, l.Distance)
		}
		g.dist[l.A*factoryCount+l.B] = l.Distance
		g.dist[l.B*factoryCount+l.A] = l.Distance
	}

	for id := range g.neighbors {
		ns := g.neighbors[id]
		sort.Slice(ns, func(i, j int) bool {
			if ns[i].Distance != ns[j].Distance {
				return ns[i].Distance < ns[j].Distance
			}
			return ns[i].ID < ns[j].ID
		})
	}
	return g, nil
}

// replaceNeighbor updates a duplicated link; the last definition wins.
func (g *Graph) replaceNeighbor(from, to, distance int) {
	for i := range g.neighbors[from] {
		if g.neighbors[from][i].ID == to {
			g.neighbors[from][i].Distance = distance
			return
		}
	}
}

// FactoryCount returns the number of factories on the map.
func (g *Graph) FactoryCount() int { return g.n }

// Distance returns the direct travel time between two factories,
// 0 for a factory to itself and -1 when unlinked or out of range.
func (g *Graph) Distance(a, b int) int {
	if a < 0 || a >= g.n || b < 0 || b >= g.n {
		return -1
	}
	return g.dist[a*g.n+b]
}

// Neighbors returns the nearest-first routing list of a factory.
// Callers must not modify the returned slice.
func (g *Graph) Neighbors(id int) []Neighbor {
	if id < 0 || id >= g.n {
		return nil
	}
	return g.neighbors[id]
}

// Links returns every edge once, with A < B, ordered by A then B.
func (g *Graph) Links() []Link {
	var links []Link
	for a := range g.n {
		for b := a + 1; b < g.n; b++ {
			if d := g.dist[a*g.n+b]; d > 0 {
				links = append(links, Link{A: a, B: b, Distance: d})
			}
		}
	}
	return links
}
