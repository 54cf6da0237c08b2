package branching

import (
	"sort"

	"branchbot/internal/model"
)

type edge struct {
	source int
	target int
}

// Graph is one survey's branching rules viewed as directed edges over
// question ids. It is rebuilt from the rule set on every change rather than
// maintained incrementally; rule sets are small. The zero-cost reachability
// query is what keeps rule insertion acyclic.
type Graph struct {
	adj   map[int][]int
	edges map[edge]bool
}

// NewGraph builds a graph from a survey's rule set.
func NewGraph(rules []model.BranchingRule) *Graph {
	g := &Graph{
		adj:   make(map[int][]int),
		edges: make(map[edge]bool),
	}
	for _, r := range rules {
		g.AddEdge(r.SourceID, r.TargetID)
	}
	return g
}

// AddEdge records the directed edge source -> target. Duplicate edges are
// ignored.
func (g *Graph) AddEdge(source, target int) {
	e := edge{source, target}
	if g.edges[e] {
		return
	}
	g.edges[e] = true
	g.adj[source] = append(g.adj[source], target)
	if _, ok := g.adj[target]; !ok {
		g.adj[target] = nil
	}
}

// HasEdge reports whether the exact source -> target edge exists.
func (g *Graph) HasEdge(source, target int) bool {
	return g.edges[edge{source, target}]
}

// Reaches reports whether a directed path from -> to exists. Breadth-first
// with a visited set, O(V+E).
func (g *Graph) Reaches(from, to int) bool {
	if from == to {
		return true
	}
	visited := map[int]bool{from: true}
	queue := []int{from}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range g.adj[n] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// CanAdd reports whether adding source -> target keeps the graph acyclic:
// the edge is safe iff target cannot already reach source. Self-loops are
// rejected before any traversal.
func (g *Graph) CanAdd(source, target int) bool {
	if source == target {
		return false
	}
	return !g.Reaches(target, source)
}

// FindAllCycles walks the graph from every node and reports each directed
// cycle as an ordered list of question ids, starting at the cycle's smallest
// id. Used only for integrity audits, never on the insertion path.
func (g *Graph) FindAllCycles() [][]int {
	nodes := make([]int, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)

	var cycles [][]int
	for _, start := range nodes {
		onPath := map[int]bool{start: true}
		g.walkCycles(start, start, []int{start}, onPath, &cycles)
	}
	return cycles
}

func (g *Graph) walkCycles(start, n int, path []int, onPath map[int]bool, cycles *[][]int) {
	next := make([]int, len(g.adj[n]))
	copy(next, g.adj[n])
	sort.Ints(next)

	for _, m := range next {
		if m == start {
			// Report each cycle once, anchored at its smallest member.
			if start == minOf(path) {
				cycle := make([]int, len(path))
				copy(cycle, path)
				*cycles = append(*cycles, cycle)
			}
			continue
		}
		if onPath[m] {
			continue
		}
		onPath[m] = true
		g.walkCycles(start, m, append(path, m), onPath, cycles)
		delete(onPath, m)
	}
}

func minOf(ids []int) int {
	min := ids[0]
	for _, id := range ids[1:] {
		if id < min {
			min = id
		}
	}
	return min
}
