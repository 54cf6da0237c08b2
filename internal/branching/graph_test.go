package branching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchbot/internal/model"
)

func rule(source, target int) model.BranchingRule {
	return model.BranchingRule{SourceID: source, TargetID: target, CreatedAt: time.Now()}
}

func TestGraphReaches(t *testing.T) {
	g := NewGraph([]model.BranchingRule{rule(1, 2), rule(2, 3), rule(3, 5)})

	assert.True(t, g.Reaches(1, 5))
	assert.True(t, g.Reaches(2, 5))
	assert.False(t, g.Reaches(5, 1))
	assert.False(t, g.Reaches(3, 2))
}

func TestGraphCanAdd(t *testing.T) {
	g := NewGraph([]model.BranchingRule{rule(1, 3)})

	// Closing the loop back to an ancestor is unsafe.
	assert.False(t, g.CanAdd(3, 1))
	// Self-loops are rejected before any traversal.
	assert.False(t, g.CanAdd(2, 2))
	// Anything else is fine.
	assert.True(t, g.CanAdd(3, 5))
	assert.True(t, g.CanAdd(2, 3))
}

func TestGraphCanAddTransitiveCycle(t *testing.T) {
	g := NewGraph([]model.BranchingRule{rule(1, 2), rule(2, 3), rule(3, 4)})
	assert.False(t, g.CanAdd(4, 1))
	assert.False(t, g.CanAdd(3, 1))
	assert.True(t, g.CanAdd(1, 4))
}

func TestGraphHasEdge(t *testing.T) {
	g := NewGraph([]model.BranchingRule{rule(1, 2)})
	assert.True(t, g.HasEdge(1, 2))
	assert.False(t, g.HasEdge(2, 1))
}

func TestFindAllCyclesCleanGraph(t *testing.T) {
	g := NewGraph([]model.BranchingRule{rule(1, 2), rule(2, 3), rule(1, 3)})
	assert.Empty(t, g.FindAllCycles())
}

func TestFindAllCycles(t *testing.T) {
	// Built directly since ValidateRule would never let these in.
	g := NewGraph(nil)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)
	g.AddEdge(5, 6)

	cycles := g.FindAllCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []int{1, 2, 3}, cycles[0])
}

func TestFindAllCyclesReportsEachOnce(t *testing.T) {
	g := NewGraph(nil)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(3, 4)
	g.AddEdge(4, 3)

	cycles := g.FindAllCycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, []int{1, 2}, cycles[0])
	assert.Equal(t, []int{3, 4}, cycles[1])
}

// Committing any sequence of individually accepted rules keeps the graph
// acyclic.
func TestAcyclicityInvariant(t *testing.T) {
	g := NewGraph(nil)
	candidates := [][2]int{
		{1, 2}, {2, 3}, {3, 1}, {1, 3}, {3, 4}, {4, 2}, {4, 1}, {2, 4},
	}
	for _, c := range candidates {
		if g.CanAdd(c[0], c[1]) && !g.HasEdge(c[0], c[1]) {
			g.AddEdge(c[0], c[1])
		}
	}
	assert.Empty(t, g.FindAllCycles())
}
