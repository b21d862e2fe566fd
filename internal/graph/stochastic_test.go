package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStochasticGraphAddAndOutEdges(t *testing.T) {
	g := NewStochasticGraph()
	g.AddStop(1, StopInfo{Name: "A", Lat: 0, Lon: 0})
	g.AddStop(2, StopInfo{Name: "B", Lat: 1, Lon: 1})

	key := g.AddEdge(2, 1, EdgeProps{TType: ModeBus, TripID: 7, DepTime: 100, ArrTime: 200, TravelTime: 100})

	edges := g.OutEdges(2)
	assert.Len(t, edges, 1)
	assert.Equal(t, key, edges[0].Key)
	assert.Equal(t, StopID(1), edges[0].To)
}

func TestStochasticGraphOutEdgesReturnsCopy(t *testing.T) {
	g := NewStochasticGraph()
	g.AddEdge(1, 2, EdgeProps{TType: ModeBus})

	edges := g.OutEdges(1)
	edges[0].To = 99

	again := g.OutEdges(1)
	assert.Equal(t, StopID(2), again[0].To)
}

func TestStochasticGraphStopIDByName(t *testing.T) {
	g := NewStochasticGraph()
	g.AddStop(5, StopInfo{Name: "Central"})

	id, ok := g.StopIDByName("Central")
	assert.True(t, ok)
	assert.Equal(t, StopID(5), id)

	_, ok = g.StopIDByName("Nowhere")
	assert.False(t, ok)
}

func TestStochasticGraphRemoveEdge(t *testing.T) {
	g := NewStochasticGraph()
	k1 := g.AddEdge(1, 2, EdgeProps{TripID: 1})
	k2 := g.AddEdge(1, 2, EdgeProps{TripID: 2})

	g.RemoveEdge(1, k1)

	edges := g.OutEdges(1)
	assert.Len(t, edges, 1)
	assert.Equal(t, k2, edges[0].Key)

	// Removing an already-removed key is a no-op.
	g.RemoveEdge(1, k1)
	assert.Len(t, g.OutEdges(1), 1)
}

func TestStochasticGraphFindParallelEdge(t *testing.T) {
	g := NewStochasticGraph()
	scheduled := EdgeProps{TType: ModeBus, TripID: 42, DepTime: 100, ArrTime: 200}
	g.AddEdge(1, 2, scheduled)
	footKey := g.AddEdge(1, 2, EdgeProps{TType: ModeFoot})

	t.Run("exact match on scheduled edge", func(t *testing.T) {
		key, ok := g.FindParallelEdge(1, 2, scheduled)
		assert.True(t, ok)
		edges := g.OutEdges(1)
		assert.Equal(t, edges[0].Key, key)
	})

	t.Run("foot edges match by mode alone", func(t *testing.T) {
		key, ok := g.FindParallelEdge(1, 2, EdgeProps{TType: ModeFoot})
		assert.True(t, ok)
		assert.Equal(t, footKey, key)
	})

	t.Run("no match for a different endpoint", func(t *testing.T) {
		_, ok := g.FindParallelEdge(1, 3, scheduled)
		assert.False(t, ok)
	})
}

func TestStochasticGraphCloneIsIndependent(t *testing.T) {
	g := NewStochasticGraph()
	g.AddStop(1, StopInfo{Name: "A"})
	key := g.AddEdge(1, 2, EdgeProps{TripID: 1})

	clone := g.Clone()
	clone.RemoveEdge(1, key)

	assert.Len(t, g.OutEdges(1), 1, "original graph must be unaffected by clone mutation")
	assert.Len(t, clone.OutEdges(1), 0)
}
