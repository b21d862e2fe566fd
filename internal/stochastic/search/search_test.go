package search

import (
	"context"
	"testing"

	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/stochastic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSearchTrivialTwoStopRide mirrors the core's first end-to-end scenario:
// a single schedule edge with no delay model must always be found at full
// probability.
func TestSearchTrivialTwoStopRide(t *testing.T) {
	g := graph.NewStochasticGraph()
	const A, B graph.StopID = 1, 2

	// Real edge A -> B, dep 08:00 (28800s), arr 08:10 (29400s). Stored
	// reversed: B -> A.
	g.AddEdge(B, A, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 1,
		DepTime: 28800, ArrTime: 29400, TravelTime: 600,
	})

	route, err := Search(context.Background(), g, A, B, 29400, 0.8)
	require.NoError(t, err)

	assert.Equal(t, []graph.StopID{A, B}, route.Connections)

	dep, _ := route.DepTime()
	arr, _ := route.ArrTime()
	assert.Equal(t, 28800, dep)
	assert.Equal(t, 29400, arr)

	proba, _, err := route.SuccessProbability()
	require.NoError(t, err)
	assert.Equal(t, 1.0, proba)
}

// TestSearchTightTransferPrunedByThreshold mirrors the second scenario: a
// transfer whose Gamma CDF sits around 0.5-0.6 is pruned at a high
// threshold but accepted once the threshold is lowered.
func TestSearchTightTransferPrunedByThreshold(t *testing.T) {
	g := graph.NewStochasticGraph()
	const A, B, C graph.StopID = 1, 2, 3

	gamma := &graph.GammaParams{Shape: 1, Loc: 0, Scale: 50}
	// Real A -> B, arrives 08:00, gamma-modelled.
	g.AddEdge(B, A, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 1,
		DepTime: 28200, ArrTime: 28800, TravelTime: 600, Gamma: gamma,
	})
	// Real B -> C, departs 08:01:06 (66s after A->B arrives): slack 66,
	// effective slack after the 20s bus transfer penalty is 46s.
	g.AddEdge(C, B, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 2,
		DepTime: 28866, ArrTime: 29466, TravelTime: 600,
	})

	t.Run("rejected at a high threshold", func(t *testing.T) {
		_, err := Search(context.Background(), g, A, C, 29466, 0.8)
		assert.ErrorIs(t, err, stochastic.ErrNoRouteFound)
	})

	t.Run("accepted once the threshold is lowered", func(t *testing.T) {
		route, err := Search(context.Background(), g, A, C, 29466, 0.4)
		require.NoError(t, err)
		proba, _, err := route.SuccessProbability()
		require.NoError(t, err)
		assert.InDelta(t, 0.6, proba, 0.05)
	})
}

// TestSearchWalkInserted mirrors the third scenario: a foot edge is
// threaded between two schedule legs, and its times are synthesised so the
// walk arrives exactly when the next leg departs.
func TestSearchWalkInserted(t *testing.T) {
	g := graph.NewStochasticGraph()
	const A, B, D, C graph.StopID = 1, 2, 3, 4

	// Real A -> B, arrives 08:00.
	g.AddEdge(B, A, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 1,
		DepTime: 28200, ArrTime: 28800, TravelTime: 600,
	})
	// Real foot B -- D, 250m, travel_time 300s (no dep/arr set: synthesised
	// during search).
	g.AddEdge(D, B, graph.EdgeProps{
		TType: graph.ModeFoot, TripID: graph.FootTripID, TravelTime: 300,
	})
	// Real D -> C, departs 08:10 (29400s).
	g.AddEdge(C, D, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 2,
		DepTime: 29400, ArrTime: 29700, TravelTime: 300,
	})

	route, err := Search(context.Background(), g, A, C, 29700, 0.8)
	require.NoError(t, err)

	assert.Equal(t, []graph.StopID{A, B, D, C}, route.Connections)

	footLeg, err := route.Leg(1)
	require.NoError(t, err)
	assert.Equal(t, 29100, footLeg.DepTime) // 08:05
	assert.Equal(t, 29400, footLeg.ArrTime) // 08:10

	arr, err := route.ArrTime()
	require.NoError(t, err)
	assert.LessOrEqual(t, arr, 29700)
}

func TestSearchReturnsErrorWhenUnreachable(t *testing.T) {
	g := graph.NewStochasticGraph()
	const A, B graph.StopID = 1, 2

	_, err := Search(context.Background(), g, A, B, 1000, 0.8)
	assert.ErrorIs(t, err, stochastic.ErrNoRouteFound)
}

func TestSearchByNameResolvesThroughIndex(t *testing.T) {
	g := graph.NewStochasticGraph()
	const A, B graph.StopID = 1, 2
	g.AddStop(A, graph.StopInfo{Name: "Alpha"})
	g.AddStop(B, graph.StopInfo{Name: "Beta"})
	g.AddEdge(B, A, graph.EdgeProps{TType: graph.ModeBus, TripID: 1, DepTime: 28800, ArrTime: 29400, TravelTime: 600})

	route, err := SearchByName(context.Background(), g, "Alpha", "Beta", 29400, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []graph.StopID{A, B}, route.Connections)

	_, err = SearchByName(context.Background(), g, "Nowhere", "Beta", 29400, 0.8)
	assert.Error(t, err)
}

