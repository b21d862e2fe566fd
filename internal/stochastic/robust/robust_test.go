package robust

import (
	"context"
	"testing"

	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/stochastic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDivergentGraph builds the fourth end-to-end scenario: two parallel
// itineraries A->B->C and A->B'->C. The B path is the cheaper (later
// departing) of the two, but its single transfer has probability ~0.6; the
// B' path departs earlier and its transfer has probability ~0.9. At a 0.8
// threshold the search's per-transfer gate already prunes the B transfer,
// so the B' path is the one the search returns.
func buildDivergentGraph() (g *graph.StochasticGraph, a, b, bPrime, c graph.StopID) {
	g = graph.NewStochasticGraph()
	a, b, bPrime, c = 1, 2, 3, 4

	gamma := &graph.GammaParams{Shape: 1, Loc: 0, Scale: 50}

	// Path via B: departs A at 29000, 46s effective slack -> proba ~0.60.
	g.AddEdge(b, a, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 1,
		DepTime: 29000, ArrTime: 29300, TravelTime: 300, Gamma: gamma,
	})
	g.AddEdge(c, b, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 2,
		DepTime: 29366, ArrTime: 29666, TravelTime: 300,
	})

	// Path via B': departs A at 27000, 115s effective slack -> proba ~0.90.
	g.AddEdge(bPrime, a, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 3,
		DepTime: 27000, ArrTime: 27300, TravelTime: 300, Gamma: gamma,
	})
	g.AddEdge(c, bPrime, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 4,
		DepTime: 27435, ArrTime: 27735, TravelTime: 300,
	})

	return g, a, b, bPrime, c
}

func TestRobustDivergence(t *testing.T) {
	g, a, _, _, c := buildDivergentGraph()

	routes, err := Robust(context.Background(), g, a, c, 29666, 0.8, 10, 1)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	proba, _, err := routes[0].SuccessProbability()
	require.NoError(t, err)
	assert.InDelta(t, 0.9, proba, 0.05, "robust planner must settle on the higher-probability path via B'")
	assert.GreaterOrEqual(t, proba, 0.8)
}

func TestRobustReturnsErrorWhenNoRouteEverExists(t *testing.T) {
	g := graph.NewStochasticGraph()
	const a, b graph.StopID = 1, 2

	// No edge at all between a and b: the very first search fails, and
	// there is no "best so far" to fall back to.
	routes, err := Robust(context.Background(), g, a, b, 1000, 0.8, 3, 2)
	assert.ErrorIs(t, err, stochastic.ErrNoRouteFound)
	assert.Nil(t, routes)
}

func TestRobustDegradesToBestWhenThresholdNeverMet(t *testing.T) {
	g := graph.NewStochasticGraph()
	const a, b, c, d graph.StopID = 1, 2, 3, 4
	gamma := &graph.GammaParams{Shape: 1, Loc: 0, Scale: 50}

	// A -> B -> C -> D with two transfers of 135s slack (115s effective after
	// the bus penalty), each ~0.90: both pass a 0.85 per-transfer gate, but
	// the route product ~0.81 does not meet 0.85. The planner then removes
	// the weakest edge, the next search finds nothing, and it must degrade
	// to the single most-robust route found, not an error.
	g.AddEdge(b, a, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 1,
		DepTime: 28130, ArrTime: 28430, TravelTime: 300, Gamma: gamma,
	})
	g.AddEdge(c, b, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 2,
		DepTime: 28565, ArrTime: 28865, TravelTime: 300, Gamma: gamma,
	})
	g.AddEdge(d, c, graph.EdgeProps{
		TType: graph.ModeBus, TripID: 3,
		DepTime: 29000, ArrTime: 29300, TravelTime: 300,
	})

	routes, err := Robust(context.Background(), g, a, d, 29300, 0.85, 2, 5)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	proba, _, err := routes[0].SuccessProbability()
	require.NoError(t, err)
	assert.InDelta(t, 0.81, proba, 0.01, "best-so-far must be the only route found, below threshold")
}
