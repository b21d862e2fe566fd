package delay

import (
	"testing"

	"github.com/passbi/passbi_core/internal/graph"
	"github.com/stretchr/testify/assert"
)

func gammaEdge(tType graph.TransportMode, tripID graph.TripID, arr int) graph.EdgeProps {
	return graph.EdgeProps{
		TType:   tType,
		TripID:  tripID,
		ArrTime: arr,
		Gamma:   &graph.GammaParams{Shape: 2, Loc: 0, Scale: 30},
	}
}

func TestConnectionProbabilitySameTrip(t *testing.T) {
	prev := gammaEdge(graph.ModeBus, 1, 100)
	curr := graph.EdgeProps{TType: graph.ModeBus, TripID: 1, DepTime: 50}

	p := ConnectionProbability(prev, curr)
	assert.Equal(t, 1.0, p)
}

func TestConnectionProbabilityFootAlwaysPossible(t *testing.T) {
	prev := gammaEdge(graph.ModeBus, 1, 100)
	curr := graph.EdgeProps{TType: graph.ModeFoot, TripID: 2, DepTime: 105}

	p := ConnectionProbability(prev, curr)
	assert.Equal(t, 1.0, p)
}

func TestConnectionProbabilityNoModelIsOptimistic(t *testing.T) {
	prev := graph.EdgeProps{TType: graph.ModeBus, TripID: 1, ArrTime: 100, Gamma: nil}
	curr := graph.EdgeProps{TType: graph.ModeTram, TripID: 2, DepTime: 150}

	p := ConnectionProbability(prev, curr)
	assert.Equal(t, 1.0, p)
}

func TestConnectionProbabilityBounded(t *testing.T) {
	prev := gammaEdge(graph.ModeTram, 1, 100)

	cases := []int{-1000, -20, 0, 20, 60, 600, 10000}
	for _, depOffset := range cases {
		curr := graph.EdgeProps{TType: graph.ModeTram, TripID: 2, DepTime: 100 + depOffset}
		p := ConnectionProbability(prev, curr)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestConnectionProbabilityMonotoneInSlack(t *testing.T) {
	prev := gammaEdge(graph.ModeSBahn, 1, 100)

	last := 0.0
	for _, slack := range []int{-50, 0, 50, 100, 200, 400, 800} {
		curr := graph.EdgeProps{TType: graph.ModeSBahn, TripID: 2, DepTime: 100 + slack}
		p := ConnectionProbability(prev, curr)
		assert.GreaterOrEqual(t, p, last, "probability must be non-decreasing in slack")
		last = p
	}
}

func TestConnectionProbabilityZeroEffectiveSlackIsNearZero(t *testing.T) {
	prev := gammaEdge(graph.ModeICE, 1, 100)
	// slack below the transfer penalty yields a non-positive effective slack.
	curr := graph.EdgeProps{TType: graph.ModeICE, TripID: 2, DepTime: 100}

	p := ConnectionProbability(prev, curr)
	assert.Equal(t, 0.0, p)
}

func TestTransferPenaltyTable(t *testing.T) {
	tests := []struct {
		mode     graph.TransportMode
		expected int
	}{
		{graph.ModeBus, 20},
		{graph.ModeFoot, 20},
		{graph.ModeTram, 30},
		{graph.ModeSBahn, 100},
		{graph.ModeExtrazug, 100},
		{graph.ModeInterRegio, 120},
		{graph.ModeICE, 120},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			penalty, err := TransferPenalty(tt.mode)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, penalty)
		})
	}

	t.Run("unknown mode errors", func(t *testing.T) {
		_, err := TransferPenalty(graph.ModeInit)
		assert.Error(t, err)
	})
}
