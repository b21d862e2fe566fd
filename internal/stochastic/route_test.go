package stochastic

import (
	"testing"

	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/stochastic/timedist"
	"github.com/stretchr/testify/assert"
)

func TestRouteAccessorsOnEmptyRouteError(t *testing.T) {
	r := &Route{}

	_, err := r.DepTime()
	assert.ErrorIs(t, err, ErrEmptyRoute)

	_, err = r.TravelTime()
	assert.ErrorIs(t, err, ErrEmptyRoute)

	_, err = r.ArrTime()
	assert.ErrorIs(t, err, ErrEmptyRoute)

	_, _, err = r.SuccessProbability()
	assert.ErrorIs(t, err, ErrEmptyRoute)
}

func TestRouteTrivialTwoStopRide(t *testing.T) {
	// Mirrors the end-to-end "trivial two-stop ride" scenario: A -> B,
	// dep=08:00 (28800s), arr=08:10 (29400s), no delay model.
	r := &Route{}
	edge := graph.EdgeProps{TType: graph.ModeBus, TripID: 1, DepTime: 28800, ArrTime: 29400, TravelTime: 600}

	r.Append(graph.StopID(1), timedist.TimeDistance{CumTime: 600, PrevProps: edge})
	r.Append(graph.StopID(2), timedist.TimeDistance{CumTime: 0, PrevProps: graph.EdgeProps{
		TType: graph.ModeInit, TripID: graph.InitTripID, DepTime: 29400, ArrTime: 29400,
	}})

	dep, err := r.DepTime()
	assert.NoError(t, err)
	assert.Equal(t, 28800, dep)

	travel, err := r.TravelTime()
	assert.NoError(t, err)
	assert.Equal(t, 600, travel)

	arr, err := r.ArrTime()
	assert.NoError(t, err)
	assert.Equal(t, 29400, arr)

	proba, _, err := r.SuccessProbability()
	assert.NoError(t, err)
	assert.Equal(t, 1.0, proba)
}

func TestRouteSuccessProbabilityFindsWeakestEdgeOnTies(t *testing.T) {
	r := &Route{}
	sameGamma := &graph.GammaParams{Shape: 2, Loc: 0, Scale: 30}

	legA := graph.EdgeProps{TType: graph.ModeBus, TripID: 1, ArrTime: 100, Gamma: sameGamma}
	legB := graph.EdgeProps{TType: graph.ModeBus, TripID: 2, DepTime: 100, ArrTime: 200, Gamma: sameGamma}
	legC := graph.EdgeProps{TType: graph.ModeBus, TripID: 3, DepTime: 200, ArrTime: 300, Gamma: sameGamma}

	r.Append(graph.StopID(1), timedist.TimeDistance{PrevProps: legA})
	r.Append(graph.StopID(2), timedist.TimeDistance{PrevProps: legB})
	r.Append(graph.StopID(3), timedist.TimeDistance{PrevProps: legC})

	_, weakest, err := r.SuccessProbability()
	assert.NoError(t, err)
	// identical slack on both transfers -> tie broken by keeping the last pair.
	assert.Equal(t, graph.StopID(3), weakest.U)
	assert.Equal(t, graph.StopID(2), weakest.V)
}

func TestRouteWaitTimeAndLeg(t *testing.T) {
	r := &Route{}
	legA := graph.EdgeProps{TType: graph.ModeBus, ArrTime: 100}
	legB := graph.EdgeProps{TType: graph.ModeTram, DepTime: 130}

	r.Append(graph.StopID(1), timedist.TimeDistance{PrevProps: legA})
	r.Append(graph.StopID(2), timedist.TimeDistance{PrevProps: legB})

	wait, err := r.WaitTime(0)
	assert.NoError(t, err)
	assert.Equal(t, 30, wait)

	leg, err := r.Leg(0)
	assert.NoError(t, err)
	assert.Equal(t, legA, leg)

	_, err = r.WaitTime(5)
	assert.Error(t, err)
}
