package timedist

import (
	"testing"

	"github.com/passbi/passbi_core/internal/graph"
	"github.com/stretchr/testify/assert"
)

func TestSeedIsUninitialisedWithSentinelEdge(t *testing.T) {
	d := Seed(1000)

	assert.True(t, d.Uninitialised)
	assert.Equal(t, Infinity, d.Cost())
	assert.Equal(t, graph.ModeInit, d.PrevProps.TType)
	assert.Equal(t, graph.InitTripID, d.PrevProps.TripID)
	assert.Equal(t, 1000, d.PrevProps.DepTime)
	assert.Equal(t, 1000, d.PrevProps.ArrTime)
}

func TestMarkInitialisedClearsFlag(t *testing.T) {
	d := Seed(1000).MarkInitialised()

	assert.False(t, d.Uninitialised)
	assert.Equal(t, 0, d.Cost())
}

func TestLessOrdering(t *testing.T) {
	uninit := Seed(1000)
	init := uninit.MarkInitialised()

	assert.True(t, init.Less(uninit))
	assert.False(t, uninit.Less(init))

	a := TimeDistance{CumTime: 10}
	b := TimeDistance{CumTime: 20}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestAppendEdgeScheduledLeg(t *testing.T) {
	d := Seed(1000).MarkInitialised()

	edge := graph.EdgeProps{
		TType:      graph.ModeBus,
		TripID:     5,
		DepTime:    900,
		ArrTime:    950,
		TravelTime: 50,
	}

	next := d.AppendEdge(edge)

	// waiting time = old.prev_props.dep_time (1000) - edge.arr_time (950) = 50
	// cum_time = 0 + 50 + 50 = 100
	assert.Equal(t, 100, next.CumTime)
	assert.Equal(t, edge, next.PrevProps)
}

func TestAppendEdgeFootLegSynthesisesTimes(t *testing.T) {
	d := Seed(1000).MarkInitialised()

	foot := graph.EdgeProps{
		TType:      graph.ModeFoot,
		TripID:     graph.FootTripID,
		TravelTime: 300,
	}

	next := d.AppendEdge(foot)

	assert.Equal(t, 700, next.PrevProps.DepTime) // 1000 - 300
	assert.Equal(t, 1000, next.PrevProps.ArrTime)
	// waiting time = old.prev_props.dep_time (1000) - edge.arr_time (1000) = 0
	// cum_time = 0 + 0 + 300 = 300
	assert.Equal(t, 300, next.CumTime)
}

func TestAppendEdgeRelaxationIsMonotonic(t *testing.T) {
	d := Seed(1000).MarkInitialised()

	edge := graph.EdgeProps{TType: graph.ModeTram, TripID: 2, DepTime: 800, ArrTime: 900, TravelTime: 100}
	next := d.AppendEdge(edge)

	assert.GreaterOrEqual(t, next.CumTime, d.CumTime)
}

func TestPreviousDepTime(t *testing.T) {
	d := Seed(1234)
	assert.Equal(t, 1234, d.PreviousDepTime())
}
