// Package timedist implements the TimeDistance search label: a totally
// ordered value accumulating cumulative travel+wait time, carrying the
// last-traversed edge's attributes for delay computation and itinerary
// reconstruction.
package timedist

import (
	"math"

	"github.com/passbi/passbi_core/internal/graph"
)

// Infinity is the cost of an uninitialised label, worse than any real path.
const Infinity = math.MaxInt

// TimeDistance is the label the stochastic search carries at each stop.
type TimeDistance struct {
	// Uninitialised distinguishes "no path discovered yet" from "path of
	// length zero". Cleared by MarkInitialised before a label is inserted
	// into the search frontier.
	Uninitialised bool
	// CumTime is the cumulative travel+waiting time along the best
	// backward path discovered so far.
	CumTime int
	// PrevProps is a copy of the last edge relaxed into this label.
	PrevProps graph.EdgeProps
}

// Seed builds the label anchored at arrTimeTarget with the synthetic Init
// sentinel edge. The search marks it initialised and uses it as the
// destination's seed label; other stops hold no label until first relaxed.
func Seed(arrTimeTarget int) TimeDistance {
	return TimeDistance{
		Uninitialised: true,
		CumTime:       0,
		PrevProps: graph.EdgeProps{
			DepTime: arrTimeTarget,
			ArrTime: arrTimeTarget,
			TType:   graph.ModeInit,
			TripID:  graph.InitTripID,
			Gamma:   nil,
		},
	}
}

// MarkInitialised records that this label now corresponds to a real
// (possibly zero-length) path, and returns the updated value.
func (d TimeDistance) MarkInitialised() TimeDistance {
	d.Uninitialised = false
	return d
}

// Cost is the value the search orders labels by: +∞ while uninitialised,
// else the cumulative time.
func (d TimeDistance) Cost() int {
	if d.Uninitialised {
		return Infinity
	}
	return d.CumTime
}

// Less implements the total order over labels required by the priority
// queue: a < b iff a.Cost() < b.Cost().
func (d TimeDistance) Less(other TimeDistance) bool {
	return d.Cost() < other.Cost()
}

// PreviousDepTime returns the departure time of the last-traversed edge.
func (d TimeDistance) PreviousDepTime() int {
	return d.PrevProps.DepTime
}

// AppendEdge relaxes edge into this label, producing the label that would
// result from extending the backward path through edge. Foot edges have
// their times synthesised here so the walk arrives exactly when the next
// leg departs; the shared graph is never mutated, only this local copy of
// edge's attributes.
func (d TimeDistance) AppendEdge(edge graph.EdgeProps) TimeDistance {
	if edge.TType == graph.ModeFoot {
		edge.DepTime = d.PrevProps.DepTime - edge.TravelTime
		edge.ArrTime = d.PrevProps.DepTime
	}

	newCumTime := d.CumTime + (d.PrevProps.DepTime - edge.ArrTime) + edge.TravelTime

	return TimeDistance{
		Uninitialised: d.Uninitialised,
		CumTime:       newCumTime,
		PrevProps:     edge,
	}
}
