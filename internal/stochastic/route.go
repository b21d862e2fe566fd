package stochastic

import (
	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/stochastic/delay"
	"github.com/passbi/passbi_core/internal/stochastic/timedist"
)

// WeakestEdge identifies the transfer along a route with the smallest
// per-connection probability, addressed in the stored (reversed) graph
// direction so the robust planner can remove it directly via
// graph.FindParallelEdge(U, V, Props).
type WeakestEdge struct {
	U     graph.StopID
	V     graph.StopID
	Props graph.EdgeProps
}

// Route is a forward, real-world-travel-order itinerary discovered by a
// backward search from end to start. Connections has length N;
// Distances[i] is the label the backward search relaxed into
// Connections[i], so its PrevProps describes the real-world edge leaving
// Connections[i] toward Connections[i+1]; the last entry carries the Init
// sentinel anchored at the target arrival time.
type Route struct {
	Connections []graph.StopID
	Distances   []timedist.TimeDistance
}

// Append adds one connection to the route during backward reconstruction.
func (r *Route) Append(stop graph.StopID, dist timedist.TimeDistance) {
	r.Connections = append(r.Connections, stop)
	r.Distances = append(r.Distances, dist)
}

// DepTime returns the itinerary's real-world departure time.
func (r *Route) DepTime() (int, error) {
	if len(r.Connections) == 0 {
		return 0, ErrEmptyRoute
	}
	return r.Distances[0].PrevProps.DepTime, nil
}

// TravelTime returns the cumulative travel+waiting time of the itinerary.
func (r *Route) TravelTime() (int, error) {
	if len(r.Connections) == 0 {
		return 0, ErrEmptyRoute
	}
	return r.Distances[0].CumTime, nil
}

// ArrTime returns the itinerary's real-world arrival time.
func (r *Route) ArrTime() (int, error) {
	dep, err := r.DepTime()
	if err != nil {
		return 0, err
	}
	travel, err := r.TravelTime()
	if err != nil {
		return 0, err
	}
	return dep + travel, nil
}

// SuccessProbability computes the product of per-transfer connection
// probabilities across the whole route (assuming independence), along with
// the weakest edge: the transfer achieving the minimum per-connection
// probability, ties broken by keeping the last one encountered.
func (r *Route) SuccessProbability() (float64, WeakestEdge, error) {
	if len(r.Connections) == 0 {
		return 0, WeakestEdge{}, ErrEmptyRoute
	}

	proba := 1.0
	leastProba := 1.0
	var weakest WeakestEdge
	haveWeakest := false

	for i := 0; i < len(r.Connections)-1; i++ {
		q := delay.ConnectionProbability(r.Distances[i].PrevProps, r.Distances[i+1].PrevProps)
		proba *= q

		if q <= leastProba || !haveWeakest {
			leastProba = q
			weakest = WeakestEdge{
				U:     r.Connections[i+1],
				V:     r.Connections[i],
				Props: r.Distances[i].PrevProps,
			}
			haveWeakest = true
		}
	}

	return proba, weakest, nil
}

// WaitTime returns the waiting time at the stop between the arrival of leg
// i and the departure of leg i+1.
func (r *Route) WaitTime(i int) (int, error) {
	if i < 0 || i+1 >= len(r.Connections) {
		return 0, ErrEmptyRoute
	}
	return r.Distances[i+1].PrevProps.DepTime - r.Distances[i].PrevProps.ArrTime, nil
}

// Leg returns the edge attributes of the i-th traversed connection.
func (r *Route) Leg(i int) (graph.EdgeProps, error) {
	if i < 0 || i >= len(r.Connections) {
		return graph.EdgeProps{}, ErrEmptyRoute
	}
	return r.Distances[i].PrevProps, nil
}

// NumStops returns the number of stops in the itinerary.
func (r *Route) NumStops() int {
	return len(r.Connections)
}
