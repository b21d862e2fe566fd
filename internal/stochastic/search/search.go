// Package search implements the one-shot stochastic backward search: a
// modified Dijkstra over the reversed transit graph whose edge relaxation
// combines travel time, waiting time, a transport-mode-dependent connection
// policy and a per-edge delay distribution.
package search

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/stochastic"
	"github.com/passbi/passbi_core/internal/stochastic/delay"
	"github.com/passbi/passbi_core/internal/stochastic/timedist"
)

// Search runs the backward Dijkstra from end toward start on g and returns
// the forward itinerary discovered, or stochastic.ErrNoRouteFound if the
// frontier drains without reaching start.
func Search(ctx context.Context, g *graph.StochasticGraph, start, end graph.StopID, arrTimeTarget int, threshold float64) (*stochastic.Route, error) {
	labels := make(map[graph.StopID]timedist.TimeDistance)
	prev := make(map[graph.StopID]graph.StopID)
	visited := make(map[graph.StopID]bool)

	seed := timedist.Seed(arrTimeTarget).MarkInitialised()
	labels[end] = seed

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &queueItem{stop: end, cost: seed.Cost()})

	for pq.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, stochastic.ErrNoRouteFound
		default:
		}

		item := heap.Pop(pq).(*queueItem)
		u := item.stop

		if visited[u] {
			continue
		}
		current, ok := labels[u]
		if !ok || current.Cost() != item.cost {
			continue
		}
		visited[u] = true

		if u == start {
			break
		}

		uLabel := labels[u]
		prevProps := uLabel.PrevProps
		prevDep := prevProps.DepTime

		startCost := timedist.Infinity
		if sl, ok := labels[start]; ok {
			startCost = sl.Cost()
		}

		for _, edge := range g.OutEdges(u) {
			props := edge.Props

			if !eligible(props, prevProps, prevDep, arrTimeTarget, startCost, threshold) {
				continue
			}

			candidate := uLabel.AppendEdge(props)
			existing, have := labels[edge.To]
			if !have || candidate.Less(existing) {
				candidate = candidate.MarkInitialised()
				labels[edge.To] = candidate
				prev[edge.To] = u
				if !visited[edge.To] {
					heap.Push(pq, &queueItem{stop: edge.To, cost: candidate.Cost()})
				}
			}
		}
	}

	if _, ok := prev[start]; !ok && start != end {
		return nil, stochastic.ErrNoRouteFound
	}

	route := &stochastic.Route{}
	cur := start
	for {
		lbl, ok := labels[cur]
		if !ok {
			return nil, stochastic.ErrNoRouteFound
		}
		route.Append(cur, lbl)
		if cur == end {
			break
		}
		next, ok := prev[cur]
		if !ok {
			return nil, stochastic.ErrNoRouteFound
		}
		cur = next
	}

	logrus.WithFields(logrus.Fields{
		"start": start,
		"end":   end,
		"stops": route.NumStops(),
		"nodes": len(visited),
	}).Debug("stochastic search completed")

	return route, nil
}

// eligible reports whether the out-edge (u, props) may be relaxed, given the
// label currently held at u.
func eligible(props, prevProps graph.EdgeProps, prevDep, arrTimeTarget, startCost int, threshold float64) bool {
	if props.TType != graph.ModeFoot {
		if prevDep < props.ArrTime {
			return false
		}
		if props.ArrTime < prevDep-delay.MaxWaitingTime {
			return false
		}
		if props.DepTime < arrTimeTarget-startCost {
			return false
		}
	}

	if props.TType == graph.ModeFoot && prevProps.TType == graph.ModeFoot {
		return false
	}

	if delay.ConnectionProbability(props, prevProps) < threshold {
		return false
	}

	return true
}

// SearchByName resolves start/end display names through the graph's name
// index before delegating to Search.
func SearchByName(ctx context.Context, g *graph.StochasticGraph, startName, endName string, arrTimeTarget int, threshold float64) (*stochastic.Route, error) {
	start, ok := g.StopIDByName(startName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", stochastic.ErrUnknownStopName, startName)
	}
	end, ok := g.StopIDByName(endName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", stochastic.ErrUnknownStopName, endName)
	}
	return Search(ctx, g, start, end, arrTimeTarget, threshold)
}

type queueItem struct {
	stop  graph.StopID
	cost  int
	index int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].cost < pq[j].cost
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*queueItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}
