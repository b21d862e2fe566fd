// Package robust implements the iterative robust planner: it repeatedly
// runs the stochastic search on a private mutable clone of the graph,
// forbidding the weakest edge of each rejected route, until it has
// accumulated enough threshold-compliant itineraries or exhausted its
// iteration budget.
package robust

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/stochastic"
	"github.com/passbi/passbi_core/internal/stochastic/search"
)

// Robust runs the robust planning loop described in the core's component D.
// It always returns at least one route when the search succeeds at least
// once, degrading gracefully to the single most-robust route found when no
// threshold-compliant itinerary is discovered within maxIter iterations.
func Robust(ctx context.Context, g *graph.StochasticGraph, start, end graph.StopID, arrTimeTarget int, threshold float64, maxIter, numberOfRoutes int) ([]*stochastic.Route, error) {
	clone := g.Clone()

	var accepted []*stochastic.Route
	var best *stochastic.Route
	bestProba := -1.0

	for iter := 0; iter < maxIter; iter++ {
		route, err := search.Search(ctx, clone, start, end, arrTimeTarget, threshold)
		if err != nil {
			if len(accepted) == 0 && best != nil {
				accepted = append(accepted, best)
			}
			return finish(accepted, best)
		}

		proba, weakest, err := route.SuccessProbability()
		if err != nil {
			return nil, err
		}

		if proba > bestProba {
			bestProba = proba
			best = route
		}

		if proba >= threshold {
			accepted = append(accepted, route)
		}

		logrus.WithFields(logrus.Fields{
			"iteration":   iter,
			"probability": proba,
			"accepted":    len(accepted),
		}).Debug("robust planner iteration")

		if len(accepted) >= numberOfRoutes {
			return accepted, nil
		}

		key, ok := clone.FindParallelEdge(weakest.U, weakest.V, weakest.Props)
		if !ok {
			if len(accepted) == 0 && best != nil {
				accepted = append(accepted, best)
			}
			return finish(accepted, best)
		}
		clone.RemoveEdge(weakest.U, key)
	}

	return finish(accepted, best)
}

func finish(accepted []*stochastic.Route, best *stochastic.Route) ([]*stochastic.Route, error) {
	if len(accepted) == 0 {
		if best == nil {
			return nil, stochastic.ErrNoRouteFound
		}
		accepted = append(accepted, best)
	}
	return accepted, nil
}
