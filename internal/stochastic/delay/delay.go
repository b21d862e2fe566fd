// Package delay models the probability that a scheduled connection is made
// despite stochastic delay, following a per-edge Gamma delay distribution.
package delay

import (
	"fmt"
	"math"
	"sync"

	"github.com/passbi/passbi_core/internal/graph"
	"gonum.org/v1/gonum/stat/distuv"
)

// WalkingSpeed is the pedestrian speed (50 m per minute) used to turn foot
// distances into travel times elsewhere in the stochastic core.
const WalkingSpeed = 50.0 / 60.0 // m/s

// MaxWaitingTime bounds how long a traveller may wait at a stop between the
// incoming leg's arrival and the next leg's departure.
const MaxWaitingTime = 45 * 60 // seconds

// transferPenalty is the mode-dependent buffer subtracted from the raw
// slack time before evaluating the Gamma CDF. Keyed by the mode the
// traveller is exiting (prev_props.ttype).
var transferPenalty = map[graph.TransportMode]int{
	graph.ModeBus:          20,
	graph.ModeFoot:         20,
	graph.ModeTram:         30,
	graph.ModeSBahn:        100,
	graph.ModeExtrazug:     100,
	graph.ModeInterRegio:   120,
	graph.ModeEurocity:     120,
	graph.ModeRegioExpress: 120,
	graph.ModeICE:          120,
	graph.ModeEurostar:     120,
	graph.ModeIntercity:    120,
}

// cdfCache memoizes Gamma CDF evaluations keyed by the exact parameters and
// effective slack in whole seconds, since the search gate calls it often.
var cdfCache sync.Map // map[cdfKey]float64

type cdfKey struct {
	shape, loc, scale float64
	tEff              int
}

// ConnectionProbability computes the probability of making the connection
// from prev (the leg the traveller just finished) to curr (the next real
// leg), in forward-travel order.
//
// Same-trip transfers, walking legs, and edges with no delay model are
// always feasible (probability 1). Otherwise the probability is the Gamma
// CDF of the effective slack: the raw slack between prev's arrival and
// curr's departure, minus a transfer penalty keyed by the mode prev is
// exiting.
func ConnectionProbability(prev, curr graph.EdgeProps) float64 {
	if prev.TripID == curr.TripID {
		return 1.0
	}
	if curr.TType == graph.ModeFoot {
		return 1.0
	}
	if prev.Gamma == nil {
		return 1.0
	}

	slack := curr.DepTime - prev.ArrTime
	tEff := slack - transferPenalty[prev.TType]

	return gammaCDF(*prev.Gamma, tEff)
}

func gammaCDF(params graph.GammaParams, tEff int) float64 {
	key := cdfKey{shape: params.Shape, loc: params.Loc, scale: params.Scale, tEff: tEff}
	if v, ok := cdfCache.Load(key); ok {
		return v.(float64)
	}

	x := float64(tEff) - params.Loc
	var p float64
	if x <= 0 {
		p = 0
	} else {
		g := distuv.Gamma{Alpha: params.Shape, Beta: 1.0 / params.Scale}
		p = g.CDF(x)
	}
	p = math.Min(1.0, math.Max(0.0, p))

	cdfCache.Store(key, p)
	return p
}

// TransferPenalty exposes the mode-dependent penalty table (seconds) for
// callers outside this package, e.g. diagnostics.
func TransferPenalty(mode graph.TransportMode) (int, error) {
	p, ok := transferPenalty[mode]
	if !ok {
		return 0, fmt.Errorf("delay: no transfer penalty defined for mode %q", mode)
	}
	return p, nil
}
