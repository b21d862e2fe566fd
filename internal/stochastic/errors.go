package stochastic

import "errors"

// ErrNoRouteFound is returned when the search exhausts the frontier without
// reaching the start stop, or the robust planner never obtains any route at
// all (when it found routes but none met the threshold, it returns the best
// one instead).
var ErrNoRouteFound = errors.New("stochastic: no route found")

// ErrEmptyRoute is a contract violation: an accessor was called on a Route
// with fewer than one stop.
var ErrEmptyRoute = errors.New("stochastic: route has no connections")

// ErrUnknownStopName is a contract violation: a start/end display name was
// not present in the graph's name index.
var ErrUnknownStopName = errors.New("stochastic: unknown stop name")
