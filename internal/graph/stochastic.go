package graph

import "sync"

// StopID identifies a stop in the stochastic routing graph.
type StopID int64

// TripID identifies a scheduled trip. FootTripID and InitTripID are
// reserved sentinels: no real trip ever carries them.
type TripID int64

const (
	FootTripID TripID = -1
	InitTripID TripID = -2
)

// TransportMode is the closed set of transport modes the stochastic planner
// understands. Init is synthetic and only ever appears on the search seed.
type TransportMode string

const (
	ModeFoot         TransportMode = "Foot"
	ModeBus          TransportMode = "Bus"
	ModeTram         TransportMode = "Tram"
	ModeSBahn        TransportMode = "S-Bahn"
	ModeExtrazug     TransportMode = "Extrazug"
	ModeInterRegio   TransportMode = "InterRegio"
	ModeEurocity     TransportMode = "Eurocity"
	ModeRegioExpress TransportMode = "RegioExpress"
	ModeICE          TransportMode = "ICE"
	ModeEurostar     TransportMode = "Eurostar"
	ModeIntercity    TransportMode = "Intercity"
	ModeInit         TransportMode = "Init"
)

// GammaParams are the (shape, loc, scale) parameters of a Gamma distribution
// over delay seconds. Nil GammaParams (on EdgeProps.Gamma) means "no model".
type GammaParams struct {
	Shape float64
	Loc   float64
	Scale float64
}

// EdgeProps carries everything the stochastic search and delay model need
// about one scheduled (or walking) connection. Times are absolute seconds
// since the fixed midnight epoch and retain real-world meaning (dep <= arr)
// even though the graph storing them is reversed; see StochasticGraph.
type EdgeProps struct {
	TType      TransportMode
	TripID     TripID
	DepTime    int
	ArrTime    int
	TravelTime int
	Gamma      *GammaParams
}

// EdgeKey addresses one parallel edge between an ordered pair of stops.
type EdgeKey int64

// StopInfo holds the presentation-only attributes of a stop.
type StopInfo struct {
	Name string
	Lat  float64
	Lon  float64
}

// Edge is one parallel arc stored at its source stop.
type Edge struct {
	Key   EdgeKey
	To    StopID
	Props EdgeProps
}

// StochasticGraph is a directed multigraph keyed by StopID, storing edges
// in the direction reversed from real-world travel: an edge from real stop
// X to real stop Y is stored as an arc from Y to X. A backward search from
// the destination therefore walks the graph "forward" in storage order
// while reconstructing a real-world route front to back.
//
// The graph is safe for concurrent reads. Robust-planner callers must take
// a private Clone() before calling RemoveEdge; mutation is never observed
// by other holders of the same *StochasticGraph.
type StochasticGraph struct {
	mu      sync.RWMutex
	stops   map[StopID]StopInfo
	out     map[StopID][]Edge
	nameIdx map[string]StopID
	nextKey int64
}

// NewStochasticGraph returns an empty graph ready for AddStop/AddEdge.
func NewStochasticGraph() *StochasticGraph {
	return &StochasticGraph{
		stops:   make(map[StopID]StopInfo),
		out:     make(map[StopID][]Edge),
		nameIdx: make(map[string]StopID),
	}
}

// AddStop registers a stop's presentation attributes and indexes its name.
func (g *StochasticGraph) AddStop(id StopID, info StopInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stops[id] = info
	g.nameIdx[info.Name] = id
}

// AddEdge inserts a stored-direction arc from -> to with the given
// properties and returns the key assigned to it.
func (g *StochasticGraph) AddEdge(from, to StopID, props EdgeProps) EdgeKey {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextKey++
	key := EdgeKey(g.nextKey)
	g.out[from] = append(g.out[from], Edge{Key: key, To: to, Props: props})
	return key
}

// Stop returns the presentation attributes of a stop.
func (g *StochasticGraph) Stop(id StopID) (StopInfo, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	info, ok := g.stops[id]
	return info, ok
}

// StopIDByName resolves a display name to a stop, per the §6 consumed
// name_to_id interface.
func (g *StochasticGraph) StopIDByName(name string) (StopID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.nameIdx[name]
	return id, ok
}

// OutEdges returns a snapshot of the stored-direction out-edges of a stop
// (predecessors in real-world travel order). The slice is owned by the
// caller: it is a copy, safe to range over without holding the lock.
func (g *StochasticGraph) OutEdges(u StopID) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	edges := g.out[u]
	cp := make([]Edge, len(edges))
	copy(cp, edges)
	return cp
}

// RemoveEdge deletes one specific parallel edge (u -> v, key) from the
// graph. It is a no-op if the edge is not found.
func (g *StochasticGraph) RemoveEdge(u StopID, key EdgeKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	edges := g.out[u]
	for i, e := range edges {
		if e.Key == key {
			g.out[u] = append(edges[:i], edges[i+1:]...)
			return
		}
	}
}

// FindParallelEdge locates the edge key from u to v whose properties match
// the edge identity policy: exact (dep, arr, trip) for scheduled edges (the
// mode is not compared), or any Foot edge for walking connections (there is
// only ever one representative foot edge per stop pair).
func (g *StochasticGraph) FindParallelEdge(u, v StopID, props EdgeProps) (EdgeKey, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, e := range g.out[u] {
		if e.To != v {
			continue
		}
		if props.TType == ModeFoot && e.Props.TType == ModeFoot {
			return e.Key, true
		}
		if e.Props.DepTime == props.DepTime && e.Props.ArrTime == props.ArrTime && e.Props.TripID == props.TripID {
			return e.Key, true
		}
	}
	return 0, false
}

// Clone performs a deep copy of the graph so a caller (the robust planner)
// may remove edges from its private copy without affecting other holders.
func (g *StochasticGraph) Clone() *StochasticGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := &StochasticGraph{
		stops:   make(map[StopID]StopInfo, len(g.stops)),
		out:     make(map[StopID][]Edge, len(g.out)),
		nameIdx: make(map[string]StopID, len(g.nameIdx)),
		nextKey: g.nextKey,
	}
	for k, v := range g.stops {
		clone.stops[k] = v
	}
	for k, v := range g.nameIdx {
		clone.nameIdx[k] = v
	}
	for stop, edges := range g.out {
		cp := make([]Edge, len(edges))
		copy(cp, edges)
		clone.out[stop] = cp
	}
	return clone
}

// StopCount reports how many stops are registered, mostly for diagnostics.
func (g *StochasticGraph) StopCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.stops)
}

var (
	globalStochasticGraph     *StochasticGraph
	globalStochasticGraphOnce sync.Once
	globalStochasticGraphMu   sync.RWMutex
)

// GetStochasticGraph returns the process-wide stochastic graph singleton,
// lazily creating an empty one. Population (from timetable ingestion, out
// of this core's scope) happens via SetStochasticGraph.
func GetStochasticGraph() *StochasticGraph {
	globalStochasticGraphOnce.Do(func() {
		globalStochasticGraphMu.Lock()
		globalStochasticGraph = NewStochasticGraph()
		globalStochasticGraphMu.Unlock()
	})
	globalStochasticGraphMu.RLock()
	defer globalStochasticGraphMu.RUnlock()
	return globalStochasticGraph
}

// SetStochasticGraph replaces the singleton, e.g. after a fresh ingestion
// run has built a new graph. Existing holders of the previous pointer are
// unaffected, matching the read-only-during-search contract elsewhere in
// this package.
func SetStochasticGraph(g *StochasticGraph) {
	globalStochasticGraphOnce.Do(func() {})
	globalStochasticGraphMu.Lock()
	defer globalStochasticGraphMu.Unlock()
	globalStochasticGraph = g
}
