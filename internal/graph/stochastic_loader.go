package graph

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/passbi/passbi_core/internal/models"
)

// defaultGammaParams seeds a per-mode delay distribution so
// delay.ConnectionProbability exercises its Gamma path end-to-end instead of
// only ever hitting the "no distribution" fall-through. These are placeholder
// shape/scale pairs, not fitted from historical running-time data: fitting
// distributions from observed delays is out of scope for this core. A
// separate offline job can replace them with real per-route-per-hour fits via
// AddEdge on a freshly rebuilt graph.
var defaultGammaParams = map[TransportMode]GammaParams{
	ModeBus:   {Shape: 2.0, Loc: 0, Scale: 45.0},
	ModeTram:  {Shape: 2.0, Loc: 0, Scale: 30.0},
	ModeSBahn: {Shape: 2.5, Loc: 0, Scale: 20.0},
}

// walkingSpeed (m/s, the same value as delay.WalkingSpeed, which this package
// cannot import) and maxWalkDistance (m) govern foot-edge construction.
const (
	walkingSpeed    = 50.0 / 60.0
	maxWalkDistance = 500.0
)

// LoadStochasticFromDB builds a StochasticGraph from the stop_time/trip/route
// tables populated by the GTFS importer. Building the graph from tabular
// data is an external-collaborator concern; this loader is the concrete
// collaborator this deployment uses, kept separate from the search core
// itself (internal/stochastic).
//
// Ride edges whose mode has an entry in defaultGammaParams (Bus and Tram
// among the modes transitModeToTransportMode produces) are seeded with that
// placeholder Gamma distribution; ride edges of other modes (InterRegio,
// RegioExpress) and all foot edges carry no delay distribution.
func LoadStochasticFromDB(ctx context.Context, db *pgxpool.Pool) (*StochasticGraph, error) {
	g := NewStochasticGraph()

	log.Println("Loading stochastic graph from database...")

	if err := loadStochasticStops(ctx, db, g); err != nil {
		return nil, fmt.Errorf("failed to load stops: %w", err)
	}

	rideEdges, err := loadStochasticRideEdges(ctx, db, g)
	if err != nil {
		return nil, fmt.Errorf("failed to load ride edges: %w", err)
	}
	log.Printf("Loaded %d stochastic ride edges", rideEdges)

	footEdges, err := loadStochasticFootEdges(ctx, db, g)
	if err != nil {
		return nil, fmt.Errorf("failed to load foot edges: %w", err)
	}
	log.Printf("Loaded %d stochastic foot edges", footEdges)

	return g, nil
}

func loadStochasticStops(ctx context.Context, db *pgxpool.Pool, g *StochasticGraph) error {
	rows, err := db.Query(ctx, `SELECT id, name, lat, lon FROM stop`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var info StopInfo
		if err := rows.Scan(&id, &info.Name, &info.Lat, &info.Lon); err != nil {
			log.Printf("Warning: failed to scan stop: %v", err)
			continue
		}
		g.AddStop(StopID(id), info)
	}
	return rows.Err()
}

// loadStochasticRideEdges inserts one stored-direction (reversed) edge per
// consecutive stop_time pair on every trip: a real leg dep -> arr is stored
// as arr -> dep, per the core's reversed-graph convention.
func loadStochasticRideEdges(ctx context.Context, db *pgxpool.Pool, g *StochasticGraph) (int, error) {
	query := `
		SELECT
			s1.id AS dep_stop, s2.id AS arr_stop,
			st1.trip_id,
			st1.departure_seconds AS dep_time,
			st2.arrival_seconds AS arr_time,
			rt.mode
		FROM stop_time st1
		JOIN stop_time st2 ON st1.trip_id = st2.trip_id AND st1.agency_id = st2.agency_id
			AND st2.stop_sequence = st1.stop_sequence + 1
		JOIN trip t ON st1.trip_id = t.trip_id AND st1.agency_id = t.agency_id
		JOIN route rt ON rt.id = t.route_id
		JOIN stop s1 ON s1.id = st1.stop_id
		JOIN stop s2 ON s2.id = st2.stop_id
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var depStop, arrStop int64
		var tripID string
		var depTime, arrTime int
		var mode models.TransitMode

		if err := rows.Scan(&depStop, &arrStop, &tripID, &depTime, &arrTime, &mode); err != nil {
			log.Printf("Warning: failed to scan ride edge: %v", err)
			continue
		}
		if arrTime < depTime {
			continue
		}

		tType := transitModeToTransportMode(mode)
		var gamma *GammaParams
		if params, ok := defaultGammaParams[tType]; ok {
			p := params
			gamma = &p
		}

		g.AddEdge(StopID(arrStop), StopID(depStop), EdgeProps{
			TType:      tType,
			TripID:     TripID(stableTripKey(tripID)),
			DepTime:    depTime,
			ArrTime:    arrTime,
			TravelTime: arrTime - depTime,
			Gamma:      gamma,
		})
		count++
	}
	return count, rows.Err()
}

// loadStochasticFootEdges finds nearby stop pairs within maxWalkDistance and
// emits a single Foot edge per pair in the reversed direction, with dep/arr
// left zero; they are synthesised at search time by timedist.AppendEdge.
func loadStochasticFootEdges(ctx context.Context, db *pgxpool.Pool, g *StochasticGraph) (int, error) {
	query := `
		SELECT s1.id, s2.id,
			2 * 6371000 * asin(sqrt(
				sin(radians(s2.lat - s1.lat) / 2) ^ 2 +
				cos(radians(s1.lat)) * cos(radians(s2.lat)) *
				sin(radians(s2.lon - s1.lon) / 2) ^ 2
			)) AS distance_m
		FROM stop s1
		JOIN stop s2 ON s2.id != s1.id
		WHERE 2 * 6371000 * asin(sqrt(
				sin(radians(s2.lat - s1.lat) / 2) ^ 2 +
				cos(radians(s1.lat)) * cos(radians(s2.lat)) *
				sin(radians(s2.lon - s1.lon) / 2) ^ 2
			)) <= $1
	`

	rows, err := db.Query(ctx, query, maxWalkDistance)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var from, to int64
		var distanceM float64
		if err := rows.Scan(&from, &to, &distanceM); err != nil {
			log.Printf("Warning: failed to scan foot edge: %v", err)
			continue
		}

		travelTime := int(distanceM / walkingSpeed)
		g.AddEdge(StopID(to), StopID(from), EdgeProps{
			TType:      ModeFoot,
			TripID:     FootTripID,
			TravelTime: travelTime,
			Gamma:      nil,
		})
		count++
	}
	return count, rows.Err()
}

// transitModeToTransportMode maps the importer's TransitMode (the route.mode
// column) onto the closed transport-mode enumeration the stochastic core
// understands. Modes with no close analogue fall back to Bus.
func transitModeToTransportMode(mode models.TransitMode) TransportMode {
	switch mode {
	case models.ModeTram:
		return ModeTram
	case models.ModeTER:
		return ModeInterRegio
	case models.ModeFerry:
		return ModeRegioExpress
	case models.ModeBRT:
		return ModeBus
	case models.ModeBus:
		return ModeBus
	default:
		return ModeBus
	}
}

// stableTripKey folds a GTFS string trip_id into an int64 trip identity.
// Collisions are astronomically unlikely for a single agency's feed and,
// even if one occurred, would only over-merge two unrelated trips into one
// same-trip probability-1 transfer, a conservative failure mode.
func stableTripKey(tripID string) int64 {
	var h int64 = 1469598103934665603 // FNV offset basis
	for i := 0; i < len(tripID); i++ {
		h ^= int64(tripID[i])
		h *= 1099511628211 // FNV prime
	}
	if h < 0 {
		h = -h
	}
	return h
}
