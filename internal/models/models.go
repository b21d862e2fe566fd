package models

import "time"

// TransitMode represents the type of transit service
type TransitMode string

const (
	ModeBus   TransitMode = "BUS"
	ModeBRT   TransitMode = "BRT"
	ModeTER   TransitMode = "TER"
	ModeFerry TransitMode = "FERRY"
	ModeTram  TransitMode = "TRAM"
)

// GTFS data structures for import

// GTFSAgency represents an agency from agency.txt
type GTFSAgency struct {
	AgencyID   string
	AgencyName string
	AgencyURL  string
	Timezone   string
}

// GTFSStop represents a stop from stops.txt
type GTFSStop struct {
	StopID   string
	StopName string
	Lat      float64
	Lon      float64
}

// GTFSRoute represents a route from routes.txt
type GTFSRoute struct {
	RouteID    string
	AgencyID   string
	ShortName  string
	LongName   string
	RouteType  int
	RouteColor string
}

// GTFSTrip represents a trip from trips.txt
type GTFSTrip struct {
	RouteID   string
	ServiceID string
	TripID    string
	Headsign  string
	Direction int
}

// GTFSStopTime represents a stop time from stop_times.txt
type GTFSStopTime struct {
	TripID       string
	ArrivalTime  string
	DepartureTime string
	StopID       string
	StopSequence int
}

// ImportLog represents a GTFS import operation log
type ImportLog struct {
	ID          int64
	AgencyID    string
	StartedAt   time.Time
	CompletedAt *time.Time
	Status      string
	StopsCount  int
	RoutesCount int
	ErrorMsg    string
}
