package transit

import "time"

// BusLine is a single static route record from the upstream agency.
// ID is the agency-qualified identifier, e.g. "MTA NYCT_B52".
type BusLine struct {
	ID          string `json:"id"`
	ShortName   string `json:"shortName"`
	LongName    string `json:"longName"`
	Description string `json:"description"`
	AgencyID    string `json:"agencyId"`
}

// Direction is one travel direction of a line. Name is the authoritative
// matching key - upstream direction IDs are sometimes synthetic placeholders.
type Direction struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BusStop struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Direction string  `json:"direction"`
	Sequence  int     `json:"sequence"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// VehicleArrival is one tracked vehicle approaching the origin stop, with an
// observed or estimated arrival at the destination stop.
//
// IsEstimated reports whether DestinationArrival was computed from the origin
// time plus a fixed trip duration rather than observed in upstream data.
type VehicleArrival struct {
	VehicleID          string     `json:"vehicleId"`
	OriginArrival      *time.Time `json:"originArrival"`
	StopsAway          int        `json:"stopsAway"`
	Proximity          string     `json:"proximity"`
	DestinationArrival *time.Time `json:"destinationArrival,omitempty"`
	Destination        string     `json:"destination"`
	IsEstimated        bool       `json:"isEstimated"`
}

// BusData is the per-request aggregate for an origin/destination pair.
type BusData struct {
	OriginName      string           `json:"originName"`
	DestinationName string           `json:"destinationName"`
	Buses           []VehicleArrival `json:"buses"`
	HasError        bool             `json:"hasError"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
}
