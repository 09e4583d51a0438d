package arrivals

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/buswatch/buswatch/pkg/bustime"
	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/rs/zerolog/log"
)

// DefaultTripDuration stands in for an origin/destination travel-time
// lookup that does not exist yet. Arrivals derived from it are explicitly
// marked estimated so consumers can tell them apart from observed times.
const DefaultTripDuration = 15 * time.Minute

var leadingIntegerRegex = regexp.MustCompile(`^(\d+)`)

// Matcher pairs the vehicles approaching an origin stop with their arrival
// at a destination stop further down the route.
type Matcher struct {
	TripDuration time.Duration
}

func NewMatcher() Matcher {
	return Matcher{TripDuration: DefaultTripDuration}
}

// Match produces one VehicleArrival per usable origin visit, preserving
// upstream order. Visits with an active progress status (out of service,
// laying over) are excluded entirely; every other per-field parse failure
// just yields an absent value for that field.
//
// The destination arrival is resolved in order of confidence: a visit for
// the same vehicle in the destination stop's own monitoring feed, then an
// onward call naming the destination stop, then the origin time plus the
// fixed trip duration (marked estimated). destinationVisits may be nil.
func (m Matcher) Match(originVisits []bustime.MonitoredStopVisit, destinationVisits []bustime.MonitoredStopVisit, destinationStopID string) []transit.VehicleArrival {
	var arrivals []transit.VehicleArrival

	destinationByVehicle := map[string]bustime.MonitoredStopVisit{}
	for _, visit := range destinationVisits {
		vehicleRef := visit.MonitoredVehicleJourney.VehicleRef
		if vehicleRef == "" {
			continue
		}
		if _, present := destinationByVehicle[vehicleRef]; !present {
			destinationByVehicle[vehicleRef] = visit
		}
	}

	for _, visit := range originVisits {
		journey := visit.MonitoredVehicleJourney

		if journey.ProgressStatus.String() != "" {
			log.Debug().
				Str("vehicle", journey.VehicleRef).
				Str("status", journey.ProgressStatus.String()).
				Msg("Skipping vehicle with progress status")
			continue
		}

		originArrival := parseArrivalTime(journey.MonitoredCall.ExpectedArrivalTime, journey.MonitoredCall.AimedArrivalTime)
		stopsAway := resolveStopsAway(journey.MonitoredCall)

		arrival := transit.VehicleArrival{
			VehicleID:     journey.VehicleRef,
			OriginArrival: originArrival,
			StopsAway:     stopsAway,
			Proximity:     proximityLabel(stopsAway),
			Destination:   journey.DestinationName.String(),
		}

		observed := pairedVisitTime(destinationByVehicle, journey.VehicleRef)
		if observed == nil {
			observed = destinationCallTime(journey.OnwardCalls.OnwardCall, destinationStopID)
		}

		if observed != nil {
			arrival.DestinationArrival = observed
			arrival.IsEstimated = false
		} else if originArrival != nil {
			estimated := originArrival.Add(m.TripDuration)
			arrival.DestinationArrival = &estimated
			arrival.IsEstimated = true
		}

		arrivals = append(arrivals, arrival)
	}

	return arrivals
}

// parseArrivalTime tries the expected time then the aimed time. An
// unparseable timestamp yields nil rather than an error - downstream
// consumers defend against the absent value.
func parseArrivalTime(expected string, aimed string) *time.Time {
	for _, value := range []string{expected, aimed} {
		if value == "" {
			continue
		}

		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			log.Debug().Str("timestamp", value).Msg("Unparseable arrival time")
			continue
		}

		return &parsed
	}

	return nil
}

// resolveStopsAway tries the direct count, then the SIRI distances
// extension, then the human-readable distance string. Zero when nothing
// usable is present.
func resolveStopsAway(call bustime.MonitoredCall) int {
	if call.NumberOfStopsAway != nil {
		return *call.NumberOfStopsAway
	}

	if call.Extensions.Distances.StopsFromCall != nil {
		return *call.Extensions.Distances.StopsFromCall
	}

	presentable := call.Extensions.Distances.PresentableDistance
	if strings.Contains(strings.ToLower(presentable), "at stop") {
		return 0
	}
	if match := leadingIntegerRegex.FindString(presentable); match != "" {
		if count, err := strconv.Atoi(match); err == nil {
			return count
		}
	}

	return 0
}

func pairedVisitTime(destinationByVehicle map[string]bustime.MonitoredStopVisit, vehicleRef string) *time.Time {
	visit, present := destinationByVehicle[vehicleRef]
	if !present {
		return nil
	}

	call := visit.MonitoredVehicleJourney.MonitoredCall

	return parseArrivalTime(call.ExpectedArrivalTime, call.AimedArrivalTime)
}

func destinationCallTime(calls []bustime.OnwardCall, destinationStopID string) *time.Time {
	for _, call := range calls {
		if call.StopPointRef != destinationStopID {
			continue
		}

		return parseArrivalTime(call.ExpectedArrivalTime, call.AimedArrivalTime)
	}

	return nil
}

func proximityLabel(stopsAway int) string {
	switch {
	case stopsAway == 0:
		return "at stop"
	case stopsAway == 1:
		return "1 stop away"
	default:
		return fmt.Sprintf("%d stops away", stopsAway)
	}
}
