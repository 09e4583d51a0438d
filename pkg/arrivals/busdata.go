package arrivals

import (
	"context"

	"github.com/buswatch/buswatch/pkg/bustime"
	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// MonitoringSource provides the real-time visits approaching a stop.
// *bustime.Client satisfies it.
type MonitoringSource interface {
	StopMonitoring(ctx context.Context, stopID string, lineID string) ([]bustime.MonitoredStopVisit, error)
}

// BuildBusData runs the two stop-monitoring queries for an origin and
// destination stop in parallel and matches the results into the aggregate
// arrival board. The origin feed is the one that matters: losing the
// destination feed just degrades destination times to onward-call or
// estimated values, while losing the origin feed yields an error result.
func (m Matcher) BuildBusData(ctx context.Context, source MonitoringSource, lineID string, origin transit.BusStop, destination transit.BusStop) *transit.BusData {
	var originVisits, destinationVisits []bustime.MonitoredStopVisit
	var originErr, destinationErr error

	var waitGroup conc.WaitGroup
	waitGroup.Go(func() {
		originVisits, originErr = source.StopMonitoring(ctx, origin.ID, lineID)
	})
	waitGroup.Go(func() {
		destinationVisits, destinationErr = source.StopMonitoring(ctx, destination.ID, lineID)
	})
	waitGroup.Wait()

	busData := &transit.BusData{
		OriginName:      origin.Name,
		DestinationName: destination.Name,
	}

	if destinationErr != nil {
		log.Warn().Err(destinationErr).Str("stop", destination.ID).Msg("Destination monitoring query failed, continuing with origin feed only")
		destinationVisits = nil
	}

	if originErr != nil {
		log.Error().Err(originErr).Str("stop", origin.ID).Msg("Origin monitoring query failed")

		busData.HasError = true
		busData.ErrorMessage = "real-time data is currently unavailable for this stop"

		return busData
	}

	busData.Buses = m.Match(originVisits, destinationVisits, destination.ID)

	return busData
}
