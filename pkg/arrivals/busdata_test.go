package arrivals

import (
	"context"
	"errors"
	"testing"

	"github.com/buswatch/buswatch/pkg/bustime"
	"github.com/buswatch/buswatch/pkg/transit"
)

type fakeMonitoringSource struct {
	visitsByStop map[string][]bustime.MonitoredStopVisit
	failStops    map[string]bool
}

func (f *fakeMonitoringSource) StopMonitoring(ctx context.Context, stopID string, lineID string) ([]bustime.MonitoredStopVisit, error) {
	if f.failStops[stopID] {
		return nil, errors.New("upstream gone")
	}

	return f.visitsByStop[stopID], nil
}

func originStop() transit.BusStop {
	return transit.BusStop{ID: "MTA_303921", Name: "LAFAYETTE AV/BEDFORD AV"}
}

func destinationStop() transit.BusStop {
	return transit.BusStop{ID: "MTA_308209", Name: "GATES AV/BROADWAY"}
}

func TestBuildBusDataHappyPath(t *testing.T) {
	source := &fakeMonitoringSource{
		visitsByStop: map[string][]bustime.MonitoredStopVisit{
			"MTA_303921": {
				{MonitoredVehicleJourney: bustime.MonitoredVehicleJourney{
					VehicleRef: "MTA NYCT_4502",
					MonitoredCall: bustime.MonitoredCall{
						ExpectedArrivalTime: "2026-08-29T10:00:00-04:00",
					},
				}},
			},
		},
	}

	busData := NewMatcher().BuildBusData(context.Background(), source, "MTA NYCT_B52", originStop(), destinationStop())

	if busData.HasError {
		t.Fatalf("unexpected error result: %s", busData.ErrorMessage)
	}
	if busData.OriginName != "LAFAYETTE AV/BEDFORD AV" || busData.DestinationName != "GATES AV/BROADWAY" {
		t.Errorf("stop names not carried through: %+v", busData)
	}
	if len(busData.Buses) != 1 {
		t.Fatalf("expected 1 bus, got %d", len(busData.Buses))
	}
}

func TestBuildBusDataOriginFeedFailure(t *testing.T) {
	source := &fakeMonitoringSource{
		failStops: map[string]bool{"MTA_303921": true},
	}

	busData := NewMatcher().BuildBusData(context.Background(), source, "MTA NYCT_B52", originStop(), destinationStop())

	if !busData.HasError {
		t.Fatal("expected an error result when the origin feed fails")
	}
	if busData.ErrorMessage == "" {
		t.Error("error result should carry a message")
	}
}

func TestBuildBusDataDestinationFeedFailureIsNotFatal(t *testing.T) {
	source := &fakeMonitoringSource{
		visitsByStop: map[string][]bustime.MonitoredStopVisit{
			"MTA_303921": {
				{MonitoredVehicleJourney: bustime.MonitoredVehicleJourney{
					VehicleRef: "MTA NYCT_4502",
					MonitoredCall: bustime.MonitoredCall{
						ExpectedArrivalTime: "2026-08-29T10:00:00-04:00",
					},
				}},
			},
		},
		failStops: map[string]bool{"MTA_308209": true},
	}

	busData := NewMatcher().BuildBusData(context.Background(), source, "MTA NYCT_B52", originStop(), destinationStop())

	if busData.HasError {
		t.Fatalf("destination feed failure should degrade, not fail: %s", busData.ErrorMessage)
	}
	if len(busData.Buses) != 1 {
		t.Fatalf("expected 1 bus, got %d", len(busData.Buses))
	}
	if !busData.Buses[0].IsEstimated {
		t.Error("without the destination feed the arrival should fall back to the estimate")
	}
}
