package bustime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buswatch/buswatch/pkg/transit"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key")
	client.WhereBaseURL = server.URL
	client.SiriBaseURL = server.URL

	return client
}

func TestStopsForRouteDecodesEntryAndReferences(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("api key missing from request: %s", r.URL.String())
		}

		w.Write([]byte(`{
			"data": {
				"entry": {
					"stopGroupings": [{
						"type": "direction",
						"ordered": true,
						"stopGroups": [{
							"id": {"id": "0"},
							"name": {"names": ["DOWNTOWN BROOKLYN"]},
							"stopIds": ["MTA_100", "MTA_101"]
						}]
					}]
				},
				"references": {
					"stops": [
						{"id": "MTA_100", "name": "GATES AV/BROADWAY", "code": "100", "lat": 40.6899, "lon": -73.9190}
					]
				}
			}
		}`))
	})

	response, err := client.StopsForRoute(context.Background(), "MTA NYCT_B52")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(response.StopGroupings) != 1 {
		t.Fatalf("expected 1 grouping, got %d", len(response.StopGroupings))
	}

	group := response.StopGroupings[0].StopGroups[0]
	if group.ID.String() != "0" {
		t.Errorf("object-shaped group ID not resolved: %q", group.ID.String())
	}
	if group.Name.Resolve() != "DOWNTOWN BROOKLYN" {
		t.Errorf("names-list group name not resolved: %q", group.Name.Resolve())
	}

	if reference, found := response.References["MTA_100"]; !found || reference.Name != "GATES AV/BROADWAY" {
		t.Errorf("reference table not built: %+v", response.References)
	}
}

func TestStopDecodesBothEnvelopes(t *testing.T) {
	direct := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": "MTA_100", "name": "GATES AV/BROADWAY"}}`))
	})

	stop, err := direct.Stop(context.Background(), "MTA_100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stop.Name != "GATES AV/BROADWAY" {
		t.Errorf("direct envelope not decoded: %+v", stop)
	}

	wrapped := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"entry": {"id": "MTA_100", "name": "GATES AV/BROADWAY"}}}`))
	})

	stop, err = wrapped.Stop(context.Background(), "MTA_100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stop.Name != "GATES AV/BROADWAY" {
		t.Errorf("entry envelope not decoded: %+v", stop)
	}
}

func TestStopNotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	})

	_, err := client.Stop(context.Background(), "MTA_MISSING")
	if err == nil {
		t.Fatal("expected an error for an empty stop record")
	}

	if transit.CategoryOf(err) != transit.CategoryNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpstreamStatusBecomesUnavailable(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.RoutesForAgency(context.Background(), "MTA NYCT")
	if err == nil {
		t.Fatal("expected an error")
	}

	var transitError *transit.Error
	if !errors.As(err, &transitError) {
		t.Fatalf("expected a transit error, got %T", err)
	}
	if transitError.Category != transit.CategoryUpstreamUnavailable {
		t.Errorf("expected UPSTREAM_UNAVAILABLE, got %s", transitError.Category)
	}
	if transitError.UpstreamStatus != http.StatusServiceUnavailable {
		t.Errorf("expected upstream status 503, got %d", transitError.UpstreamStatus)
	}
}

func TestStopMonitoringEmptyDelivery(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Siri": {"ServiceDelivery": {"StopMonitoringDelivery": []}}}`))
	})

	visits, err := client.StopMonitoring(context.Background(), "MTA_100", "MTA NYCT_B52")
	if err != nil {
		t.Fatalf("empty delivery should not be an error: %v", err)
	}
	if visits != nil {
		t.Errorf("expected no visits, got %v", visits)
	}
}

func TestStopMonitoringDecodesVisits(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("MonitoringRef") != "MTA_100" || query.Get("LineRef") != "MTA NYCT_B52" {
			t.Errorf("monitoring query parameters wrong: %s", r.URL.String())
		}

		w.Write([]byte(`{
			"Siri": {"ServiceDelivery": {"StopMonitoringDelivery": [{
				"MonitoredStopVisit": [{
					"MonitoredVehicleJourney": {
						"VehicleRef": "MTA NYCT_4502",
						"DestinationName": "DOWNTOWN BKLYN",
						"MonitoredCall": {
							"ExpectedArrivalTime": "2026-08-29T10:00:00-04:00",
							"Extensions": {"Distances": {"StopsFromCall": 2, "PresentableDistance": "2 stops away"}}
						}
					}
				}]
			}]}}
		}`))
	})

	visits, err := client.StopMonitoring(context.Background(), "MTA_100", "MTA NYCT_B52")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(visits) != 1 {
		t.Fatalf("expected 1 visit, got %d", len(visits))
	}

	journey := visits[0].MonitoredVehicleJourney
	if journey.VehicleRef != "MTA NYCT_4502" {
		t.Errorf("vehicle ref not decoded: %q", journey.VehicleRef)
	}
	if journey.MonitoredCall.Extensions.Distances.StopsFromCall == nil || *journey.MonitoredCall.Extensions.Distances.StopsFromCall != 2 {
		t.Errorf("distances extension not decoded: %+v", journey.MonitoredCall)
	}
}
