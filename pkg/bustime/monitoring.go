package bustime

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/rs/zerolog/log"
)

// SIRI stop-monitoring shapes, reduced to the fields we consume.

type OnwardCall struct {
	StopPointRef        string `json:"StopPointRef"`
	ExpectedArrivalTime string `json:"ExpectedArrivalTime"`
	AimedArrivalTime    string `json:"AimedArrivalTime"`
}

type Distances struct {
	StopsFromCall       *int   `json:"StopsFromCall"`
	PresentableDistance string `json:"PresentableDistance"`
}

type MonitoredCall struct {
	ExpectedArrivalTime string `json:"ExpectedArrivalTime"`
	AimedArrivalTime    string `json:"AimedArrivalTime"`
	NumberOfStopsAway   *int   `json:"NumberOfStopsAway"`

	Extensions struct {
		Distances Distances `json:"Distances"`
	} `json:"Extensions"`
}

type MonitoredVehicleJourney struct {
	VehicleRef      string         `json:"VehicleRef"`
	DestinationName FlexibleString `json:"DestinationName"`

	// Present when the vehicle is not usefully tracked (layover, deadhead)
	ProgressStatus FlexibleString `json:"ProgressStatus"`

	MonitoredCall MonitoredCall `json:"MonitoredCall"`

	OnwardCalls OnwardCallList `json:"OnwardCalls"`
}

type OnwardCallList struct {
	OnwardCall []OnwardCall `json:"OnwardCall"`
}

type MonitoredStopVisit struct {
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
	RecordedAtTime          string                  `json:"RecordedAtTime"`
}

type siriEnvelope struct {
	Siri struct {
		ServiceDelivery struct {
			StopMonitoringDelivery []struct {
				MonitoredStopVisit []MonitoredStopVisit `json:"MonitoredStopVisit"`
			} `json:"StopMonitoringDelivery"`
		} `json:"ServiceDelivery"`
	} `json:"Siri"`
}

// StopMonitoring returns the real-time vehicle visits currently approaching
// a stop, optionally restricted to one line.
func (c *Client) StopMonitoring(ctx context.Context, stopID string, lineID string) ([]MonitoredStopVisit, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("version", "2")
	params.Set("OperatorRef", "MTA")
	params.Set("MonitoringRef", stopID)
	if lineID != "" {
		params.Set("LineRef", lineID)
	}

	requestURL := c.SiriBaseURL + "/stop-monitoring.json?" + params.Encode()

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope siriEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, transit.WrapError(transit.CategoryUpstreamDataShape, "could not decode stop monitoring delivery", err)
	}

	deliveries := envelope.Siri.ServiceDelivery.StopMonitoringDelivery
	if len(deliveries) == 0 {
		log.Warn().Str("stop", stopID).Msg("Stop monitoring response contained no deliveries")
		return nil, nil
	}

	return deliveries[0].MonitoredStopVisit, nil
}
