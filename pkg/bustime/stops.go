package bustime

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/rs/zerolog/log"
)

// StopReference is the raw upstream stop record. It is a superset of the
// exported BusStop model and only lives as an intermediate lookup value
// during reconciliation.
type StopReference struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Direction string  `json:"direction"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`

	Routes []struct {
		ID string `json:"id"`
	} `json:"routes"`
}

// StopGroup is one direction's grouping of stop IDs along a route.
type StopGroup struct {
	ID      FlexibleString `json:"id"`
	Name    GroupName      `json:"name"`
	StopIDs []string       `json:"stopIds"`
}

type StopGrouping struct {
	Type       string      `json:"type"`
	Ordered    bool        `json:"ordered"`
	StopGroups []StopGroup `json:"stopGroups"`
}

// StopsForRouteResponse carries the direction groupings plus whatever
// expanded stop records the upstream decided to include this time.
type StopsForRouteResponse struct {
	StopGroupings []StopGrouping
	References    map[string]StopReference
}

type stopsForRouteEnvelope struct {
	Data struct {
		Entry struct {
			StopGroupings []StopGrouping `json:"stopGroupings"`
		} `json:"entry"`
		References struct {
			Stops []StopReference `json:"stops"`
		} `json:"references"`

		// Older responses place the groupings at the top of data
		StopGroupings []StopGrouping `json:"stopGroupings"`
	} `json:"data"`
}

// StopsForRoute fetches the direction-grouped stop IDs for a line, along
// with the reference table of stop details when the upstream provides one.
func (c *Client) StopsForRoute(ctx context.Context, lineID string) (*StopsForRouteResponse, error) {
	params := url.Values{}
	params.Set("includePolylines", "false")
	params.Set("version", "2")
	requestURL := c.whereURL("stops-for-route/"+url.PathEscape(lineID)+".json", params)

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope stopsForRouteEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, transit.WrapError(transit.CategoryUpstreamDataShape, "could not decode stops for route", err)
	}

	groupings := envelope.Data.Entry.StopGroupings
	if len(groupings) == 0 {
		groupings = envelope.Data.StopGroupings
	}

	references := map[string]StopReference{}
	for _, stop := range envelope.Data.References.Stops {
		references[stop.ID] = stop
	}

	log.Debug().
		Str("line", lineID).
		Int("groupings", len(groupings)).
		Int("references", len(references)).
		Msg("Retrieved stops for route")

	return &StopsForRouteResponse{
		StopGroupings: groupings,
		References:    references,
	}, nil
}

type stopEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// Stop looks up a single stop record. Results go through the cross-request
// cache when one is configured.
func (c *Client) Stop(ctx context.Context, stopID string) (*StopReference, error) {
	if c.StopCache != nil {
		if cached, found := c.StopCache.Get(ctx, stopID); found {
			return cached, nil
		}
	}

	requestURL := c.whereURL("stop/"+url.PathEscape(stopID)+".json", url.Values{})

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope stopEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, transit.WrapError(transit.CategoryUpstreamDataShape, "could not decode stop record", err)
	}

	// The record arrives either directly under data or wrapped in an entry
	var direct StopReference
	if err := json.Unmarshal(envelope.Data, &direct); err == nil && direct.ID != "" {
		c.cacheStop(ctx, stopID, &direct)
		return &direct, nil
	}

	var wrapped struct {
		Entry StopReference `json:"entry"`
	}
	if err := json.Unmarshal(envelope.Data, &wrapped); err == nil && wrapped.Entry.ID != "" {
		c.cacheStop(ctx, stopID, &wrapped.Entry)
		return &wrapped.Entry, nil
	}

	return nil, transit.NewError(transit.CategoryNotFound, "stop not found: "+stopID)
}

func (c *Client) cacheStop(ctx context.Context, stopID string, stop *StopReference) {
	if c.StopCache != nil {
		c.StopCache.Set(ctx, stopID, stop)
	}
}
