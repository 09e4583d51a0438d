package bustime

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/rs/zerolog/log"
)

type routesForAgencyResponse struct {
	Data struct {
		List []struct {
			ID          string `json:"id"`
			ShortName   string `json:"shortName"`
			LongName    string `json:"longName"`
			Description string `json:"description"`
			AgencyID    string `json:"agencyId"`
		} `json:"list"`
	} `json:"data"`
}

// RoutesForAgency returns every bus line operated by an agency.
func (c *Client) RoutesForAgency(ctx context.Context, agencyID string) ([]transit.BusLine, error) {
	requestURL := c.whereURL("routes-for-agency/"+url.PathEscape(agencyID)+".json", url.Values{})

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded routesForAgencyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, transit.WrapError(transit.CategoryUpstreamDataShape, "could not decode routes for agency", err)
	}

	var lines []transit.BusLine
	for _, route := range decoded.Data.List {
		lines = append(lines, transit.BusLine{
			ID:          route.ID,
			ShortName:   route.ShortName,
			LongName:    route.LongName,
			Description: route.Description,
			AgencyID:    route.AgencyID,
		})
	}

	log.Debug().Str("agency", agencyID).Int("lines", len(lines)).Msg("Retrieved agency bus lines")

	return lines, nil
}
