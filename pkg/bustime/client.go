package bustime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/buswatch/buswatch/pkg/transit"
)

const (
	defaultWhereBaseURL = "https://bustime.mta.info/api/where"
	defaultSiriBaseURL  = "https://bustime.mta.info/api/siri"

	// A slow individual fetch must not stall the whole request, a timed-out
	// stop is just treated as unresolved
	defaultFetchTimeout = 10 * time.Second
)

// Client talks to the MTA Bus Time API - the OneBusAway style "where"
// endpoints for static route/stop data and the SIRI endpoint for real-time
// stop monitoring. The API key is treated as an opaque credential and is
// only ever attached to outgoing query strings.
type Client struct {
	APIKey string

	WhereBaseURL string
	SiriBaseURL  string

	StopCache *StopCache

	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:       apiKey,
		WhereBaseURL: defaultWhereBaseURL,
		SiriBaseURL:  defaultSiriBaseURL,

		httpClient: &http.Client{
			Timeout: defaultFetchTimeout,
		},
	}
}

func (c *Client) get(ctx context.Context, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, transit.WrapError(transit.CategoryUpstreamUnavailable, "failed to build upstream request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transit.UpstreamUnavailable(0, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, transit.UpstreamUnavailable(resp.StatusCode, fmt.Errorf("unexpected upstream status %d", resp.StatusCode))
	}

	return resp, nil
}

func (c *Client) whereURL(path string, params url.Values) string {
	params.Set("key", c.APIKey)

	return fmt.Sprintf("%s/%s?%s", c.WhereBaseURL, path, params.Encode())
}
