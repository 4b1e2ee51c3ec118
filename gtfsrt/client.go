package gtfsrt

import (
	"context"

	"github.com/theoremus-urban-solutions/trixhub/fetch"
)

// Client fetches one TripUpdates feed. Realtime is a best-effort overlay so callers usually
// build the underlying fetch.Client with MaxRetries 0.
type Client struct {
	url     string
	fetcher *fetch.Client
}

func NewClient(url string, fetcher *fetch.Client) *Client {
	return &Client{url: url, fetcher: fetcher}
}

func (c *Client) URL() string { return c.url }

// Fetch returns raw protobuf bytes. Returns nil if the url is empty (optional feed).
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, nil
	}
	return c.fetcher.Get(ctx, c.url)
}

// StopArrivals fetches the feed and decodes the arrivals for stopID.
func (c *Client) StopArrivals(ctx context.Context, stopID string) ([]StopArrival, error) {
	data, err := c.Fetch(ctx)
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeStopArrivals(data, stopID)
}
