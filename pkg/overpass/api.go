// Package overpass is a minimal client for the Overpass API interpreter
// endpoint, the public query service for OpenStreetMap data.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

type Client struct {
	httpClient *http.Client
	userAgent  string
	endpoint   string
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "amenitymap/1.0",
		endpoint:   endpoint,
	}
}

// AroundQuery builds an Overpass QL query for nodes tagged key=value within
// radius metres of lat/lon.
func AroundQuery(key, value string, radius int, lat, lon float64) string {
	return fmt.Sprintf(`[out:json];node["%s"="%s"](around:%d,%s,%s);out;`,
		escapeQL(key),
		escapeQL(value),
		radius,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
	)
}

// Interpret sends query to the interpreter endpoint with a GET request and
// decodes the JSON response.
func (c *Client) Interpret(ctx context.Context, query string) (*Response, error) {
	params := url.Values{}
	params.Set("data", query)
	reqURL := fmt.Sprintf("%s?%s", c.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("overpass: decode response: %w", err)
	}
	if out.Remark != "" && len(out.Elements) == 0 {
		return nil, fmt.Errorf("overpass: %s", out.Remark)
	}
	return &out, nil
}

func escapeQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
