// Package location resolves coordinates into a short place label using the
// OpenStreetMap Nominatim reverse geocoding API.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"amenitymap/internal/models"
)

const nominatimURL = "https://nominatim.openstreetmap.org/reverse"

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		userAgent:  "amenitymap/1.0",
		baseURL:    nominatimURL,
	}
}

// Reverse returns a label such as "Rohini, Delhi, India" for c.
func (c *Client) Reverse(ctx context.Context, coords models.Coordinates) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("zoom", "14")
	params.Set("accept-language", "en")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result NominatimReverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", errors.New(result.Error)
	}
	return Label(result), nil
}

// Label builds a short label from the most specific locality, the city and
// the country, falling back to the full display name.
func Label(r NominatimReverseResponse) string {
	a := r.Address
	city := a.City
	if city == "" {
		city = a.Town
	}
	if city == "" {
		city = a.Village
	}
	local := a.Suburb
	if local == "" {
		local = a.CityDistrict
	}

	var parts []string
	for _, p := range []string{local, city, a.Country} {
		if p != "" && (len(parts) == 0 || parts[len(parts)-1] != p) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(r.DisplayName)
	}
	return strings.Join(parts, ", ")
}
