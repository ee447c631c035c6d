package location

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"amenitymap/internal/models"
)

type rewriteRoundTripper struct{ base *url.URL }

func (r rewriteRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone the request to avoid mutating the original
	c := req.Clone(req.Context())
	c.URL.Scheme = r.base.Scheme
	c.URL.Host = r.base.Host
	c.Host = r.base.Host
	return http.DefaultTransport.RoundTrip(c)
}

func newTestClient(serverURL string) *Client {
	u, _ := url.Parse(serverURL)
	return &Client{
		httpClient: &http.Client{Transport: rewriteRoundTripper{base: u}, Timeout: time.Second},
		userAgent:  "test-agent",
		baseURL:    nominatimURL,
	}
}

func TestClient_Reverse(t *testing.T) {
	tests := []struct {
		name    string
		resp    NominatimReverseResponse
		status  int
		want    string
		wantErr bool
	}{
		{
			name:   "suburb city country",
			resp:   NominatimReverseResponse{Address: NominatimAddress{Suburb: "Rohini", City: "Delhi", Country: "India"}},
			status: http.StatusOK,
			want:   "Rohini, Delhi, India",
		},
		{
			name:   "town fallback without suburb",
			resp:   NominatimReverseResponse{Address: NominatimAddress{Town: "Sonipat", Country: "India"}},
			status: http.StatusOK,
			want:   "Sonipat, India",
		},
		{
			name:   "display name fallback",
			resp:   NominatimReverseResponse{DisplayName: " Indian Ocean "},
			status: http.StatusOK,
			want:   "Indian Ocean",
		},
		{
			name:    "api error payload",
			resp:    NominatimReverseResponse{Error: "Unable to geocode"},
			status:  http.StatusOK,
			wantErr: true,
		},
		{
			name:    "upstream failure",
			status:  http.StatusServiceUnavailable,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotQuery url.Values
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.resp)
			}))
			defer server.Close()

			got, err := newTestClient(server.URL).Reverse(context.Background(), models.Coordinates{Lat: 28.7, Lon: 77.1})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
			if gotPath != "/reverse" || gotQuery.Get("lat") != "28.7" || gotQuery.Get("lon") != "77.1" {
				t.Errorf("request %s %v", gotPath, gotQuery)
			}
		})
	}
}
