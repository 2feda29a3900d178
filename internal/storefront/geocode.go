package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Location is a device position in decimal degrees.
type Location struct {
	Lat float64
	Lng float64
}

func (l Location) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// Locator reads the current device position.
type Locator interface {
	CurrentPosition(ctx context.Context) (Location, error)
}

// FixedLocator always reports the same position. The CLI uses it for
// coordinates passed on the command line.
type FixedLocator Location

func (f FixedLocator) CurrentPosition(ctx context.Context) (Location, error) {
	return Location(f), nil
}

// Geocoder turns coordinates into a postal address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, loc Location) (string, error)
}

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder uses the Google Maps geocoding API.
type GoogleGeocoder struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: googleGeocodeURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

// ReverseGeocode returns the formatted address of the first result. Anything
// but status OK with at least one result is a GeocodeError.
func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, loc Location) (string, error) {
	q := url.Values{}
	q.Set("latlng", loc.String())
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", &GeocodeError{Err: err}
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return "", &GeocodeError{Err: err}
	}
	defer resp.Body.Close()

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &GeocodeError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if body.Status != "OK" || len(body.Results) == 0 || body.Results[0].FormattedAddress == "" {
		return "", &GeocodeError{Status: body.Status}
	}
	return body.Results[0].FormattedAddress, nil
}

// MapURL returns an embeddable Google Maps link centred on loc when known,
// otherwise on the typed address. Both empty gives "".
func MapURL(loc *Location, address string) string {
	switch {
	case loc != nil && loc.Lat != 0 && loc.Lng != 0:
		return fmt.Sprintf("https://www.google.com/maps?q=%s&z=16&output=embed", loc)
	case address != "":
		escaped := strings.ReplaceAll(url.QueryEscape(address), "+", "%20")
		return fmt.Sprintf("https://www.google.com/maps?q=%s&z=16&output=embed", escaped)
	default:
		return ""
	}
}
