package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weather-console/internal/models"
)

// Current fetches the weather for a coordinate pair. The lat/lon
// strings are forwarded exactly as given; range validation happened at
// the form layer and the result is passed through without conversion.
// A rejected token returns ErrUnauthorized.
func (c *Client) Current(ctx context.Context, token, lat, lon string) (*models.WeatherReport, error) {
	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)

	req, err := c.newGetRequest(ctx, "/weather", token, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, "weather")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrNetwork, err)
	}

	var report models.WeatherReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrNetwork, err)
	}
	return &report, nil
}

// checkStatus maps a non-2xx response to the error taxonomy: 401 is
// ErrUnauthorized, anything else becomes a ServiceError carrying the
// service's message when the body has one.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	// Surface the service's message when the body carries one; an
	// empty Message lets the caller substitute its generic fallback.
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &ServiceError{Message: body.Message}
}
