package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"weather-console/internal/models"
)

// History fetches one page of past lookups for the token's user,
// ordered newest-first by the service (sort is pinned to
// -requestedAt). The returned slice is exactly what the service sent;
// pagination state lives with the caller.
func (c *Client) History(ctx context.Context, token string, skip, limit int) ([]models.HistoryEntry, error) {
	if skip < 0 {
		return nil, fmt.Errorf("history: skip must be >= 0, got %d", skip)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("history: limit must be > 0, got %d", limit)
	}

	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "-requestedAt")

	req, err := c.newGetRequest(ctx, "/history", token, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, "history")
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

	var entries []models.HistoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrNetwork, err)
	}
	return entries, nil
}
