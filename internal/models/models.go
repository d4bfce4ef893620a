package models

import (
	"encoding/json"
	"time"
)

// UserRecord is the user object owned by the remote service. Only the
// email is interpreted locally; everything else is carried verbatim so
// the stored session round-trips whatever the service sent.
type UserRecord struct {
	Email string
	raw   json.RawMessage
}

func (u *UserRecord) UnmarshalJSON(data []byte) error {
	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	u.Email = probe.Email
	u.raw = append([]byte(nil), data...)
	return nil
}

func (u UserRecord) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return append([]byte(nil), u.raw...), nil
	}
	return json.Marshal(struct {
		Email string `json:"email"`
	}{Email: u.Email})
}

// AuthResult is a successful sign-in or sign-up: the user record plus
// the bearer token for subsequent authenticated calls.
type AuthResult struct {
	User        UserRecord
	AccessToken string
}

// Coordinates is a resolved latitude/longitude pair as reported back by
// the service. Form input is validated as strings before it gets here.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherReport is a current-weather lookup result, passed through from
// the service without conversion and never persisted locally.
type WeatherReport struct {
	TempC       float64     `json:"tempC"`
	Description string      `json:"description"`
	Humidity    int         `json:"humidity"`
	Coordinates Coordinates `json:"coordinates"`
	Source      string      `json:"source"`
	FetchedAt   time.Time   `json:"fetchedAt"`
}

// HistoryWeather is the weather summary embedded in a history entry.
type HistoryWeather struct {
	TempC       float64 `json:"tempC"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
}

// HistoryEntry is one past lookup. Entries are read-only and arrive
// newest-first from the service; the client never re-sorts them.
type HistoryEntry struct {
	Lat         float64        `json:"lat"`
	Lon         float64        `json:"lon"`
	RequestedAt time.Time      `json:"requestedAt"`
	Weather     HistoryWeather `json:"weather"`
}
