package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Current_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/weather" {
			t.Errorf("path = %s, want /weather", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("lat") != "40.71" || q.Get("lon") != "-74.01" {
			t.Errorf("query = %v, want lat=40.71 lon=-74.01", q)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-abc" {
			t.Errorf("Authorization = %q, want Bearer tok-abc", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tempC": 21.5,
			"description": "scattered clouds",
			"humidity": 63,
			"coordinates": {"lat": 40.71, "lon": -74.01},
			"source": "live",
			"fetchedAt": "2026-08-30T12:00:00Z"
		}`))
	}))
	defer server.Close()

	client, err := New(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	report, err := client.Current(context.Background(), "tok-abc", "40.71", "-74.01")
	if err != nil {
		t.Fatalf("Current() err = %v", err)
	}
	if report.TempC != 21.5 {
		t.Errorf("tempC = %v, want 21.5", report.TempC)
	}
	if report.Description != "scattered clouds" {
		t.Errorf("description = %q", report.Description)
	}
	if report.Humidity != 63 {
		t.Errorf("humidity = %d", report.Humidity)
	}
	if report.Coordinates.Lat != 40.71 || report.Coordinates.Lon != -74.01 {
		t.Errorf("coordinates = %+v", report.Coordinates)
	}
}

func TestClient_Current_CoordinatesForwardedVerbatim(t *testing.T) {
	var gotLat, gotLon string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLat = r.URL.Query().Get("lat")
		gotLon = r.URL.Query().Get("lon")
		_, _ = w.Write([]byte(`{"description": "clear sky"}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, 2*time.Second)
	if _, err := client.Current(context.Background(), "tok", "0.00", "-180.00"); err != nil {
		t.Fatalf("Current() err = %v", err)
	}
	if gotLat != "0.00" || gotLon != "-180.00" {
		t.Errorf("forwarded lat=%q lon=%q, want the normalized strings untouched", gotLat, gotLon)
	}
}

func TestClient_Current_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "jwt expired"}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, 2*time.Second)
	_, err := client.Current(context.Background(), "stale", "10.00", "10.00")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Current() err = %v, want ErrUnauthorized", err)
	}
}

func TestClient_Current_ServiceErrorWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message": "upstream provider unavailable"}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, 2*time.Second)
	_, err := client.Current(context.Background(), "tok", "10.00", "10.00")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Current() err = %v, want *ServiceError", err)
	}
	if svcErr.Message != "upstream provider unavailable" {
		t.Errorf("message = %q", svcErr.Message)
	}
}

func TestClient_Current_ServiceErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := New(server.URL, 2*time.Second)
	_, err := client.Current(context.Background(), "tok", "10.00", "10.00")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Current() err = %v, want *ServiceError", err)
	}
	if svcErr.Message != "" {
		t.Errorf("message = %q, want empty for the caller's fallback", svcErr.Message)
	}
}

func TestClient_Current_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, _ := New(server.URL, time.Second)
	_, err := client.Current(context.Background(), "tok", "10.00", "10.00")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Current() err = %v, want ErrNetwork", err)
	}
}

func TestClient_Current_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, 50*time.Millisecond)
	_, err := client.Current(context.Background(), "tok", "10.00", "10.00")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Current() err = %v, want ErrNetwork on timeout", err)
	}
}
