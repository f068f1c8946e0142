package nws_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/ingest"
	"github.com/windlens/windlens/internal/ingest/nws"
)

func newTestServer(t *testing.T) (*httptest.Server, *nws.Client) {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/points/"):
			fmt.Fprintf(w, `{"properties":{"observationStations":"%s/gridpoints/OKX/33,35/stations"}}`, server.URL)
		case strings.Contains(r.URL.Path, "/stations") && !strings.Contains(r.URL.Path, "/observations"):
			w.Write([]byte(`{"features":[
				{"properties":{"stationIdentifier":"KJFK","name":"New York, Kennedy Intl Airport"},
				 "geometry":{"coordinates":[-73.76,40.64]}},
				{"properties":{"stationIdentifier":"KLGA","name":"LaGuardia"},
				 "geometry":{"coordinates":[-73.88,40.78]}}
			]}`))
		case strings.Contains(r.URL.Path, "/observations"):
			w.Write([]byte(`{"features":[
				{"properties":{"timestamp":"2024-03-01T14:51:00Z","windGust":{"value":36.0}}},
				{"properties":{"timestamp":"2024-03-01T13:51:00Z","windGust":{"value":null}}}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server, nws.NewClient(nws.ClientConfig{BaseURL: server.URL, Logger: zerolog.Nop()})
}

func TestNearestStation(t *testing.T) {
	_, client := newTestServer(t)

	station, err := client.NearestStation(context.Background(), 40.64, -73.76)
	require.NoError(t, err)

	assert.Equal(t, "KJFK", station.ID, "the first listed station is the nearest")
	assert.Equal(t, "New York, Kennedy Intl Airport", station.Name)
	assert.Equal(t, 40.64, station.Lat)
	assert.Equal(t, -73.76, station.Lon)
}

func TestNearestStation_NoStations(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/points/") {
			fmt.Fprintf(w, `{"properties":{"observationStations":"%s/stations"}}`, server.URL)
			return
		}
		w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	client := nws.NewClient(nws.ClientConfig{BaseURL: server.URL, Logger: zerolog.Nop()})
	_, err := client.NearestStation(context.Background(), 40.64, -73.76)
	assert.ErrorIs(t, err, ingest.ErrNoStation)
}

func TestObservations_ConvertsGustToMetersPerSecond(t *testing.T) {
	_, client := newTestServer(t)

	records, err := client.Observations(context.Background(), "KJFK")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2024, 3, 1, 14, 51, 0, 0, time.UTC), records[0].Timestamp)
	require.NotNil(t, records[0].Gust)
	assert.InDelta(t, 10.0, *records[0].Gust, 1e-9, "36 km/h is 10 m/s")
	assert.Nil(t, records[1].Gust, "null gusts pass through as nil")
}

func TestObservations_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	client := nws.NewClient(nws.ClientConfig{BaseURL: server.URL, Logger: zerolog.Nop()})
	_, err := client.Observations(context.Background(), "KJFK")
	assert.ErrorIs(t, err, ingest.ErrNoObservations)
}

func TestObservations_StationNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := nws.NewClient(nws.ClientConfig{BaseURL: server.URL, Logger: zerolog.Nop()})
	_, err := client.Observations(context.Background(), "XXXX")
	assert.ErrorIs(t, err, ingest.ErrNoStation)
}
