// Package weather fetches current conditions from Open-Meteo for the
// day-attribute store. The fetch is strictly optional: failures
// degrade to "no weather recorded" and must never block a core
// operation.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Elmersong/HealthKey/internal/logging"
	"github.com/Elmersong/HealthKey/internal/model"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Fetcher retrieves current weather conditions.
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher creates a weather fetcher with a bounded timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
}

// NewFetcherWithBase creates a fetcher against a custom endpoint, used
// by tests with httptest servers.
func NewFetcherWithBase(baseURL string) *Fetcher {
	f := NewFetcher()
	f.baseURL = baseURL
	return f
}

// response mirrors the slice of the Open-Meteo payload we read.
type response struct {
	Current struct {
		Temperature2m      *float64 `json:"temperature_2m"`
		RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
		PressureMsl        *float64 `json:"pressure_msl"`
	} `json:"current"`
}

// Current fetches current conditions for the given coordinates. The
// returned snapshot is ready to be stored opaquely in DayMeta.
func (f *Fetcher) Current(ctx context.Context, lat, lon float64) (*model.Weather, error) {
	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,pressure_msl&timezone=auto",
		f.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logging.Warn("weather fetch failed", logging.KeyError, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Warn("weather fetch returned non-200", "status", resp.StatusCode)
		return nil, fmt.Errorf("weather fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	return &model.Weather{
		TemperatureC: payload.Current.Temperature2m,
		Humidity:     payload.Current.RelativeHumidity2m,
		PressureHpa:  payload.Current.PressureMsl,
		Description:  "实时天气",
	}, nil
}

// Snapshot marshals a weather value into the opaque form DayMeta
// stores.
func Snapshot(w *model.Weather) (json.RawMessage, error) {
	return json.Marshal(w)
}
