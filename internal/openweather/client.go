// Package openweather is a client for the OpenWeatherMap current-conditions
// API. Transport failures and malformed payloads never escape as-is; callers
// get an error they are expected to treat as "no usable data".
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/SiphiweRadebe/WeatherApp/internal/httputil"
	"github.com/SiphiweRadebe/WeatherApp/internal/metrics"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Snapshot is the provider-neutral view of current conditions. Wind speed is
// km/h; WindDegrees is nil when the provider omits the bearing.
type Snapshot struct {
	Temperature float64
	FeelsLike   float64
	Humidity    int64
	Pressure    float64
	WindSpeed   float64
	WindDegrees *float64
	Condition   string
	Description string
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  httputil.NewClient(),
	}
}

// NewClientWithBaseURL is used by tests to point at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type currentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int64   `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64  `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// FetchCurrent returns current conditions for the coordinates, retrying on
// rate limiting and upstream 5xx. Other failures are permanent.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	url := fmt.Sprintf("%s/weather?lat=%f&lon=%f&appid=%s&units=metric", c.baseURL, lat, lon, c.apiKey)

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch current: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("retryable: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch current: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.ProviderAPICallsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.ProviderAPICallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(data.Weather) == 0 {
		metrics.ProviderAPICallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("incomplete payload: no weather conditions")
	}

	metrics.ProviderAPICallsTotal.WithLabelValues("ok").Inc()

	return &Snapshot{
		Temperature: data.Main.Temp,
		FeelsLike:   data.Main.FeelsLike,
		Humidity:    data.Main.Humidity,
		Pressure:    data.Main.Pressure,
		WindSpeed:   data.Wind.Speed * 3.6, // m/s to km/h
		WindDegrees: data.Wind.Deg,
		Condition:   data.Weather[0].Main,
		Description: data.Weather[0].Description,
	}, nil
}
