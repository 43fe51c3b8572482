package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the public Open-Meteo forecast API.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// OpenMeteo queries the Open-Meteo daily forecast API.
type OpenMeteo struct {
	endpoint   string
	timeout    time.Duration
	maxRetries int
	http       *http.Client
}

// NewOpenMeteo returns a client for endpoint. A zero timeout means five
// seconds.
func NewOpenMeteo(endpoint string, timeout time.Duration) *OpenMeteo {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OpenMeteo{
		endpoint:   endpoint,
		timeout:    timeout,
		maxRetries: 1,
		http:       &http.Client{Transport: newTransport(timeout)},
	}
}

// newTransport keeps the default proxy and pooling settings and bounds the
// dial by timeout.
func newTransport(timeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{Timeout: timeout}).DialContext
	return t
}

// statusError is a non-200 reply from the API.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("open-meteo returned status %d: %s", e.code, e.body)
}

// retryable reports whether err is a network failure or a server-side error.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError
	}
	var ne net.Error
	return errors.As(err, &ne)
}

type dailyResponse struct {
	Daily struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m_max"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// Weekend returns the forecast for the next Saturday and Sunday within the
// coming week. Network failures and 5xx replies are retried once.
func (c *OpenMeteo) Weekend(ctx context.Context, lat, lon float64) ([]DayForecast, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	for range 1 + c.maxRetries {
		resp, err := c.fetch(ctx, lat, lon)
		if err == nil {
			return pickWeekend(resp)
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	if ctx.Err() != nil {
		return nil, ErrTimeout
	}
	var opErr *net.OpError
	if errors.As(lastErr, &opErr) {
		return nil, ErrUnavailable
	}
	return nil, lastErr
}

func (c *OpenMeteo) fetch(ctx context.Context, lat, lon float64) (*dailyResponse, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("daily", "temperature_2m_max,weather_code")
	q.Set("timezone", "auto")
	q.Set("forecast_days", "7")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &statusError{code: httpResp.StatusCode, body: string(body)}
	}

	var resp dailyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

func pickWeekend(resp *dailyResponse) ([]DayForecast, error) {
	d := resp.Daily
	n := min(len(d.Time), len(d.Temperature), len(d.WeatherCode))

	var sat, sun *DayForecast
	for i := range n {
		date, err := time.Parse(time.DateOnly, d.Time[i])
		if err != nil {
			return nil, fmt.Errorf("parsing forecast date %q: %w", d.Time[i], err)
		}
		f := DayForecast{Day: date.Weekday().String(), Date: d.Time[i], MaxC: d.Temperature[i], Code: d.WeatherCode[i]}
		switch date.Weekday() {
		case time.Saturday:
			if sat == nil {
				sat = &f
			}
		case time.Sunday:
			if sun == nil {
				sun = &f
			}
		}
	}
	if sat == nil || sun == nil {
		return nil, ErrIncomplete
	}
	return []DayForecast{*sat, *sun}, nil
}
