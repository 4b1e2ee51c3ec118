package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/fetch"
	"github.com/theoremus-urban-solutions/trixhub/provider"
)

// DefaultWeatherURL is the Open-Meteo forecast endpoint.
const DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

const (
	defaultLatitude         = 40.0
	defaultLongitude        = -80.0
	defaultLocationName     = "Unknown"
	defaultUnits            = "fahrenheit"
	defaultForecastInterval = 3

	weatherCacheDuration     = 600 * time.Second
	weatherSuggestedDuration = 30 * time.Second
	weatherTimeout           = 10 * time.Second
	weatherErrorMessage      = "Weather API error"
)

// WMO weather interpretation codes → display condition. Unlisted codes are cloudy.
var weatherConditions = map[int]string{
	0: "sunny", 1: "sunny",
	2: "partly_cloudy",
	3: "cloudy", 45: "cloudy", 48: "cloudy",
	51: "rainy", 53: "rainy", 55: "rainy",
	61: "rainy", 63: "rainy", 65: "rainy",
	80: "rainy", 81: "rainy", 82: "rainy",
	71: "snowy", 73: "snowy", 75: "snowy", 77: "snowy", 85: "snowy", 86: "snowy",
	95: "thunderstorm", 96: "thunderstorm", 99: "thunderstorm",
}

// WeatherCondition maps a WMO code.
func WeatherCondition(code int) string {
	if c, ok := weatherConditions[code]; ok {
		return c
	}
	return "cloudy"
}

// Weather shows current conditions and two hourly forecasts from Open-Meteo.
type Weather struct {
	provider.Conditional
	name     string
	baseURL  string
	lat, lon float64
	location string
	units    string
	interval int
	cache    time.Duration
	client   *fetch.Client
	now      func() time.Time
	logger   zerolog.Logger
}

// NewWeather builds a weather provider. Missing location fields take the defaults.
func NewWeather(name string, cfg config.ProviderConfig, now func() time.Time, logger zerolog.Logger) *Weather {
	if now == nil {
		now = time.Now
	}
	w := &Weather{
		Conditional: provider.Conditional{Conditions: conditions.NewEvaluator(cfg.Conditions)},
		name:        name,
		baseURL:     cfg.APIURL,
		lat:         defaultLatitude,
		lon:         defaultLongitude,
		location:    cfg.Location.Name,
		units:       cfg.Units,
		interval:    cfg.ForecastIntervalHours,
		cache:       secondsOr(cfg.CacheDuration, weatherCacheDuration),
		now:         now,
		logger:      logger.With().Str("component", "weather").Str("provider", name).Logger(),
	}
	if w.baseURL == "" {
		w.baseURL = DefaultWeatherURL
	}
	if cfg.Location.Latitude != nil {
		w.lat = *cfg.Location.Latitude
	}
	if cfg.Location.Longitude != nil {
		w.lon = *cfg.Location.Longitude
	}
	if w.location == "" {
		w.location = defaultLocationName
	}
	if w.units == "" {
		w.units = defaultUnits
	}
	if w.interval <= 0 {
		w.interval = defaultForecastInterval
	}
	w.client = fetch.New(fetch.Options{Name: name, Timeout: weatherTimeout}, w.logger)
	return w
}

func (w *Weather) Name() string                 { return w.name }
func (w *Weather) CacheDuration() time.Duration { return w.cache }

type openMeteoResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode int      `json:"weathercode"`
		WindSpeed   float64  `json:"windspeed_10m"`
	} `json:"current"`
	Hourly struct {
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"hourly"`
}

func (w *Weather) requestURL() string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(w.lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(w.lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,weathercode,windspeed_10m")
	q.Set("hourly", "temperature_2m,weathercode")
	q.Set("temperature_unit", w.units)
	q.Set("windspeed_unit", "mph")
	q.Set("forecast_days", "1")
	q.Set("timezone", "auto")
	return w.baseURL + "?" + q.Encode()
}

// Fetch never returns an error; upstream and decode failures become ErrorContent.
func (w *Weather) Fetch(ctx context.Context) (*provider.DisplayData, error) {
	now := w.now()
	body, err := w.client.Get(ctx, w.requestURL())
	if err != nil {
		w.logger.Warn().Err(err).Msg("weather fetch failed")
		return w.errorData(now, fmt.Errorf("%w: %v", provider.ErrSource, err)), nil
	}

	content, err := w.parse(body)
	if err != nil {
		w.logger.Warn().Err(err).Msg("weather response unusable")
		return w.errorData(now, err), nil
	}
	return &provider.DisplayData{
		Timestamp: now,
		Content:   content,
		Metadata: provider.Metadata{
			SuggestedDisplayDuration: weatherSuggestedDuration,
			Priority:                 "normal",
		},
	}, nil
}

func (w *Weather) errorData(now time.Time, err error) *provider.DisplayData {
	return provider.ErrorData(now, provider.TypeWeather, weatherErrorMessage, err, weatherSuggestedDuration)
}

func (w *Weather) parse(body []byte) (provider.WeatherContent, error) {
	var resp openMeteoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.WeatherContent{}, fmt.Errorf("%w: %v", provider.ErrDecode, err)
	}
	if resp.Current.Temperature == nil {
		return provider.WeatherContent{}, fmt.Errorf("%w: missing current temperature", provider.ErrDecode)
	}
	hours := min(len(resp.Hourly.Temperature), len(resp.Hourly.WeatherCode))
	if hours == 0 {
		return provider.WeatherContent{}, fmt.Errorf("%w: missing hourly forecast", provider.ErrDecode)
	}

	forecast := func(ahead int) provider.Forecast {
		i := min(ahead, hours-1)
		return provider.Forecast{
			Temperature: round(resp.Hourly.Temperature[i]),
			Condition:   WeatherCondition(resp.Hourly.WeatherCode[i]),
			HoursAhead:  ahead,
		}
	}

	return provider.WeatherContent{
		Location: w.location,
		Current: provider.CurrentWeather{
			Temperature: round(*resp.Current.Temperature),
			Condition:   WeatherCondition(resp.Current.WeatherCode),
			WindSpeed:   round(resp.Current.WindSpeed),
			Units:       w.units,
		},
		Forecast1: forecast(w.interval),
		Forecast2: forecast(2 * w.interval),
	}, nil
}

func round(f float64) int { return int(math.Round(f)) }
