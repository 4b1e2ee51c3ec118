package provider

import (
	"time"

	"github.com/theoremus-urban-solutions/trixhub/transit"
)

// ContentType discriminates the Content variants.
type ContentType string

const (
	TypeTime    ContentType = "time"
	TypeWeather ContentType = "weather"
	TypeTransit ContentType = "bus_arrivals"
	TypeImage   ContentType = "image"
	TypeError   ContentType = "error"
)

// Content is the provider-specific payload carried by DisplayData.
type Content interface {
	Type() ContentType
}

// Metadata carries rendering hints. A zero SuggestedDisplayDuration means unset.
type Metadata struct {
	SuggestedDisplayDuration time.Duration `json:"suggested_display_duration"`
	Priority                 string        `json:"priority,omitempty"`
}

// DisplayData is the immutable result of one fetch.
type DisplayData struct {
	Timestamp time.Time `json:"timestamp"`
	Content   Content   `json:"content"`
	Metadata  Metadata  `json:"metadata"`
}

// TimeContent is the current wall clock in the formats the renderers use.
type TimeContent struct {
	Now            time.Time `json:"time"`
	Time12h        string    `json:"time_12h"`
	Time24h        string    `json:"time_24h"`
	Date           string    `json:"date"`
	DateShort      string    `json:"date_short"`
	DateUS         string    `json:"date_us"`
	DayOfWeek      string    `json:"day_of_week"`
	DayOfWeekShort string    `json:"day_of_week_short"`
}

func (TimeContent) Type() ContentType { return TypeTime }

// NewTimeContent formats now.
func NewTimeContent(now time.Time) TimeContent {
	return TimeContent{
		Now:            now,
		Time12h:        now.Format("03:04 PM"),
		Time24h:        now.Format("15:04"),
		Date:           now.Format("2006-01-02"),
		DateShort:      now.Format("01/02"),
		DateUS:         now.Format("01/02/2006"),
		DayOfWeek:      now.Format("Monday"),
		DayOfWeekShort: now.Format("Mon"),
	}
}

// CurrentWeather is the observed state at fetch time.
type CurrentWeather struct {
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	WindSpeed   int    `json:"windspeed"`
	Units       string `json:"units"`
}

// Forecast is a point forecast HoursAhead hours from now.
type Forecast struct {
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	HoursAhead  int    `json:"hours_ahead"`
}

type WeatherContent struct {
	Location  string         `json:"location"`
	Current   CurrentWeather `json:"current"`
	Forecast1 Forecast       `json:"forecast1"`
	Forecast2 Forecast       `json:"forecast2"`
}

func (WeatherContent) Type() ContentType { return TypeWeather }

// TransitContent lists the upcoming arrivals for one stop, already ranked and trimmed.
type TransitContent struct {
	StopID      string            `json:"stop_id"`
	StopName    string            `json:"stop_name,omitempty"`
	Arrivals    []transit.Arrival `json:"arrivals"`
	HasRealtime bool              `json:"has_realtime"`
}

func (TransitContent) Type() ContentType { return TypeTransit }

// ImageContent holds the raw bytes of one image file.
type ImageContent struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
	Number   int    `json:"image_number"`
	Total    int    `json:"total_images"`
}

func (ImageContent) Type() ContentType { return TypeImage }

// ErrorContent stands in for the content of Source when the fetch degraded.
type ErrorContent struct {
	Source  ContentType `json:"source"`
	Message string      `json:"error_message"`
	Details string      `json:"error_details,omitempty"`
}

func (ErrorContent) Type() ContentType { return TypeError }
