package formatter_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/trixhub/display"
	"github.com/theoremus-urban-solutions/trixhub/formatter"
	"github.com/theoremus-urban-solutions/trixhub/provider"
	"github.com/theoremus-urban-solutions/trixhub/transit"
)

var now = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

type radarContent struct{}

func (radarContent) Type() provider.ContentType { return "radar" }

func data(c provider.Content) *provider.DisplayData {
	return &provider.DisplayData{
		Timestamp: now,
		Content:   c,
		Metadata:  provider.Metadata{SuggestedDisplayDuration: 30 * time.Second, Priority: "normal"},
	}
}

func TestJSON_Render(t *testing.T) {
	r := formatter.NewJSON(64, 32)
	frame, err := r.Render(data(provider.NewTimeContent(now)))
	require.NoError(t, err)

	assert.Equal(t, 64, frame.Width)
	assert.Equal(t, formatter.ContentTypeJSON, frame.ContentType)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(frame.Body, &doc))
	assert.Equal(t, "time", doc["type"])
	assert.Equal(t, "02:05 PM", doc["content"].(map[string]any)["time_12h"])
	assert.EqualValues(t, 30, doc["metadata"].(map[string]any)["suggested_display_duration"])
}

func TestJSON_OmitsImageBytes(t *testing.T) {
	frame, err := formatter.NewJSON(64, 32).Render(data(provider.ImageContent{Name: "a.png", Data: []byte{1, 2, 3}}))
	require.NoError(t, err)
	assert.Contains(t, string(frame.Body), `"name": "a.png"`)
	assert.NotContains(t, string(frame.Body), "AQID")
}

func TestRenderers_RejectUnknownContent(t *testing.T) {
	renderers := []display.Renderer{formatter.NewJSON(64, 32), formatter.NewText(64, 32)}
	for _, r := range renderers {
		_, err := r.Render(data(radarContent{}))
		assert.ErrorIs(t, err, display.ErrUnsupportedContent)
		assert.ErrorContains(t, err, "radar")

		_, err = r.Render(nil)
		assert.ErrorIs(t, err, display.ErrUnsupportedContent)
	}
}

func TestText_Render(t *testing.T) {
	r := formatter.NewText(64, 32)

	tests := []struct {
		name    string
		content provider.Content
		want    string
	}{
		{
			name:    "time",
			content: provider.NewTimeContent(now),
			want:    "02:05 PM\nSat 03/09\n",
		},
		{
			name: "weather",
			content: provider.WeatherContent{
				Location:  "Home",
				Current:   provider.CurrentWeather{Temperature: 72, Condition: "sunny", WindSpeed: 5, Units: "fahrenheit"},
				Forecast1: provider.Forecast{Temperature: 70, Condition: "cloudy", HoursAhead: 3},
				Forecast2: provider.Forecast{Temperature: 65, Condition: "rainy", HoursAhead: 6},
			},
			want: "Home\nnow   72°F sunny wind 5mph\n+3h   70°F cloudy\n+6h   65°F rainy\n",
		},
		{
			name: "transit",
			content: provider.TransitContent{
				StopID: "S1",
				Arrivals: []transit.Arrival{
					{RouteShortName: "61C", Direction: "IB", MinutesUntil: 4, Origin: transit.Realtime},
				},
			},
			want: "Stop S1\n61C   IB   4m TT\n",
		},
		{
			name:    "error",
			content: provider.ErrorContent{Source: provider.TypeWeather, Message: "Weather API error"},
			want:    "weather: Weather API error\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := r.Render(data(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(frame.Body))
		})
	}
}
