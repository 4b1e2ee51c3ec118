package formatter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/display"
	"github.com/theoremus-urban-solutions/trixhub/provider"
)

const ContentTypeJSON = "application/json"

// JSON renders DisplayData as an indented JSON document with the content type inlined.
type JSON struct {
	Width  int
	Height int
}

func NewJSON(width, height int) *JSON { return &JSON{Width: width, Height: height} }

type jsonDocument struct {
	Type      provider.ContentType `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Content   provider.Content     `json:"content"`
	Metadata  jsonMetadata         `json:"metadata"`
}

type jsonMetadata struct {
	SuggestedDisplayDuration int    `json:"suggested_display_duration,omitempty"`
	Priority                 string `json:"priority,omitempty"`
}

func (r *JSON) Render(data *provider.DisplayData) (display.Frame, error) {
	if err := checkContent(data); err != nil {
		return display.Frame{}, err
	}
	b, err := json.MarshalIndent(jsonDocument{
		Type:      data.Content.Type(),
		Timestamp: data.Timestamp,
		Content:   data.Content,
		Metadata: jsonMetadata{
			SuggestedDisplayDuration: int(data.Metadata.SuggestedDisplayDuration / time.Second),
			Priority:                 data.Metadata.Priority,
		},
	}, "", "  ")
	if err != nil {
		return display.Frame{}, fmt.Errorf("formatter: marshal %s: %w", data.Content.Type(), err)
	}
	return display.Frame{Width: r.Width, Height: r.Height, ContentType: ContentTypeJSON, Body: b}, nil
}

func checkContent(data *provider.DisplayData) error {
	if data == nil || data.Content == nil {
		return fmt.Errorf("%w: <nil>", display.ErrUnsupportedContent)
	}
	switch data.Content.(type) {
	case provider.TimeContent, provider.WeatherContent, provider.TransitContent,
		provider.ImageContent, provider.ErrorContent:
		return nil
	}
	return fmt.Errorf("%w: %s", display.ErrUnsupportedContent, data.Content.Type())
}
