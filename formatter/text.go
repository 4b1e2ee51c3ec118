package formatter

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/trixhub/display"
	"github.com/theoremus-urban-solutions/trixhub/provider"
)

const ContentTypeText = "text/plain; charset=utf-8"

// Text renders a few lines of plain text per screen, roughly what the matrix would show.
type Text struct {
	Width  int
	Height int
}

func NewText(width, height int) *Text { return &Text{Width: width, Height: height} }

func (r *Text) Render(data *provider.DisplayData) (display.Frame, error) {
	if err := checkContent(data); err != nil {
		return display.Frame{}, err
	}

	var b strings.Builder
	switch c := data.Content.(type) {
	case provider.TimeContent:
		fmt.Fprintf(&b, "%s\n%s %s\n", c.Time12h, c.DayOfWeekShort, c.DateShort)
	case provider.WeatherContent:
		unit := "F"
		if c.Current.Units == "celsius" {
			unit = "C"
		}
		fmt.Fprintf(&b, "%s\n", c.Location)
		fmt.Fprintf(&b, "now  %3d°%s %s wind %dmph\n", c.Current.Temperature, unit, c.Current.Condition, c.Current.WindSpeed)
		for _, f := range []provider.Forecast{c.Forecast1, c.Forecast2} {
			fmt.Fprintf(&b, "+%dh  %3d°%s %s\n", f.HoursAhead, f.Temperature, unit, f.Condition)
		}
	case provider.TransitContent:
		title := c.StopName
		if title == "" {
			title = "Stop " + c.StopID
		}
		b.WriteString(title + "\n")
		if len(c.Arrivals) == 0 {
			b.WriteString("no arrivals\n")
		}
		for _, a := range c.Arrivals {
			fmt.Fprintf(&b, "%-5s %-2s %3dm %s\n", a.RouteShortName, a.Direction, a.MinutesUntil, a.Origin)
		}
	case provider.ImageContent:
		fmt.Fprintf(&b, "[image %d/%d] %s (%s, %d bytes)\n", c.Number, c.Total, c.Name, c.MIMEType, len(c.Data))
	case provider.ErrorContent:
		fmt.Fprintf(&b, "%s: %s\n", c.Source, c.Message)
		if c.Details != "" {
			b.WriteString(c.Details + "\n")
		}
	}
	return display.Frame{Width: r.Width, Height: r.Height, ContentType: ContentTypeText, Body: []byte(b.String())}, nil
}
