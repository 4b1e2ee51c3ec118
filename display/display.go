// Package display defines the boundary between the scheduler and the physical display: a
// Renderer turns DisplayData into a Frame, a Client delivers frames.
package display

import (
	"context"
	"errors"

	"github.com/theoremus-urban-solutions/trixhub/provider"
)

// ErrUnsupportedContent is wrapped with the content type name by renderers that do not know
// how to draw a variant.
var ErrUnsupportedContent = errors.New("unsupported content type")

// ContentTypeBMP is what the matrix server expects on /display.
const ContentTypeBMP = "image/bmp"

// Frame is one rendered screen.
type Frame struct {
	Width       int
	Height      int
	ContentType string
	Body        []byte
}

type Renderer interface {
	Render(data *provider.DisplayData) (Frame, error)
}

// Client delivers frames. Both calls are best effort and report success.
type Client interface {
	Post(ctx context.Context, frame Frame) bool
	Clear(ctx context.Context) bool
}
