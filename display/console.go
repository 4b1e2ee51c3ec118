package display

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsoleClient prints frames instead of posting them; used by run --debug.
type ConsoleClient struct {
	w io.Writer
}

func NewConsoleClient(w io.Writer) *ConsoleClient {
	return &ConsoleClient{w: w}
}

func (c *ConsoleClient) Post(_ context.Context, frame Frame) bool {
	body := strings.TrimRight(string(frame.Body), "\n")
	_, err := fmt.Fprintf(c.w, "%s\n%s\n", strings.Repeat("=", max(frame.Width, 16)), body)
	return err == nil
}

func (c *ConsoleClient) Clear(context.Context) bool {
	_, err := fmt.Fprintln(c.w, "[display cleared]")
	return err == nil
}
