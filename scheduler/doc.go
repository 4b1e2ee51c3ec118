// Package scheduler runs the display loop: pick an entry, fetch through the provider cache,
// render, post, hold for the resolved duration, repeat.
//
// Two modes share one engine. Rotation walks a flat list forever. Windowed picks the first
// daily time window (optionally gated by conditions) that contains the current time and
// walks its list, switching as soon as a different window becomes active; a blank window
// clears the display and idles.
//
// Every wait is cut into slices of at most one second so Shutdown and context cancellation
// take effect promptly. A provider failure is logged and followed by a two second pause; it
// never ends the loop.
package scheduler
