// Package formatter provides debug renderers for DisplayData.
//
// This package is organized into:
// - json.go: JSON rendering of the full payload, image bytes omitted
// - text.go: short plain-text screens for the console client
//
// Both reject content variants they do not know with display.ErrUnsupportedContent.
package formatter
