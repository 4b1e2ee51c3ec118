// Package utils provides internal utility functions shared by the trixhub packages.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Clock string parsing ("HH:MM" rotation windows, "HH:MM:SS" GTFS stop times)
//   - Calendar helpers (MM-DD keys, service dates, midnight anchors)
package utils
