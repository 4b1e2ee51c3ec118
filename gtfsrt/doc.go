// Package gtfsrt fetches GTFS-Realtime TripUpdates feeds and extracts predicted arrivals for
// a single stop.
//
// Canceled trips and skipped stop-time updates are ignored, as are updates without an
// absolute arrival time.
package gtfsrt
