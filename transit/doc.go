// Package transit merges scheduled and realtime arrivals for a stop into one ranked list.
//
// A Manager owns one static/realtime feed pair. It keeps the parsed schedule in memory, backed
// by a gtfs.DiskCache, and fetches the realtime feed on every merge. A Registry hands out one
// shared Manager per feed pair so several stop providers reuse the same download.
//
// Neither type is safe for concurrent use.
package transit
