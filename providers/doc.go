// Package providers holds the concrete display sources: wall clock, Open-Meteo weather, bus
// arrivals from a GTFS feed pair, and images from a local directory.
//
// Build maps a configured provider name to its kind. "time" is the clock; "weather" and
// "weather_*" are weather; "bus" and "bus_*" are transit; "image" and "image_*" are images.
// Every kind honours the section's conditions through provider.Conditional.
package providers
