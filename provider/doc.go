// Package provider defines the display payload model and the cache-backed provider wrapper.
//
// A Provider produces one DisplayData per Fetch. Schedulers never call Fetch directly; they go
// through Cached, which keeps at most one live entry per provider:
//
//	cached := provider.NewCached(p, nil)
//	data, err := cached.GetData(ctx, false) // cached pointer while the entry is live
//	data, err = cached.GetData(ctx, true)   // always fetches
//
// Content is a closed set of variants discriminated by Type(): TimeContent, WeatherContent,
// TransitContent, ImageContent and ErrorContent.
package provider
