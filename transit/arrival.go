package transit

import (
	"errors"
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/gtfs"
)

// Origin tags where an arrival time came from.
type Origin string

const (
	Scheduled Origin = "SC"
	Realtime  Origin = "TT"
)

// Urgency is the display colour bucket of an arrival.
type Urgency string

const (
	Urgent Urgency = "urgent"
	Soon   Urgency = "soon"
	Normal Urgency = "normal"
)

// ErrTripNotFound is returned by a TripLookup that has no static schedule to consult. A trip
// the schedule does not know is an empty TripInfo, not an error.
var ErrTripNotFound = errors.New("trip not found in static schedule")

type Arrival struct {
	RouteShortName string    `json:"route_short_name"`
	RouteID        string    `json:"route_id"`
	TripID         string    `json:"trip_id"`
	Direction      string    `json:"direction"`
	Headsign       string    `json:"headsign"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Origin         Origin    `json:"type"`
	MinutesUntil   int       `json:"minutes_until"`
	Urgency        Urgency   `json:"urgency,omitempty"`
}

// TripLookup resolves display fields for a realtime-only trip. Unknown trips yield a zero
// TripInfo and a nil error.
type TripLookup func(tripID string) (gtfs.TripInfo, error)

// Merge reconciles scheduled and realtime arrivals at one stop:
//
//  1. a scheduled arrival whose trip has a realtime prediction takes the realtime time and
//     keeps its scheduled display fields, tagged Realtime. When the trip visits the stop more
//     than once, only the visit scheduled nearest the prediction takes it;
//  2. a realtime arrival for a trip missing from scheduled is completed through lookup and
//     dropped when the lookup fails. A trip the lookup does not know is labelled by its route id;
//  3. the result is limited to [now, now+window], sorted by time, and MinutesUntil is set.
func Merge(now time.Time, window time.Duration, scheduled, realtime []Arrival, lookup TripLookup) []Arrival {
	byTrip := make(map[string]Arrival, len(realtime))
	for _, rt := range realtime {
		byTrip[rt.TripID] = rt
	}

	// index of the scheduled visit each prediction applies to
	nearest := make(map[string]int, len(byTrip))
	for i, sc := range scheduled {
		rt, ok := byTrip[sc.TripID]
		if !ok {
			continue
		}
		if j, seen := nearest[sc.TripID]; !seen || gap(sc.ArrivalTime, rt.ArrivalTime) < gap(scheduled[j].ArrivalTime, rt.ArrivalTime) {
			nearest[sc.TripID] = i
		}
	}

	merged := make([]Arrival, 0, len(scheduled)+len(realtime))
	scheduledTrips := make(map[string]struct{}, len(scheduled))
	for i, sc := range scheduled {
		scheduledTrips[sc.TripID] = struct{}{}
		if j, ok := nearest[sc.TripID]; ok && j == i {
			sc.ArrivalTime = byTrip[sc.TripID].ArrivalTime
			sc.Origin = Realtime
		} else {
			sc.Origin = Scheduled
		}
		merged = append(merged, sc)
	}

	for _, rt := range realtime {
		if _, ok := scheduledTrips[rt.TripID]; ok {
			continue
		}
		if lookup == nil {
			continue
		}
		info, err := lookup(rt.TripID)
		if err != nil {
			continue
		}
		a := Arrival{
			RouteShortName: info.RouteShortName,
			RouteID:        rt.RouteID,
			TripID:         rt.TripID,
			Direction:      info.Direction,
			Headsign:       info.Headsign,
			ArrivalTime:    rt.ArrivalTime,
			Origin:         Realtime,
		}
		if a.RouteID == "" {
			a.RouteID = info.RouteID
		}
		if a.RouteShortName == "" {
			a.RouteShortName = a.RouteID
		}
		merged = append(merged, a)
	}

	cutoff := now.Add(window)
	out := merged[:0]
	for _, a := range merged {
		if a.ArrivalTime.Before(now) || a.ArrivalTime.After(cutoff) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ArrivalTime.Before(out[j].ArrivalTime) })

	for i := range out {
		out[i].MinutesUntil = minutesUntil(now, out[i].ArrivalTime)
	}
	return out
}

func gap(a, b time.Time) time.Duration {
	if d := a.Sub(b); d >= 0 {
		return d
	}
	return b.Sub(a)
}

func minutesUntil(now, t time.Time) int {
	m := int(t.Sub(now) / time.Minute)
	if m < 0 {
		return 0
	}
	return m
}

// UrgencyFor buckets minutes until arrival: under 5 is Urgent, under 10 is Soon.
func UrgencyFor(minutes int) Urgency {
	switch {
	case minutes < 5:
		return Urgent
	case minutes < 10:
		return Soon
	default:
		return Normal
	}
}

// SortByPriority moves arrivals on priorityRoutes (matched by short name) ahead of all others.
// Both groups stay ordered by soonest arrival; the position of a route in priorityRoutes does
// not matter. The input slice is not modified.
func SortByPriority(arrivals []Arrival, priorityRoutes []string) []Arrival {
	priority := make(map[string]struct{}, len(priorityRoutes))
	for _, r := range priorityRoutes {
		priority[r] = struct{}{}
	}
	group := func(a Arrival) int {
		if _, ok := priority[a.RouteShortName]; ok {
			return 0
		}
		return 1
	}

	out := make([]Arrival, len(arrivals))
	copy(out, arrivals)
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := group(out[i]), group(out[j])
		if gi != gj {
			return gi < gj
		}
		return out[i].ArrivalTime.Before(out[j].ArrivalTime)
	})
	return out
}

// Rank applies SortByPriority, keeps at most limit arrivals (no limit when limit <= 0) and
// fills in Urgency.
func Rank(arrivals []Arrival, priorityRoutes []string, limit int) []Arrival {
	out := SortByPriority(arrivals, priorityRoutes)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Urgency = UrgencyFor(out[i].MinutesUntil)
	}
	return out
}
