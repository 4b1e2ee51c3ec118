package gtfs

import "time"

// Location returns the agency timezone, or time.Local when it is missing or unknown.
func (s *Schedule) Location() *time.Location {
	if s.AgencyTimezone != "" {
		if loc, err := time.LoadLocation(s.AgencyTimezone); err == nil {
			return loc
		}
	}
	return time.Local
}

func (s *Schedule) StopName(stopID string) string { return s.Stops[stopID].Name }

// RouteShortName falls back to the route id when the short name is blank.
func (s *Schedule) RouteShortName(routeID string) string {
	if r, ok := s.Routes[routeID]; ok && r.ShortName != "" {
		return r.ShortName
	}
	return routeID
}

// TripInfo joins trip and route display fields. ok is false for unknown trips.
func (s *Schedule) TripInfo(tripID string) (TripInfo, bool) {
	trip, ok := s.Trips[tripID]
	if !ok {
		return TripInfo{}, false
	}
	return TripInfo{
		TripID:         tripID,
		RouteID:        trip.RouteID,
		RouteShortName: s.RouteShortName(trip.RouteID),
		Direction:      FormatDirection(trip.DirectionID),
		Headsign:       trip.Headsign,
	}, true
}

// FormatDirection maps direction_id 1 to "IB" and 0 to "OB". Anything else is "".
func FormatDirection(directionID string) string {
	switch directionID {
	case "1":
		return "IB"
	case "0":
		return "OB"
	default:
		return ""
	}
}

// StopCount is the number of stops with at least one stop_times row.
func (s *Schedule) StopCount() int { return len(s.StopTimes) }
