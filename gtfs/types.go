package gtfs

// Fields are exported so a Schedule round-trips through encoding/gob.

type Route struct {
	ID        string
	ShortName string
	LongName  string
	Type      int
}

type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	Headsign    string
	DirectionID string // "0", "1" or ""
}

type Stop struct {
	ID   string
	Name string
}

// StopTime is one row of stop_times.txt. ArrivalTime is kept raw (HH:MM:SS, hours may
// exceed 23) and parsed at query time.
type StopTime struct {
	TripID       string
	StopSequence int
	ArrivalTime  string
}

// Service is one row of calendar.txt. Weekdays is indexed by time.Weekday.
type Service struct {
	ID        string
	Weekdays  [7]bool
	StartDate string // YYYYMMDD
	EndDate   string
}

// Exception is one row of calendar_dates.txt.
type Exception struct {
	Date  string // YYYYMMDD
	Added bool   // exception_type 1; false means removed (2)
}

// Schedule is the parsed static feed.
type Schedule struct {
	AgencyName     string
	AgencyTimezone string
	Routes         map[string]Route
	Trips          map[string]Trip
	Stops          map[string]Stop
	StopTimes      map[string][]StopTime // stop_id -> rows
	Calendar       map[string]Service
	CalendarDates  map[string][]Exception // service_id -> exceptions
}

// NewSchedule returns an empty Schedule with every map allocated.
func NewSchedule() *Schedule {
	return &Schedule{
		Routes:        map[string]Route{},
		Trips:         map[string]Trip{},
		Stops:         map[string]Stop{},
		StopTimes:     map[string][]StopTime{},
		Calendar:      map[string]Service{},
		CalendarDates: map[string][]Exception{},
	}
}

// TripInfo is the display metadata joined from trips.txt and routes.txt.
type TripInfo struct {
	TripID         string
	RouteID        string
	RouteShortName string
	Direction      string // "IB", "OB" or ""
	Headsign       string
}
