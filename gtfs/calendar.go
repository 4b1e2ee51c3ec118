package gtfs

import (
	"time"

	"github.com/theoremus-urban-solutions/trixhub/utils"
)

// HasCalendar reports whether the feed carried any calendar.txt or calendar_dates.txt rows.
func (s *Schedule) HasCalendar() bool {
	return len(s.Calendar) > 0 || len(s.CalendarDates) > 0
}

// RunsOn reports whether serviceID operates on the service day of date. Without calendar
// data every service runs every day.
func (s *Schedule) RunsOn(serviceID string, date time.Time) bool {
	if !s.HasCalendar() {
		return true
	}
	day := utils.ServiceDate(date)
	for _, ex := range s.CalendarDates[serviceID] {
		if ex.Date == day {
			return ex.Added
		}
	}
	service, ok := s.Calendar[serviceID]
	if !ok {
		return false
	}
	// YYYYMMDD compares correctly as a string
	if service.StartDate != "" && day < service.StartDate {
		return false
	}
	if service.EndDate != "" && day > service.EndDate {
		return false
	}
	return service.Weekdays[date.Weekday()]
}
