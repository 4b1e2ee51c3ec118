package gtfs

import (
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/utils"
)

const secondsPerDay = 24 * 60 * 60

// Visit is one scheduled stop at a stop, resolved to an absolute arrival time.
type Visit struct {
	TripInfo
	Arrival time.Time
}

// ScheduledVisits returns the rows for stopID arriving within [now, now+window], measured in
// seconds since the agency's local midnight. Rows whose time is not a valid HH:MM:SS are
// dropped. Times of 24:00:00 and later are also matched against the previous service day, and
// a window that crosses midnight picks up the next service day's early rows. When the feed
// has calendar data only trips whose service runs on the matching day are kept. The result is
// sorted by arrival.
func (s *Schedule) ScheduledVisits(stopID string, now time.Time, window time.Duration) []Visit {
	rows := s.StopTimes[stopID]
	if len(rows) == 0 {
		return nil
	}

	local := now.In(s.Location())
	today := utils.Midnight(local)
	nowSec := utils.SecondsSinceMidnight(local)
	endSec := nowSec + int(window/time.Second)

	var out []Visit
	for _, row := range rows {
		secs, err := utils.ParseGTFSTime(row.ArrivalTime)
		if err != nil {
			continue
		}
		trip, known := s.Trips[row.TripID]
		for _, dayOffset := range [...]int{0, -1, 1} {
			t := secs + dayOffset*secondsPerDay
			if t < nowSec || t > endSec {
				continue
			}
			serviceDay := today.AddDate(0, 0, dayOffset)
			if !s.RunsOn(trip.ServiceID, serviceDay) {
				continue
			}
			info, _ := s.TripInfo(row.TripID)
			if !known {
				info.TripID = row.TripID
			}
			out = append(out, Visit{
				TripInfo: info,
				Arrival:  time.Date(today.Year(), today.Month(), today.Day(), 0, 0, t, 0, today.Location()),
			})
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Arrival.Before(out[j].Arrival) })
	return out
}
