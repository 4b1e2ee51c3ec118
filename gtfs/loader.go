package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// ErrMissingFile is returned when a required table is absent from the archive.
var ErrMissingFile = errors.New("gtfs: required file missing")

var requiredFiles = []string{"routes.txt", "trips.txt", "stop_times.txt"}

// ParseZip parses an in-memory GTFS archive.
func ParseZip(data []byte) (*Schedule, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("gtfs: open zip: %w", err)
	}
	return parseArchive(zr.File)
}

// ParseFile parses a GTFS archive on disk.
func ParseFile(filename string) (*Schedule, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("gtfs: open zip: %w", err)
	}
	defer func() { _ = zr.Close() }()
	return parseArchive(zr.File)
}

func parseArchive(files []*zip.File) (*Schedule, error) {
	s := NewSchedule()
	seen := map[string]bool{}
	for _, f := range files {
		// some agencies nest the tables in a folder
		name := strings.ToLower(path.Base(f.Name))
		switch name {
		case "agency.txt", "routes.txt", "trips.txt", "stops.txt", "stop_times.txt", "calendar.txt", "calendar_dates.txt":
		default:
			continue
		}
		if err := s.consumeCSV(f, name); err != nil {
			return nil, fmt.Errorf("gtfs: %s: %w", name, err)
		}
		seen[name] = true
	}
	for _, name := range requiredFiles {
		if !seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, name)
		}
	}
	return s, nil
}

func (s *Schedule) consumeCSV(f *zip.File, name string) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true
	csvr.ReuseRecord = true

	head, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	header := make([]string, len(head))
	for i, h := range head {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	idx := func(col string) int {
		for i, h := range header {
			if strings.EqualFold(h, col) {
				return i
			}
		}
		return -1
	}

	var consume func(row []string)
	switch name {
	case "agency.txt":
		agName := idx("agency_name")
		agTZ := idx("agency_timezone")
		consume = func(row []string) {
			// first agency wins
			if s.AgencyName == "" && s.AgencyTimezone == "" {
				s.AgencyName = field(row, agName)
				s.AgencyTimezone = field(row, agTZ)
			}
		}
	case "routes.txt":
		rID := idx("route_id")
		rSN := idx("route_short_name")
		rLN := idx("route_long_name")
		rType := idx("route_type")
		consume = func(row []string) {
			id := field(row, rID)
			if id == "" {
				return
			}
			typ, _ := strconv.Atoi(field(row, rType))
			s.Routes[id] = Route{ID: id, ShortName: field(row, rSN), LongName: field(row, rLN), Type: typ}
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		svc := idx("service_id")
		hs := idx("trip_headsign")
		dir := idx("direction_id")
		consume = func(row []string) {
			id := field(row, tID)
			if id == "" {
				return
			}
			s.Trips[id] = Trip{
				ID:          id,
				RouteID:     field(row, rID),
				ServiceID:   field(row, svc),
				Headsign:    field(row, hs),
				DirectionID: field(row, dir),
			}
		}
	case "stops.txt":
		sID := idx("stop_id")
		sN := idx("stop_name")
		consume = func(row []string) {
			if id := field(row, sID); id != "" {
				s.Stops[id] = Stop{ID: id, Name: field(row, sN)}
			}
		}
	case "stop_times.txt":
		tID := idx("trip_id")
		sID := idx("stop_id")
		sq := idx("stop_sequence")
		arr := idx("arrival_time")
		if tID < 0 || sID < 0 {
			return nil
		}
		consume = func(row []string) {
			stop := field(row, sID)
			trip := field(row, tID)
			if stop == "" || trip == "" {
				return
			}
			seq, _ := strconv.Atoi(field(row, sq))
			s.StopTimes[stop] = append(s.StopTimes[stop], StopTime{
				TripID:       trip,
				StopSequence: seq,
				ArrivalTime:  field(row, arr),
			})
		}
	case "calendar.txt":
		svc := idx("service_id")
		days := [7]int{
			idx("sunday"), idx("monday"), idx("tuesday"), idx("wednesday"),
			idx("thursday"), idx("friday"), idx("saturday"),
		}
		start := idx("start_date")
		end := idx("end_date")
		consume = func(row []string) {
			id := field(row, svc)
			if id == "" {
				return
			}
			service := Service{ID: id, StartDate: field(row, start), EndDate: field(row, end)}
			for wd, col := range days {
				service.Weekdays[wd] = field(row, col) == "1"
			}
			s.Calendar[id] = service
		}
	case "calendar_dates.txt":
		svc := idx("service_id")
		date := idx("date")
		exType := idx("exception_type")
		consume = func(row []string) {
			id := field(row, svc)
			d := field(row, date)
			if id == "" || d == "" {
				return
			}
			switch field(row, exType) {
			case "1":
				s.CalendarDates[id] = append(s.CalendarDates[id], Exception{Date: d, Added: true})
			case "2":
				s.CalendarDates[id] = append(s.CalendarDates[id], Exception{Date: d, Added: false})
			}
		}
	}

	for {
		row, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		consume(row)
	}
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
