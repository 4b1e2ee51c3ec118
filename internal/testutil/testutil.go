// Package testutil builds GTFS fixtures in memory for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/require"
	proto "google.golang.org/protobuf/proto"
)

// BuildZip writes files (name -> lines) into a GTFS archive, filling in minimal required
// tables that are missing.
func BuildZip(t testing.TB, files map[string][]string) []byte {
	t.Helper()

	defaults := map[string][]string{
		"agency.txt":     {"agency_id,agency_name,agency_url,agency_timezone", "A,Test Transit,http://example.com,UTC"},
		"routes.txt":     {"route_id,route_short_name,route_type"},
		"trips.txt":      {"route_id,service_id,trip_id"},
		"stops.txt":      {"stop_id,stop_name"},
		"stop_times.txt": {"trip_id,arrival_time,departure_time,stop_id,stop_sequence"},
	}
	for name, lines := range defaults {
		if _, ok := files[name]; !ok {
			files[name] = lines
		}
	}
	return RawZip(t, files)
}

// RawZip writes exactly files into an archive.
func RawZip(t testing.TB, files map[string][]string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, lines := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(lines, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// SimpleFixture is a two-route feed in UTC. Stop S1 is served by:
//
//	T1 route 61 (OB) at 08:10, T2 route 67 (IB) at 08:20, T3 route 61 at 09:30,
//	T4 route 67 at 24:10:00 (post-midnight), T5 route 61 on the weekend service only at 08:15.
//
// Weekday trips run on service WK, Monday to Friday through 2030.
func SimpleFixture(t testing.TB) []byte {
	t.Helper()
	return BuildZip(t, map[string][]string{
		"routes.txt": {
			"route_id,route_short_name,route_long_name,route_type",
			"R61,61,Sixty One,3",
			"R67,67,Sixty Seven,3",
		},
		"trips.txt": {
			"route_id,service_id,trip_id,trip_headsign,direction_id",
			"R61,WK,T1,Downtown,0",
			"R67,WK,T2,Uptown,1",
			"R61,WK,T3,Downtown,0",
			"R67,WK,T4,Late Night,1",
			"R61,WE,T5,Downtown,0",
		},
		"stops.txt": {
			"stop_id,stop_name",
			"S1,Main St & 1st Ave",
			"S2,Main St & 2nd Ave",
		},
		"stop_times.txt": {
			"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
			"T1,08:10:00,08:10:00,S1,1",
			"T1,08:14:00,08:14:00,S2,2",
			"T2,08:20:00,08:20:00,S1,1",
			"T3,09:30:00,09:30:00,S1,1",
			"T4,24:10:00,24:10:00,S1,1",
			"T5,08:15:00,08:15:00,S1,1",
			"T1,bogus,bogus,S1,3",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"WK,1,1,1,1,1,0,0,20200101,20301231",
			"WE,0,0,0,0,0,1,1,20200101,20301231",
		},
	})
}

// StopUpdate describes one stop_time_update in a built feed.
type StopUpdate struct {
	StopID      string
	ArrivalTime time.Time // zero means no arrival event
	Skipped     bool
}

// TripUpdate describes one trip_update entity in a built feed.
type TripUpdate struct {
	TripID      string
	RouteID     string
	Canceled    bool
	StopUpdates []StopUpdate
}

// BuildFeed marshals a GTFS-RT FeedMessage holding tripUpdates.
func BuildFeed(t testing.TB, header time.Time, tripUpdates []TripUpdate) []byte {
	t.Helper()

	entity := make([]*gtfsrtpb.FeedEntity, 0, len(tripUpdates))
	for _, tu := range tripUpdates {
		stopTimeUpdate := make([]*gtfsrtpb.TripUpdate_StopTimeUpdate, 0, len(tu.StopUpdates))
		for _, su := range tu.StopUpdates {
			rel := gtfsrtpb.TripUpdate_StopTimeUpdate_SCHEDULED
			if su.Skipped {
				rel = gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED
			}
			stup := &gtfsrtpb.TripUpdate_StopTimeUpdate{
				ScheduleRelationship: &rel,
				StopId:               proto.String(su.StopID),
			}
			if !su.ArrivalTime.IsZero() {
				stup.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(su.ArrivalTime.Unix())}
			}
			stopTimeUpdate = append(stopTimeUpdate, stup)
		}

		tripRel := gtfsrtpb.TripDescriptor_SCHEDULED
		if tu.Canceled {
			tripRel = gtfsrtpb.TripDescriptor_CANCELED
		}
		trip := &gtfsrtpb.TripDescriptor{
			TripId:               proto.String(tu.TripID),
			ScheduleRelationship: &tripRel,
		}
		if tu.RouteID != "" {
			trip.RouteId = proto.String(tu.RouteID)
		}
		entity = append(entity, &gtfsrtpb.FeedEntity{
			Id:         proto.String(tu.TripID),
			TripUpdate: &gtfsrtpb.TripUpdate{Trip: trip, StopTimeUpdate: stopTimeUpdate},
		})
	}

	incrementality := gtfsrtpb.FeedHeader_FULL_DATASET
	feed := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      &incrementality,
			Timestamp:           proto.Uint64(uint64(header.Unix())),
		},
		Entity: entity,
	}

	data, err := proto.Marshal(feed)
	require.NoError(t, err)
	return data
}
