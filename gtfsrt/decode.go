package gtfsrt

import (
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// StopArrival is one realtime prediction at a stop.
type StopArrival struct {
	TripID  string
	RouteID string
	Arrival time.Time
}

// Decode unmarshals a FeedMessage.
func Decode(data []byte) (*gtfsrtpb.FeedMessage, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("gtfsrt: decode feed: %w", err)
	}
	return &fm, nil
}

// DecodeStopArrivals is Decode followed by StopArrivals.
func DecodeStopArrivals(data []byte, stopID string) ([]StopArrival, error) {
	fm, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return StopArrivals(fm, stopID), nil
}

// StopArrivals walks the TripUpdate entities of fm and returns every arrival at stopID.
func StopArrivals(fm *gtfsrtpb.FeedMessage, stopID string) []StopArrival {
	var out []StopArrival
	for _, e := range fm.GetEntity() {
		tu := e.GetTripUpdate()
		if tu == nil || e.GetIsDeleted() {
			continue
		}
		trip := tu.GetTrip()
		if trip.GetTripId() == "" {
			continue
		}
		if trip.GetScheduleRelationship() == gtfsrtpb.TripDescriptor_CANCELED {
			continue
		}
		for _, stu := range tu.GetStopTimeUpdate() {
			if stu.GetStopId() != stopID {
				continue
			}
			if stu.GetScheduleRelationship() == gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED {
				continue
			}
			arrival := stu.GetArrival()
			if arrival == nil || arrival.Time == nil {
				continue
			}
			out = append(out, StopArrival{
				TripID:  trip.GetTripId(),
				RouteID: trip.GetRouteId(),
				Arrival: time.Unix(arrival.GetTime(), 0),
			})
		}
	}
	return out
}
