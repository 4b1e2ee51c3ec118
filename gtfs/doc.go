/*
Package gtfs loads GTFS static schedules and answers scheduled-arrival queries for a stop.

This package is transport agnostic. It parses ZIP bytes fetched elsewhere into a Schedule and
persists Schedules in an expiring on-disk gob cache.

# Basic Usage

	sched, err := gtfs.ParseZip(zipBytes)
	if err != nil {
	    return err
	}
	visits := sched.ScheduledVisits("7637", time.Now(), time.Hour)

# Disk Cache

A DiskCache holds one snapshot per (static URL, realtime URL) pair. The file name carries the
absolute expiry instant:

	<dir>/gtfs-<xxhash64(static|realtime)>-<expiry epoch seconds>.gob

Expired and undecodable snapshots are deleted during Load. Store writes to a temp file in the
same directory and renames it into place.

# Data Structure

The Schedule provides lookups for:

  - Routes (route_id → short name, type)
  - Trips (trip_id → route, service, headsign, direction)
  - Stops (stop_id → name)
  - Stop times (stop_id → rows of trip_id + arrival_time)
  - Calendar (service_id → weekdays + date range) and calendar_dates exceptions

Stop times are indexed by stop rather than by trip because every query starts at a stop.
*/
package gtfs
