package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadClock is returned for clock strings that cannot be parsed.
var ErrBadClock = errors.New("invalid clock value")

// ParseClock converts an "HH:MM" string to minutes since midnight (0-1439).
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadClock, s)
	}
	return h*60 + m, nil
}

// ParseGTFSTime converts a GTFS "HH:MM:SS" stop time to seconds since midnight.
// Hours of 24 and above are valid and denote service after midnight.
func ParseGTFSTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
		}
		v[i] = n
	}
	if v[1] > 59 || v[2] > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadClock, s)
	}
	return v[0]*3600 + v[1]*60 + v[2], nil
}

// MinutesSinceMidnight returns the wall-clock minute of t in its own location.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SecondsSinceMidnight returns the wall-clock second of t in its own location.
func SecondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// Midnight returns 00:00:00 of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthDay formats t as "MM-DD".
func MonthDay(t time.Time) string {
	return t.Format("01-02")
}

// IsMonthDay reports whether s is a well-formed "MM-DD" value.
// February 29 is accepted.
func IsMonthDay(s string) bool {
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	_, err := time.Parse("01-02-2006", s+"-2024")
	return err == nil
}

// ServiceDate formats t as a GTFS service date (YYYYMMDD).
func ServiceDate(t time.Time) string {
	return t.Format("20060102")
}
