package conditions

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/utils"
)

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ConditionSet holds the configured calendar conditions.
type ConditionSet struct {
	DateMatch []string `yaml:"date_match" toml:"date_match" mapstructure:"date_match"`
	DateRange []string `yaml:"date_range" toml:"date_range" mapstructure:"date_range"`
	DayOfWeek []int    `yaml:"day_of_week" toml:"day_of_week" mapstructure:"day_of_week"`
	Months    []int    `yaml:"months" toml:"months" mapstructure:"months"`
}

// IsZero reports whether no condition kind is configured at all.
func (c ConditionSet) IsZero() bool {
	return len(c.DateMatch) == 0 && len(c.DateRange) == 0 && len(c.DayOfWeek) == 0 && len(c.Months) == 0
}

// ShouldRun evaluates set against now.
func ShouldRun(set ConditionSet, now time.Time) bool {
	checks := [...]func(ConditionSet, time.Time) (bool, bool){
		checkDateMatch,
		checkDateRange,
		checkDayOfWeek,
		checkMonths,
	}
	for _, check := range checks {
		if pass, configured := check(set, now); configured && !pass {
			return false
		}
	}
	return true
}

// Evaluator binds a ConditionSet so it can be attached to a provider.
type Evaluator struct {
	Set ConditionSet
}

// NewEvaluator returns nil for an empty set, meaning "always runnable".
func NewEvaluator(set ConditionSet) *Evaluator {
	if set.IsZero() {
		return nil
	}
	return &Evaluator{Set: set}
}

// ShouldRun evaluates the bound set. A nil Evaluator always passes.
func (e *Evaluator) ShouldRun(now time.Time) bool {
	if e == nil {
		return true
	}
	return ShouldRun(e.Set, now)
}

// Describe renders the configured kinds for log output, e.g. "days=Sat,Sun; months=12".
func (c ConditionSet) Describe() string {
	var parts []string
	if dates := validMonthDays(c.DateMatch); len(dates) > 0 {
		parts = append(parts, "dates="+strings.Join(dates, ","))
	}
	if start, end, ok := dateRange(c.DateRange); ok {
		parts = append(parts, fmt.Sprintf("range=%s..%s", start, end))
	}
	var days []string
	for _, d := range c.DayOfWeek {
		if d >= 0 && d <= 6 {
			days = append(days, dayNames[d])
		}
	}
	if len(days) > 0 {
		parts = append(parts, "days="+strings.Join(days, ","))
	}
	var months []string
	for _, m := range c.Months {
		if m >= 1 && m <= 12 {
			months = append(months, strconv.Itoa(m))
		}
	}
	if len(months) > 0 {
		parts = append(parts, "months="+strings.Join(months, ","))
	}
	return strings.Join(parts, "; ")
}

// Each check returns (pass, configured).

func checkDateMatch(c ConditionSet, now time.Time) (bool, bool) {
	dates := validMonthDays(c.DateMatch)
	if len(dates) == 0 {
		return false, false
	}
	today := utils.MonthDay(now)
	for _, d := range dates {
		if d == today {
			return true, true
		}
	}
	return false, true
}

func checkDateRange(c ConditionSet, now time.Time) (bool, bool) {
	start, end, ok := dateRange(c.DateRange)
	if !ok {
		return false, false
	}
	today := utils.MonthDay(now)
	if start <= end {
		return start <= today && today <= end, true
	}
	// wraps over new year, e.g. 12-20..01-10
	return today >= start || today <= end, true
}

func checkDayOfWeek(c ConditionSet, now time.Time) (bool, bool) {
	// time.Weekday is already 0=Sunday..6=Saturday
	weekday := int(now.Weekday())
	configured := false
	for _, d := range c.DayOfWeek {
		if d < 0 || d > 6 {
			continue
		}
		configured = true
		if d == weekday {
			return true, true
		}
	}
	return false, configured
}

func checkMonths(c ConditionSet, now time.Time) (bool, bool) {
	month := int(now.Month())
	configured := false
	for _, m := range c.Months {
		if m < 1 || m > 12 {
			continue
		}
		configured = true
		if m == month {
			return true, true
		}
	}
	return false, configured
}

func validMonthDays(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if utils.IsMonthDay(s) {
			out = append(out, s)
		}
	}
	return out
}

func dateRange(in []string) (string, string, bool) {
	if len(in) != 2 {
		return "", "", false
	}
	start, end := strings.TrimSpace(in[0]), strings.TrimSpace(in[1])
	if !utils.IsMonthDay(start) || !utils.IsMonthDay(end) {
		return "", "", false
	}
	return start, end, true
}
