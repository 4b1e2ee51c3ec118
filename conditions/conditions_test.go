package conditions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 12, 0, 0, 0, time.UTC)
}

func TestShouldRun_EmptySetAlwaysPasses(t *testing.T) {
	var set conditions.ConditionSet
	for _, now := range []time.Time{day(1, 1), day(2, 29), day(7, 4), day(12, 31)} {
		assert.True(t, conditions.ShouldRun(set, now), "empty set on %s", now.Format("01-02"))
	}
}

func TestShouldRun_DateMatch(t *testing.T) {
	set := conditions.ConditionSet{DateMatch: []string{"07-04", "12-25"}}
	assert.True(t, conditions.ShouldRun(set, day(7, 4)))
	assert.True(t, conditions.ShouldRun(set, day(12, 25)))
	assert.False(t, conditions.ShouldRun(set, day(7, 5)))
}

func TestShouldRun_DateRange(t *testing.T) {
	tests := []struct {
		name string
		rng  []string
		now  time.Time
		want bool
	}{
		{"inside plain range", []string{"06-01", "06-30"}, day(6, 15), true},
		{"range start inclusive", []string{"06-01", "06-30"}, day(6, 1), true},
		{"range end inclusive", []string{"06-01", "06-30"}, day(6, 30), true},
		{"outside plain range", []string{"06-01", "06-30"}, day(7, 1), false},
		{"wraparound december", []string{"12-20", "01-10"}, day(12, 25), true},
		{"wraparound january", []string{"12-20", "01-10"}, day(1, 5), true},
		{"wraparound summer", []string{"12-20", "01-10"}, day(6, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := conditions.ConditionSet{DateRange: tt.rng}
			assert.Equal(t, tt.want, conditions.ShouldRun(set, tt.now))
		})
	}
}

func TestShouldRun_DayOfWeekStartsOnSunday(t *testing.T) {
	weekend := conditions.ConditionSet{DayOfWeek: []int{0, 6}}

	// 2024-06-15 is a Saturday, 2024-06-16 a Sunday, 2024-06-17 a Monday.
	assert.True(t, conditions.ShouldRun(weekend, day(6, 15)))
	assert.True(t, conditions.ShouldRun(weekend, day(6, 16)))
	assert.False(t, conditions.ShouldRun(weekend, day(6, 17)))

	monday := conditions.ConditionSet{DayOfWeek: []int{1}}
	assert.True(t, conditions.ShouldRun(monday, day(6, 17)))
}

func TestShouldRun_Months(t *testing.T) {
	set := conditions.ConditionSet{Months: []int{12, 1}}
	assert.True(t, conditions.ShouldRun(set, day(12, 3)))
	assert.True(t, conditions.ShouldRun(set, day(1, 30)))
	assert.False(t, conditions.ShouldRun(set, day(3, 1)))
}

func TestShouldRun_AndAcrossKinds(t *testing.T) {
	set := conditions.ConditionSet{
		Months:    []int{6},
		DayOfWeek: []int{6},
	}
	assert.True(t, conditions.ShouldRun(set, day(6, 15)), "saturday in june")
	assert.False(t, conditions.ShouldRun(set, day(6, 17)), "monday in june")
	assert.False(t, conditions.ShouldRun(set, time.Date(2024, 7, 6, 9, 0, 0, 0, time.UTC)), "saturday in july")
}

func TestShouldRun_MalformedEntriesAreSkipped(t *testing.T) {
	tests := []struct {
		name string
		set  conditions.ConditionSet
	}{
		{"bad date_match", conditions.ConditionSet{DateMatch: []string{"christmas", "13-45"}}},
		{"date_range with one bound", conditions.ConditionSet{DateRange: []string{"01-01"}}},
		{"date_range not MM-DD", conditions.ConditionSet{DateRange: []string{"jan", "feb"}}},
		{"day_of_week out of range", conditions.ConditionSet{DayOfWeek: []int{7, -1}}},
		{"months out of range", conditions.ConditionSet{Months: []int{0, 13}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, conditions.ShouldRun(tt.set, day(3, 14)))
		})
	}

	// valid entries still apply when mixed with malformed ones
	mixed := conditions.ConditionSet{DateMatch: []string{"nope", "03-14"}}
	assert.True(t, conditions.ShouldRun(mixed, day(3, 14)))
	assert.False(t, conditions.ShouldRun(mixed, day(3, 15)))
}

func TestEvaluator(t *testing.T) {
	assert.Nil(t, conditions.NewEvaluator(conditions.ConditionSet{}))

	var none *conditions.Evaluator
	assert.True(t, none.ShouldRun(day(1, 1)))

	ev := conditions.NewEvaluator(conditions.ConditionSet{Months: []int{2}})
	assert.True(t, ev.ShouldRun(day(2, 10)))
	assert.False(t, ev.ShouldRun(day(4, 10)))
}

func TestDescribe(t *testing.T) {
	set := conditions.ConditionSet{
		DateMatch: []string{"12-25", "bogus"},
		DateRange: []string{"12-20", "01-10"},
		DayOfWeek: []int{0, 6, 9},
		Months:    []int{12},
	}
	assert.Equal(t, "dates=12-25; range=12-20..01-10; days=Sun,Sat; months=12", set.Describe())
	assert.Equal(t, "", conditions.ConditionSet{}.Describe())
}
