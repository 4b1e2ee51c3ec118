// Package conditions evaluates calendar conditions that gate providers and rotation windows.
//
// A ConditionSet combines up to four kinds of checks with AND semantics:
//   - date_match: today's MM-DD is listed
//   - date_range: today's MM-DD falls in [start, end], wrapping over new year when start > end
//   - day_of_week: 0=Sunday .. 6=Saturday
//   - months: 1=January .. 12=December
//
// A kind that is absent or malformed is skipped, never treated as a failure.
package conditions
