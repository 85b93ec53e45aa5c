// internal/domain/models/weekday.go
package models

// Weekdays in display order. Stored lowercased.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// WeekdayIndex returns the position of day in Weekdays, or -1.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// IsValidWeekday reports whether day is a known lowercase weekday name.
func IsValidWeekday(day string) bool {
	return WeekdayIndex(day) >= 0
}
