package catalogue

import "time"

// Cumulative day counts at the start of each month.
var (
	monthMarkerNormal = [12]float64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	monthMarkerLeap   = [12]float64{0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}
)

const secondsPerDay = 86400.0

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DecimalTime converts a UTC instant to a fractional-year value, accounting
// for leap years.
func DecimalTime(t time.Time) float64 {
	t = t.UTC()
	year := t.Year()
	marker := monthMarkerNormal
	yearLength := 365.0 * secondsPerDay
	if isLeapYear(year) {
		marker = monthMarkerLeap
		yearLength = 366.0 * secondsPerDay
	}
	seconds := float64(t.Second()) + float64(t.Nanosecond())/1e9
	dayCount := marker[int(t.Month())-1] + float64(t.Day()) - 1
	yearSeconds := dayCount*secondsPerDay + seconds +
		60.0*float64(t.Minute()) + 3600.0*float64(t.Hour())
	return float64(year) + yearSeconds/yearLength
}
