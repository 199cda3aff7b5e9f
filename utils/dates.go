// utils/dates.go
package utils

import "time"

const ServiceDateLayout = "2006-01-02"

// DayStartAfter returns local midnight `days` calendar days after t, in loc.
// It uses calendar arithmetic so DST shifts do not move the boundary.
func DayStartAfter(t time.Time, loc *time.Location, days int) time.Time {
	local := t.In(loc)
	year, month, day := local.Date()
	return time.Date(year, month, day+days, 0, 0, 0, 0, loc)
}

// ServiceDate is the calendar day of t in loc, used as the daily cutover key.
func ServiceDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ServiceDateLayout)
}
