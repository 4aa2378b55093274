package dashboard

import "time"

// TodayRange returns the half-open interval [start, end) covering the calendar
// day containing now, in now's location. end is the start of the next day, so
// days with a daylight-saving shift are 23 or 25 hours long.
func TodayRange(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	end = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return start, end
}
