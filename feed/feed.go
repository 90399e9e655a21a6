// SPDX-License-Identifier: MIT

package feed

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jamespfennell/gtfs"
)

// ErrBadDate indicates a calendar date that is not a valid yyyymmdd value.
var ErrBadDate = errors.New("feed: invalid calendar date")

// Load reads and parses the GTFS archive at path.
func Load(path string) (*gtfs.Static, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	static, err := gtfs.ParseStatic(content, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("feed: parse %s: %w", path, err)
	}
	return static, nil
}

// ParseDate converts a yyyymmdd integer to a date.
func ParseDate(date int) (time.Time, error) {
	t, err := time.Parse("20060102", fmt.Sprintf("%08d", date))
	if err != nil || date < 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrBadDate, date)
	}
	return t, nil
}

// ymd folds t to a yyyymmdd integer in its own location.
func ymd(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ActiveOn reports whether svc runs on date (yyyymmdd): the weekday flag is
// set and date lies within the start and end dates, or date is an added
// exception. A removed exception always wins.
func ActiveOn(svc *gtfs.Service, date int) bool {
	day, err := ParseDate(date)
	if err != nil || svc == nil {
		return false
	}
	for _, d := range svc.RemovedDates {
		if ymd(d) == date {
			return false
		}
	}
	for _, d := range svc.AddedDates {
		if ymd(d) == date {
			return true
		}
	}
	if date < ymd(svc.StartDate) || date > ymd(svc.EndDate) {
		return false
	}

	switch day.Weekday() {
	case time.Monday:
		return svc.Monday
	case time.Tuesday:
		return svc.Tuesday
	case time.Wednesday:
		return svc.Wednesday
	case time.Thursday:
		return svc.Thursday
	case time.Friday:
		return svc.Friday
	case time.Saturday:
		return svc.Saturday
	default:
		return svc.Sunday
	}
}

// FilterDay returns the trips of static whose service runs on date, in feed
// order.
func FilterDay(static *gtfs.Static, date int) ([]*gtfs.ScheduledTrip, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	active := make(map[*gtfs.Service]bool)
	out := make([]*gtfs.ScheduledTrip, 0, len(static.Trips))
	for i := range static.Trips {
		trip := &static.Trips[i]
		on, seen := active[trip.Service]
		if !seen {
			on = ActiveOn(trip.Service, date)
			active[trip.Service] = on
		}
		if on {
			out = append(out, trip)
		}
	}
	return out, nil
}
