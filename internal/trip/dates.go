package trip

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Dates is the trip calendar the scheduled notifications are gated on.
// Start and End are midnight of the first and last trip day in Location.
type Dates struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// Window is an inclusive time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies inside w.
func (w Window) Contains(t time.Time) bool {
	return InWindow(t, w.Start, w.End)
}

// NewDates parses YYYY-MM-DD start and end dates in loc.
func NewDates(start, end string, loc *time.Location) (Dates, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(dateLayout, start, loc)
	if err != nil {
		return Dates{}, fmt.Errorf("parsing trip start %q: %w", start, err)
	}
	e, err := time.ParseInLocation(dateLayout, end, loc)
	if err != nil {
		return Dates{}, fmt.Errorf("parsing trip end %q: %w", end, err)
	}
	if e.Before(s) {
		return Dates{}, fmt.Errorf("trip end %s is before start %s", end, start)
	}
	return Dates{Start: s, End: e, Location: loc}, nil
}

// InWindow reports whether start <= now <= end.
func InWindow(now, start, end time.Time) bool {
	return !now.Before(start) && !now.After(end)
}

// RestaurantWindow opens a week before the trip and closes at the end of its last day.
func (d Dates) RestaurantWindow() Window {
	return Window{Start: d.Start.AddDate(0, 0, -7), End: d.endOfTrip()}
}

// WeatherWindow opens one calendar month before the trip and closes at the end of its last day.
func (d Dates) WeatherWindow() Window {
	return Window{Start: d.Start.AddDate(0, -1, 0), End: d.endOfTrip()}
}

// endOfTrip is the last instant of the trip's final day.
func (d Dates) endOfTrip() time.Time {
	y, m, day := d.End.Date()
	return time.Date(y, m, day+1, 0, 0, 0, 0, d.location()).Add(-time.Nanosecond)
}

func (d Dates) location() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

// DayMonthKey formats t as "day.month" without zero padding, in the trip location.
func (d Dates) DayMonthKey(t time.Time) string {
	return DayMonthKey(t.In(d.location()))
}

// DayMonthKey formats t as "day.month" without zero padding, e.g. "20.1" for January 20th.
func DayMonthKey(t time.Time) string {
	return fmt.Sprintf("%d.%d", t.Day(), int(t.Month()))
}
