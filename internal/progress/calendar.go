package progress

import "time"

// Calendar resolves local calendar days and weeks.
type Calendar struct {
	Location     *time.Location
	FirstWeekday time.Weekday
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StartOfDay truncates t to midnight in the calendar's location.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc())
}

// DaysBetween counts whole calendar days from a to b. It ignores the
// time of day and DST shifts, so 23:59 to 00:01 the next day is 1.
func (c Calendar) DaysBetween(a, b time.Time) int {
	ay, am, ad := a.In(c.loc()).Date()
	by, bm, bd := b.In(c.loc()).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// StartOfWeek returns midnight of the most recent FirstWeekday on or
// before t.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	back := (int(day.Weekday()) - int(c.FirstWeekday) + 7) % 7
	y, m, d := day.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, c.loc())
}

// Weekday returns t's weekday as 1=Sunday through 7=Saturday.
func (c Calendar) Weekday(t time.Time) int {
	return int(t.In(c.loc()).Weekday()) + 1
}
