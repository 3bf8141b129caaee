package schedule

import "time"

// Trigger decides when a job runs next. Next must return a time strictly
// after `t` so a job can never be due twice within the same instant.
type Trigger interface {
	Next(t time.Time) time.Time
}

type every struct {
	interval time.Duration
}

// Every fires at a fixed interval, counted from the previous due time.
func Every(interval time.Duration) Trigger {
	return every{interval: interval}
}

func (e every) Next(t time.Time) time.Time {
	return t.Add(e.interval)
}

type dailyAt struct {
	hour, min int
}

// DailyAt fires once a day at the given wall-clock time (UTC).
func DailyAt(hour, min int) Trigger {
	return dailyAt{hour: hour, min: min}
}

func (d dailyAt) Next(t time.Time) time.Time {
	t = t.UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), d.hour, d.min, 0, 0, time.UTC)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

type weeklyAt struct {
	weekday   time.Weekday
	hour, min int
}

// WeeklyAt fires once a week on the given weekday at the given wall-clock
// time (UTC).
func WeeklyAt(weekday time.Weekday, hour, min int) Trigger {
	return weeklyAt{weekday: weekday, hour: hour, min: min}
}

func (w weeklyAt) Next(t time.Time) time.Time {
	t = t.UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), w.hour, w.min, 0, 0, time.UTC)
	days := (int(w.weekday) - int(t.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
