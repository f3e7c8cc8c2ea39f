package model

import "time"

const DateLayout = "2006-01-02"

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func FormatDate(t time.Time) string { return Day(t).Format(DateLayout) }

// WeekBounds returns the Monday on or before today and the Sunday six days later.
func WeekBounds(today time.Time) (start, end time.Time) {
	d := Day(today)
	fromMonday := (int(d.Weekday()) + 6) % 7
	start = d.AddDate(0, 0, -fromMonday)
	return start, start.AddDate(0, 0, 6)
}
