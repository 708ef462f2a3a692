package interchange

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Date is a calendar date without time of day or zone.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day and zone of t, keeping its wall-clock date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) String() string { return d.t.Format(DateLayout) }

// TimeOfDay is a wall-clock time with second precision.
type TimeOfDay struct {
	seconds int
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}
}

// ParseTimeOfDay accepts HH:MM and HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", s)
}

func (t TimeOfDay) Hour() int   { return t.seconds / 3600 }
func (t TimeOfDay) Minute() int { return t.seconds / 60 % 60 }
func (t TimeOfDay) Second() int { return t.seconds % 60 }

// Duration is the offset of t from midnight.
func (t TimeOfDay) Duration() time.Duration { return time.Duration(t.seconds) * time.Second }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// DateTime is a local date and time with second precision.
type DateTime struct {
	t time.Time
}

func DateTimeOf(t time.Time) DateTime {
	return DateTime{t: t.Truncate(time.Second)}
}

func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid date-time %q: expected YYYY-MM-DDTHH:MM:SS", s)
	}
	return DateTime{t: t}, nil
}

func (dt DateTime) Time() time.Time { return dt.t }

func (dt DateTime) IsZero() bool { return dt.t.IsZero() }

func (dt DateTime) String() string { return dt.t.Format(DateTimeLayout) }
