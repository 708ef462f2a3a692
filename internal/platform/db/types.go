package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/medcare/medcare/internal/platform/interchange"
)

// TextArray returns s, or an empty slice for nil, so NOT NULL TEXT[]
// columns never receive NULL.
func TextArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Date converts a calendar date to the value bound to DATE parameters.
func Date(d interchange.Date) time.Time {
	return d.Time()
}

// OptionalDate converts a nullable calendar date.
func OptionalDate(d *interchange.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

// ScannedDate converts a scanned nullable DATE.
func ScannedDate(t *time.Time) *interchange.Date {
	if t == nil {
		return nil
	}
	d := interchange.DateOf(*t)
	return &d
}

// Time converts a wall-clock time to a TIME parameter.
func Time(t interchange.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

// TimeOfDay converts a scanned TIME value.
func TimeOfDay(t pgtype.Time) interchange.TimeOfDay {
	d := time.Duration(t.Microseconds) * time.Microsecond
	return interchange.NewTimeOfDay(int(d/time.Hour), int(d/time.Minute%60), int(d/time.Second%60))
}
