package types

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a string cannot be read as a calendar day.
var ErrInvalidDate = errors.New("not a valid date")

// isoDate is the canonical representation of a Date.
const isoDate = "2006-01-02"

// dateLayouts are tried in order by ParseDate.
//
// Besides ISO dates and RFC3339 timestamps, US locale strings are accepted
// because older snapshots stored dates the way the browser displayed them.
var dateLayouts = []string{
	isoDate,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006, 3:04:05 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 02 2006",
}

// Date is a calendar day without time of day or location.
type Date time.Time

// NewDate returns the Date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day on which t occurs in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// Today returns the current calendar day as seen by the clock.
func Today(now func() time.Time) Date {
	return DateOf(now())
}

// ParseDate reads a calendar day from any of the supported layouts.
// Timestamps keep the day of their own offset.
func ParseDate(s string) (Date, error) {
	value := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return DateOf(t), nil
		}
	}

	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(isoDate)
}

// MarshalJSON implements the json.Marshaler interface.
// The zero date is written as an empty string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	if value == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Scan writes the value from the database.
func (d *Date) Scan(value interface{}) (err error) {
	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*d = DateOf(nullTime.Time)
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (d Date) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// GormDataType defines the data type used by gorm the type.
func (Date) GormDataType() string {
	return "date"
}

// IsZero reports if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// Equal reports whether d and e are the same day.
func (d Date) Equal(e Date) bool {
	return time.Time(d).Equal(time.Time(e))
}

// Before reports whether d is an earlier day than e.
func (d Date) Before(e Date) bool {
	return time.Time(d).Before(time.Time(e))
}

// After reports whether d is a later day than e.
func (d Date) After(e Date) bool {
	return time.Time(d).After(time.Time(e))
}

// AddDays returns the day n days after d.
func (d Date) AddDays(n int) Date {
	return Date(time.Time(d).AddDate(0, 0, n))
}

// Weekday returns the day of the week, Sunday being 0.
func (d Date) Weekday() time.Weekday {
	return time.Time(d).Weekday()
}

// StartOfWeek returns the Sunday on or before d.
func (d Date) StartOfWeek() Date {
	return d.AddDays(-int(d.Weekday()))
}

// Month returns the month the day is in.
func (d Date) Month() Month {
	return MonthOf(time.Time(d))
}

// Between reports whether d is in the closed interval [from, to].
// A zero bound is open.
func (d Date) Between(from, to Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}
