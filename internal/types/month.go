// Package types implements calendar types shared by the ledger and its reports.
package types

import (
	"fmt"
	"time"
)

// Month is a calendar month. Spending limits and the monthly expense
// totals are evaluated per Month.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the month t falls into in t's location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return Month{Year: year, Month: month}
}

// ParseMonth reads "YYYY-MM" or any day ParseDate accepts.
func ParseMonth(s string) (Month, error) {
	if t, err := time.Parse("2006-01", s); err == nil {
		return MonthOf(t), nil
	}

	d, err := ParseDate(s)
	if err != nil {
		return Month{}, err
	}
	return d.Month(), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// FirstDay returns the first day of the month.
func (m Month) FirstDay() Date {
	return NewDate(m.Year, m.Month, 1)
}

// LastDay returns the last day of the month.
func (m Month) LastDay() Date {
	return m.Next().FirstDay().AddDays(-1)
}

// Next returns the following month.
func (m Month) Next() Month {
	return NewMonth(m.Year, m.Month+1)
}

// Contains reports whether d is a day of the month.
func (m Month) Contains(d Date) bool {
	return d.Month() == m
}
