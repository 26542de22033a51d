package attendance

import (
	"fmt"
	"time"
	_ "time/tzdata" // America/Lima must resolve on hosts without a zoneinfo database
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	DefaultTimezone = "America/Lima"
)

// Clock is the single source of "now" for the attendance engine.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a function to Clock. Tests use it to pin time.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Date is a local calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Midnight returns the first instant of the day in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Midnight(time.UTC).AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// LocalTime is an instant viewed on the local wall clock.
type LocalTime struct {
	WallClock time.Time
	Date      Date
}

// TimeNormalizer owns every day and week boundary decision.
type TimeNormalizer struct {
	loc *time.Location
}

func NewTimeNormalizer(timezone string) (*TimeNormalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &TimeNormalizer{loc: loc}, nil
}

func (n *TimeNormalizer) Location() *time.Location {
	return n.loc
}

func (n *TimeNormalizer) ToLocal(instant time.Time) LocalTime {
	wall := instant.In(n.loc)
	return LocalTime{WallClock: wall, Date: DateOf(wall)}
}

// PeriodKey returns the ISO week of the local day containing instant.
func (n *TimeNormalizer) PeriodKey(instant time.Time) PeriodKey {
	return PeriodKeyOf(n.ToLocal(instant).Date)
}

func (n *TimeNormalizer) CalendarMonthOf(d Date) (int, time.Month) {
	return d.Year, d.Month
}

// Format renders instant as a local timestamp string.
func (n *TimeNormalizer) Format(instant time.Time) string {
	return instant.In(n.loc).Format(TimestampLayout)
}

// ParseLocal reads a local timestamp string and returns the UTC instant.
func (n *TimeNormalizer) ParseLocal(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, n.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
