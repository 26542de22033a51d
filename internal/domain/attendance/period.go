package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const periodFilenamePrefix = "registros_"

// PeriodKey identifies one ledger: an ISO-8601 year and week number.
type PeriodKey struct {
	Year int
	Week int
}

func PeriodKeyOf(d Date) PeriodKey {
	year, week := d.Midnight(time.UTC).ISOWeek()
	return PeriodKey{Year: year, Week: week}
}

// String renders the key as "2024-W18".
func (k PeriodKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
}

func ParsePeriodKey(s string) (PeriodKey, error) {
	yearPart, weekPart, ok := strings.Cut(strings.TrimSpace(s), "-W")
	if !ok {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	key := PeriodKey{Year: year, Week: week}
	if !key.Valid() {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	return key, nil
}

// Valid reports whether the week exists in its ISO year.
func (k PeriodKey) Valid() bool {
	if k.Year < 1 || k.Week < 1 || k.Week > 53 {
		return false
	}
	return PeriodKeyOf(k.FirstDay()) == k
}

// FirstDay returns the Monday that opens the week.
func (k PeriodKey) FirstDay() Date {
	// January 4th always falls in ISO week 1.
	jan4 := time.Date(k.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(k.Week-1)*7)
	return DateOf(monday)
}

func (k PeriodKey) LastDay() Date {
	return k.FirstDay().AddDays(6)
}

func (k PeriodKey) Days() []Date {
	first := k.FirstDay()
	days := make([]Date, 7)
	for i := range days {
		days[i] = first.AddDays(i)
	}
	return days
}

func (k PeriodKey) Contains(d Date) bool {
	return PeriodKeyOf(d) == k
}

func (k PeriodKey) Less(other PeriodKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

// PeriodFilename is the canonical name the stores use for a ledger.
func PeriodFilename(k PeriodKey) string {
	return fmt.Sprintf("%s%04d_W%02d", periodFilenamePrefix, k.Year, k.Week)
}

// ParsePeriodFilename reverses PeriodFilename. Extensions are ignored.
func ParsePeriodFilename(name string) (PeriodKey, error) {
	base := name
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	rest, ok := strings.CutPrefix(base, periodFilenamePrefix)
	if !ok {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, name)
	}
	return ParsePeriodKey(strings.Replace(rest, "_", "-", 1))
}

// MonthOverlaps attributes a week to the month containing its Monday.
func MonthOverlaps(k PeriodKey, year int, month time.Month) bool {
	return k.FirstDay().InMonth(year, month)
}

// PeriodsAttributedToMonth lists the weeks whose Monday falls in the month.
func PeriodsAttributedToMonth(year int, month time.Month) []PeriodKey {
	var keys []PeriodKey
	for _, k := range PeriodsTouchingMonth(year, month) {
		if MonthOverlaps(k, year, month) {
			keys = append(keys, k)
		}
	}
	return keys
}

// PeriodsTouchingMonth lists every week holding at least one day of the month, in order.
func PeriodsTouchingMonth(year int, month time.Month) []PeriodKey {
	var keys []PeriodKey
	seen := make(map[PeriodKey]bool)
	for d := (Date{Year: year, Month: month, Day: 1}); d.InMonth(year, month); d = d.AddDays(1) {
		k := PeriodKeyOf(d)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
