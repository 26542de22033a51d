package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeNormalizer_ToLocal(t *testing.T) {
	n := newLimaNormalizer(t)

	local := n.ToLocal(at(t, "2024-06-04T03:30:00Z"))
	assert.Equal(t, "2024-06-03", local.Date.String())
	assert.Equal(t, 22, local.WallClock.Hour())
	assert.Equal(t, "2024-06-03 22:30:00", n.Format(at(t, "2024-06-04T03:30:00Z")))
}

func TestTimeNormalizer_SameLocalDaySameDate(t *testing.T) {
	n := newLimaNormalizer(t)

	// 00:00:00 and 23:59:59 local on 2024-06-03
	start := at(t, "2024-06-03T05:00:00Z")
	end := at(t, "2024-06-04T04:59:59Z")
	for instant := start; !instant.After(end); instant = instant.Add(17 * time.Minute) {
		assert.Equal(t, "2024-06-03", n.ToLocal(instant).Date.String(), instant)
	}
	assert.Equal(t, "2024-06-04", n.ToLocal(end.Add(time.Second)).Date.String())
}

func TestTimeNormalizer_PeriodKeyUsesLocalDay(t *testing.T) {
	n := newLimaNormalizer(t)

	// Sunday 2024-06-09 23:00 local is Monday 04:00 UTC.
	sundayNight := at(t, "2024-06-10T04:00:00Z")
	assert.Equal(t, PeriodKey{Year: 2024, Week: 23}, n.PeriodKey(sundayNight))
	assert.Equal(t, PeriodKey{Year: 2024, Week: 24}, n.PeriodKey(sundayNight.Add(time.Hour)))
}

func TestTimeNormalizer_ParseLocal(t *testing.T) {
	n := newLimaNormalizer(t)

	got, err := n.ParseLocal("2024-06-03 08:00:00")
	assert.NoError(t, err)
	assert.Equal(t, at(t, "2024-06-03T13:00:00Z"), got)

	_, err = n.ParseLocal("03/06/2024 08:00")
	assert.Error(t, err)
}

func TestTimeNormalizer_CalendarMonthOf(t *testing.T) {
	n := newLimaNormalizer(t)

	year, month := n.CalendarMonthOf(day(t, "2024-04-30"))
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.April, month)
}

func TestNewTimeNormalizer_UnknownZone(t *testing.T) {
	_, err := NewTimeNormalizer("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	d := day(t, "2024-02-28")
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))

	text, err := d.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "2024-02-28", string(text))

	var parsed Date
	assert.NoError(t, parsed.UnmarshalText([]byte("2024-12-31")))
	assert.Equal(t, Date{Year: 2024, Month: time.December, Day: 31}, parsed)
	assert.Error(t, parsed.UnmarshalText([]byte("2024-13-01")))
}
