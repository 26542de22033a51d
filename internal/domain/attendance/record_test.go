package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAndParseDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		text string
	}{
		{0, "0:00:00"},
		{9*time.Hour + 30*time.Minute, "9:30:00"},
		{8*time.Hour + 45*time.Minute, "8:45:00"},
		{49*time.Hour + 5*time.Second, "49:00:05"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.text, FormatDuration(tc.d))
		parsed, err := ParseDuration(tc.text)
		require.NoError(t, err)
		assert.Equal(t, tc.d, parsed)
	}

	for _, bad := range []string{"", "9:30", "9:60:00", "a:00:00", "-1:00:00", NotCheckedOutMarker} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestEncodeRow(t *testing.T) {
	n := newLimaNormalizer(t)
	in := at(t, "2024-06-03T08:00:00-05:00")
	out := at(t, "2024-06-03T17:30:00-05:00")
	worked := out.Sub(in)

	complete := n.EncodeRow(Row{Worker: "ana", Date: day(t, "2024-06-03"), CheckIn: &in, CheckOut: &out, WorkedDuration: &worked})
	assert.Equal(t, Record{
		Worker:         "ana",
		Date:           "2024-06-03",
		CheckIn:        "2024-06-03 08:00:00",
		CheckOut:       "2024-06-03 17:30:00",
		WorkedDuration: "9:30:00",
	}, complete)

	open := n.EncodeRow(Row{Worker: "ana", Date: day(t, "2024-06-03"), CheckIn: &in})
	assert.Equal(t, NotCheckedOutMarker, open.CheckOut)
	assert.Equal(t, NotCheckedOutMarker, open.WorkedDuration)
}

func TestDecodeRecord(t *testing.T) {
	n := newLimaNormalizer(t)

	row, err := n.DecodeRecord(Record{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 08:00:00", CheckOut: "2024-06-03 17:30:00", WorkedDuration: "9:30:00"})
	require.NoError(t, err)
	assert.Equal(t, at(t, "2024-06-03T13:00:00Z"), *row.CheckIn)
	assert.Equal(t, 9*time.Hour+30*time.Minute, *row.WorkedDuration)

	open, err := n.DecodeRecord(Record{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 08:00:00", CheckOut: NotCheckedOutMarker, WorkedDuration: NotCheckedOutMarker})
	require.NoError(t, err)
	assert.True(t, open.Open())
	assert.Nil(t, open.WorkedDuration)
}

func TestDecodeRecord_Invalid(t *testing.T) {
	n := newLimaNormalizer(t)
	tests := []struct {
		name  string
		rec   Record
		field string
	}{
		{"no worker", Record{Date: "2024-06-03", CheckIn: "2024-06-03 08:00:00"}, "Worker"},
		{"bad date", Record{Worker: "ana", Date: "03/06/2024", CheckIn: "2024-06-03 08:00:00"}, "Date"},
		{"bad check-in", Record{Worker: "ana", Date: "2024-06-03", CheckIn: "8am"}, "CheckIn"},
		{"empty row", Record{Worker: "ana", Date: "2024-06-03", CheckOut: NotCheckedOutMarker}, "CheckIn"},
		{"check-out only", Record{Worker: "ana", Date: "2024-06-03", CheckOut: "2024-06-03 17:00:00"}, "CheckIn"},
		{"negative", Record{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 17:00:00", CheckOut: "2024-06-03 08:00:00"}, "CheckOut"},
		{"duration mismatch", Record{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 08:00:00", CheckOut: "2024-06-03 17:00:00", WorkedDuration: "1:00:00"}, "WorkedDuration"},
		{"check-in on another day", Record{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-07 08:00:00", CheckOut: "2024-06-07 09:00:00", WorkedDuration: "1:00:00"}, "CheckIn"},
		{"check-out on another day", Record{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 08:00:00", CheckOut: "2024-06-04 09:00:00", WorkedDuration: "25:00:00"}, "CheckOut"},
		{"duration on open row", Record{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 08:00:00", WorkedDuration: "1:00:00"}, "WorkedDuration"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := n.DecodeRecord(tc.rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnparsableRecord)

			var recErr *RecordError
			require.ErrorAs(t, err, &recErr)
			assert.Equal(t, tc.field, recErr.Field)
		})
	}
}

func TestLedgerFromRecords_KeepsRejected(t *testing.T) {
	n := newLimaNormalizer(t)
	key := PeriodKey{2024, 23}
	records := []Record{
		{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 08:00:00", CheckOut: "2024-06-03 12:00:00", WorkedDuration: "4:00:00"},
		{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-03 09:00:00", CheckOut: NotCheckedOutMarker, WorkedDuration: NotCheckedOutMarker},
		{Worker: "luis", Date: "junio", CheckIn: "2024-06-03 08:00:00"},
		{Worker: "luis", Date: "2024-06-12", CheckIn: "2024-06-12 08:00:00"},
		{Worker: "luis", Date: "2024-06-04", CheckIn: "2024-06-04 08:00:00", CheckOut: NotCheckedOutMarker, WorkedDuration: NotCheckedOutMarker},
	}

	l, problems := n.LedgerFromRecords(key, 7, records)
	assert.Equal(t, int64(7), l.Version)
	assert.Equal(t, 2, l.Len())
	assert.Len(t, problems, 3)
	assert.Len(t, l.Rejected(), 3)

	out := n.Records(l)
	require.Len(t, out, 5)
	assert.Equal(t, records[0], out[0])
	assert.Equal(t, records[4], out[1])
	assert.Equal(t, records[1:4], out[2:])
}

func TestLedgerFromRecords_RejectsTimestampsOffTheRowDate(t *testing.T) {
	n := newLimaNormalizer(t)
	records := []Record{
		{Worker: "ana", Date: "2024-06-03", CheckIn: "2024-06-07 08:00:00", CheckOut: "2024-06-07 09:00:00", WorkedDuration: "1:00:00"},
	}

	l, problems := n.LedgerFromRecords(PeriodKey{2024, 23}, 1, records)
	assert.Equal(t, 0, l.Len())
	require.Len(t, problems, 1)
	assert.ErrorIs(t, problems[0], ErrTimestampOffDate)
	assert.Equal(t, records, l.Rejected())

	require.NoError(t, l.UpsertCheckIn("ana", DateOf(at(t, "2024-06-07T00:00:00Z")), at(t, "2024-06-07T13:00:00Z")))
	assert.Equal(t, 1, l.Len())
}
