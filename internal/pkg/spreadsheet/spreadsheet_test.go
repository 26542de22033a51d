package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLedgerWorkbook_RoundTrip(t *testing.T) {
	records := []attendance.Record{
		{Worker: "ana", Date: "2024-04-29", CheckIn: "2024-04-29 08:00:00", CheckOut: "2024-04-29 17:30:00", WorkedDuration: "9:30:00"},
		{Worker: "luis", Date: "2024-04-29", CheckIn: "2024-04-29 09:15:00", CheckOut: attendance.NotCheckedOutMarker, WorkedDuration: attendance.NotCheckedOutMarker},
	}

	data, err := EncodeLedger(records, 7)
	require.NoError(t, err)

	got, version, err := DecodeLedger(data)
	require.NoError(t, err)
	assert.Equal(t, int64(7), version)
	assert.Equal(t, records, got)
}

func TestDecodeLedger_EmptyTable(t *testing.T) {
	data, err := EncodeLedger(nil, 0)
	require.NoError(t, err)

	got, version, err := DecodeLedger(data)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, version)
}

func TestDecodeLedger_SingleSheetWithoutMeta(t *testing.T) {
	file := excelize.NewFile()
	defer file.Close()
	require.NoError(t, writeRows(file, file.GetSheetName(0), [][]string{
		attendance.RecordHeader,
		{"ana", "2024-04-29", "2024-04-29 08:00:00"},
		{},
	}))
	buf, err := file.WriteToBuffer()
	require.NoError(t, err)

	got, version, err := DecodeLedger(buf.Bytes())
	require.NoError(t, err)
	assert.Zero(t, version)
	require.Len(t, got, 1)
	assert.Equal(t, "ana", got[0].Worker)
	assert.Equal(t, "", got[0].CheckOut)
}

func TestDecodeLedger_Malformed(t *testing.T) {
	_, _, err := DecodeLedger([]byte("not a workbook"))
	assert.ErrorIs(t, err, ErrMalformedWorkbook)

	file := excelize.NewFile()
	defer file.Close()
	require.NoError(t, writeRows(file, file.GetSheetName(0), [][]string{{"Name", "Day"}}))
	buf, err := file.WriteToBuffer()
	require.NoError(t, err)

	_, _, err = DecodeLedger(buf.Bytes())
	assert.ErrorIs(t, err, ErrMalformedWorkbook)
}

func TestEncodeMonthlyReport(t *testing.T) {
	n, err := attendance.NewTimeNormalizer(attendance.DefaultTimezone)
	require.NoError(t, err)

	in := time.Date(2024, 5, 2, 13, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	worked := out.Sub(in)
	date, err := attendance.ParseDate("2024-05-02")
	require.NoError(t, err)

	report := attendance.MonthlyReport{
		Year:  2024,
		Month: time.May,
		Rows: []attendance.Row{
			{Worker: "ana", Date: date, CheckIn: &in, CheckOut: &out, WorkedDuration: &worked},
		},
		Summary: []attendance.WorkerTotal{{Worker: "ana", Total: worked, CompleteDays: 1}},
		Skipped: []*attendance.RecordError{{
			Record: attendance.Record{Worker: "luis", Date: "2024-05-03", CheckIn: "garbage"},
			Field:  "CheckIn",
			Err:    attendance.ErrUnparsableRecord,
		}},
	}

	data, err := EncodeMonthlyReport(report, n)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(RecordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ana", "2024-05-02", "2024-05-02 08:00:00", "2024-05-02 16:00:00", "8:00:00"}, rows[1])

	summary, err := file.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, []string{"ana", "8:00:00", "1", "0"}, summary[1])

	skipped, err := file.GetRows(SkippedSheet)
	require.NoError(t, err)
	require.Len(t, skipped, 2)
	assert.Equal(t, "luis", skipped[1][0])
	assert.Equal(t, "CheckIn", skipped[1][5])
}

func TestEncodeMonthlyReport_NoSkippedSheetWhenClean(t *testing.T) {
	n, err := attendance.NewTimeNormalizer(attendance.DefaultTimezone)
	require.NoError(t, err)

	data, err := EncodeMonthlyReport(attendance.MonthlyReport{Year: 2024, Month: time.May}, n)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	idx, err := file.GetSheetIndex(SkippedSheet)
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
}
