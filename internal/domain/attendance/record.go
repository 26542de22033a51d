package attendance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NotCheckedOutMarker fills CheckOut and WorkedDuration for open rows in the flat table.
// It only exists at the storage boundary; rows carry nil instead.
const NotCheckedOutMarker = "No marcó salida"

// RecordHeader is the column order of the flat ledger table.
var RecordHeader = []string{"Worker", "Date", "CheckIn", "CheckOut", "WorkedDuration"}

// Record is one row of the flat ledger table, every column as text.
type Record struct {
	Worker         string
	Date           string
	CheckIn        string
	CheckOut       string
	WorkedDuration string
}

func (r Record) Values() []string {
	return []string{r.Worker, r.Date, r.CheckIn, r.CheckOut, r.WorkedDuration}
}

// RecordFromValues maps a table row to a Record; missing trailing cells read as empty.
func RecordFromValues(values []string) Record {
	cell := func(i int) string {
		if i < len(values) {
			return strings.TrimSpace(values[i])
		}
		return ""
	}
	return Record{
		Worker:         cell(0),
		Date:           cell(1),
		CheckIn:        cell(2),
		CheckOut:       cell(3),
		WorkedDuration: cell(4),
	}
}

// FormatDuration renders d as H:MM:SS.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int64(d / time.Hour)
	m := int64(d%time.Hour) / int64(time.Minute)
	s := int64(d%time.Minute) / int64(time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}

// ParseDuration reads an H:MM:SS value.
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var fields [3]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		fields[i] = v
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}

// EncodeRow renders a row for the flat table.
func (n *TimeNormalizer) EncodeRow(row Row) Record {
	rec := Record{
		Worker: row.Worker,
		Date:   row.Date.String(),
	}
	if row.CheckIn != nil {
		rec.CheckIn = n.Format(*row.CheckIn)
	}
	if row.CheckOut != nil {
		rec.CheckOut = n.Format(*row.CheckOut)
	} else {
		rec.CheckOut = NotCheckedOutMarker
	}
	if row.WorkedDuration != nil {
		rec.WorkedDuration = FormatDuration(*row.WorkedDuration)
	} else {
		rec.WorkedDuration = NotCheckedOutMarker
	}
	return rec
}

// DecodeRecord parses a flat table row. The worked duration is recomputed from the
// timestamps; a stored value that disagrees is a data integrity error.
func (n *TimeNormalizer) DecodeRecord(rec Record) (Row, error) {
	fail := func(field string, err error) (Row, error) {
		return Row{}, &RecordError{Record: rec, Field: field, Err: err}
	}

	if rec.Worker == "" {
		return fail("Worker", ErrInvalidWorker)
	}
	date, err := ParseDate(rec.Date)
	if err != nil {
		return fail("Date", err)
	}
	row := Row{Worker: rec.Worker, Date: date}

	if rec.CheckIn != "" {
		in, err := n.ParseLocal(rec.CheckIn)
		if err != nil {
			return fail("CheckIn", err)
		}
		if n.ToLocal(in).Date != date {
			return fail("CheckIn", ErrTimestampOffDate)
		}
		row.CheckIn = &in
	}
	if rec.CheckOut != "" && rec.CheckOut != NotCheckedOutMarker {
		out, err := n.ParseLocal(rec.CheckOut)
		if err != nil {
			return fail("CheckOut", err)
		}
		if n.ToLocal(out).Date != date {
			return fail("CheckOut", ErrTimestampOffDate)
		}
		row.CheckOut = &out
	}

	switch {
	case row.CheckIn == nil && row.CheckOut == nil:
		return fail("CheckIn", errors.New("row has neither check-in nor check-out"))
	case row.CheckIn == nil:
		return fail("CheckIn", ErrNoCheckInYet)
	case row.CheckOut == nil:
		if rec.WorkedDuration != "" && rec.WorkedDuration != NotCheckedOutMarker {
			return fail("WorkedDuration", errors.New("duration present on an open row"))
		}
		return row, nil
	}

	worked := row.CheckOut.Sub(*row.CheckIn)
	if worked <= 0 {
		return fail("CheckOut", ErrNonPositiveDuration)
	}
	if rec.WorkedDuration != "" {
		stored, err := ParseDuration(rec.WorkedDuration)
		if err != nil {
			return fail("WorkedDuration", err)
		}
		if stored != worked {
			return fail("WorkedDuration", fmt.Errorf("stored %s, computed %s", rec.WorkedDuration, FormatDuration(worked)))
		}
	}
	row.WorkedDuration = &worked
	return row, nil
}

// LedgerFromRecords rebuilds a ledger from its flat table. Records that fail to decode
// are kept on the ledger as rejected and reported in the returned slice.
func (n *TimeNormalizer) LedgerFromRecords(key PeriodKey, version int64, records []Record) (*Ledger, []*RecordError) {
	ledger := NewLedger(key)
	ledger.Version = version

	var problems []*RecordError
	for _, rec := range records {
		row, err := n.DecodeRecord(rec)
		if err == nil {
			err = ledger.restore(row)
			if err != nil {
				err = &RecordError{Record: rec, Field: "Date", Err: err}
			}
		}
		if err != nil {
			var recErr *RecordError
			if !errors.As(err, &recErr) {
				recErr = &RecordError{Record: rec, Err: err}
			}
			ledger.rejected = append(ledger.rejected, rec)
			problems = append(problems, recErr)
		}
	}
	return ledger, problems
}

// Records renders the whole ledger as its flat table: valid rows first, in order,
// then rejected records as they were read.
func (n *TimeNormalizer) Records(l *Ledger) []Record {
	rows := l.AllRows()
	records := make([]Record, 0, len(rows)+len(l.rejected))
	for _, row := range rows {
		records = append(records, n.EncodeRow(row))
	}
	return append(records, l.rejected...)
}
