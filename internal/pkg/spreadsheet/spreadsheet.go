package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	RecordsSheet = "Registros"
	MetaSheet    = "Meta"
	SummarySheet = "Resumen"
	SkippedSheet = "Omitidos"
)

var ErrMalformedWorkbook = errors.New("malformed workbook")

// EncodeLedger writes a ledger's flat table. The snapshot version goes to a separate
// sheet so the table itself stays a plain five-column grid.
func EncodeLedger(records []attendance.Record, version int64) ([]byte, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), RecordsSheet); err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, attendance.RecordHeader)
	for _, rec := range records {
		rows = append(rows, rec.Values())
	}
	if err := writeRows(file, RecordsSheet, rows); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(MetaSheet); err != nil {
		return nil, err
	}
	if err := writeRows(file, MetaSheet, [][]string{{"Version", strconv.FormatInt(version, 10)}}); err != nil {
		return nil, err
	}

	return finish(file)
}

// DecodeLedger reads a workbook written by EncodeLedger. Workbooks without a Meta
// sheet decode with version 0, and the first sheet is used when Registros is absent.
func DecodeLedger(data []byte) ([]attendance.Record, int64, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer func() { _ = file.Close() }()

	sheet := RecordsSheet
	if idx, err := file.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = file.GetSheetName(0)
	}
	if sheet == "" {
		return nil, 0, fmt.Errorf("%w: no worksheet found", ErrMalformedWorkbook)
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: worksheet is empty", ErrMalformedWorkbook)
	}
	if !headerMatches(rows[0]) {
		return nil, 0, fmt.Errorf("%w: unexpected header %v", ErrMalformedWorkbook, rows[0])
	}

	var records []attendance.Record
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		records = append(records, attendance.RecordFromValues(row))
	}

	version, err := readVersion(file)
	if err != nil {
		return nil, 0, err
	}
	return records, version, nil
}

func readVersion(file *excelize.File) (int64, error) {
	if idx, err := file.GetSheetIndex(MetaSheet); err != nil || idx < 0 {
		return 0, nil
	}
	value, err := file.GetCellValue(MetaSheet, "B1")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	version, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid version %q", ErrMalformedWorkbook, value)
	}
	return version, nil
}

// EncodeMonthlyReport writes the merged rows, the per-worker summary and, when any
// stored row could not be read, the skipped records.
func EncodeMonthlyReport(report attendance.MonthlyReport, n *attendance.TimeNormalizer) ([]byte, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), RecordsSheet); err != nil {
		return nil, err
	}
	rows := [][]string{attendance.RecordHeader}
	for _, row := range report.Rows {
		rows = append(rows, n.EncodeRow(row).Values())
	}
	if err := writeRows(file, RecordsSheet, rows); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	summary := [][]string{{"Worker", "Total", "CompleteDays", "OpenDays"}}
	for _, t := range report.Summary {
		summary = append(summary, []string{
			t.Worker,
			attendance.FormatDuration(t.Total),
			strconv.Itoa(t.CompleteDays),
			strconv.Itoa(t.OpenDays),
		})
	}
	if err := writeRows(file, SummarySheet, summary); err != nil {
		return nil, err
	}

	if len(report.Skipped) > 0 {
		if _, err := file.NewSheet(SkippedSheet); err != nil {
			return nil, err
		}
		skipped := [][]string{append(append([]string{}, attendance.RecordHeader...), "Field", "Reason")}
		for _, s := range report.Skipped {
			skipped = append(skipped, append(s.Record.Values(), s.Field, s.Err.Error()))
		}
		if err := writeRows(file, SkippedSheet, skipped); err != nil {
			return nil, err
		}
	}

	return finish(file)
}

func writeRows(file *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func finish(file *excelize.File) ([]byte, error) {
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func headerMatches(row []string) bool {
	if len(row) < len(attendance.RecordHeader) {
		return false
	}
	for i, name := range attendance.RecordHeader {
		if !strings.EqualFold(strings.TrimSpace(row[i]), name) {
			return false
		}
	}
	return true
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
