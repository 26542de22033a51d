package attendance

import (
	"errors"
	"sort"
	"time"
)

// WeeklyTotal sums the worked duration of a worker's completed rows. Open rows count as zero.
func WeeklyTotal(l *Ledger, worker string) time.Duration {
	var total time.Duration
	for _, row := range l.rows {
		if row.Worker == worker && row.WorkedDuration != nil {
			total += *row.WorkedDuration
		}
	}
	return total
}

// SummaryAllWorkers totals every worker in the ledger, sorted by worker.
func SummaryAllWorkers(l *Ledger) []WorkerTotal {
	return Summarize(l.AllRows())
}

// Summarize totals rows per worker, sorted by worker.
func Summarize(rows []Row) []WorkerTotal {
	byWorker := make(map[string]*WorkerTotal)
	for _, row := range rows {
		t, ok := byWorker[row.Worker]
		if !ok {
			t = &WorkerTotal{Worker: row.Worker}
			byWorker[row.Worker] = t
		}
		switch {
		case row.WorkedDuration != nil:
			t.Total += *row.WorkedDuration
			t.CompleteDays++
		case row.Open():
			t.OpenDays++
		}
	}

	totals := make([]WorkerTotal, 0, len(byWorker))
	for _, t := range byWorker {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Worker < totals[j].Worker })
	return totals
}

// MonthlyMerge collects the rows of every ledger dated in the month. Rejected records
// that may belong to the month are returned as skipped instead of failing the merge.
func MonthlyMerge(ledgers []*Ledger, year int, month time.Month) ([]Row, []*RecordError) {
	var (
		merged  []Row
		skipped []*RecordError
		seen    = make(map[rowKey]bool)
	)
	for _, l := range ledgers {
		if l == nil {
			continue
		}
		for _, row := range l.AllRows() {
			key := rowKey{worker: row.Worker, date: row.Date}
			if !row.Date.InMonth(year, month) || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, row)
		}
		for _, rec := range l.rejected {
			date, err := ParseDate(rec.Date)
			if err == nil && !date.InMonth(year, month) {
				continue
			}
			if err == nil {
				err = errors.New("row rejected when the ledger was loaded")
			}
			skipped = append(skipped, &RecordError{Record: rec, Field: "Date", Err: err})
		}
	}
	sortRows(merged)
	return merged, skipped
}
