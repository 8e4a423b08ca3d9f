package schedule

import "time"

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances d by n calendar months, clamping to the last day of
// the target month. time.AddDate would normalize Jan 31 + 1 month into
// March; schedules anchored near month end must land in February instead.
func AddMonths(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := daysInMonth(target.Year(), target.Month())
	if day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

// ContractEndDate derives the inclusive end of a contract term.
func ContractEndDate(startDate time.Time, durationMonths int) time.Time {
	return AddMonths(DateOnly(startDate), durationMonths).AddDate(0, 0, -1)
}

// MonthsCovered returns how many whole months of the schedule anchored at
// startDate are covered through lastPeriodEnd (inclusive). Period starts
// are always derived from the contract anchor, so the month count is found
// by walking the anchor forward rather than by raw date subtraction.
func MonthsCovered(startDate, lastPeriodEnd time.Time) int {
	next := DateOnly(lastPeriodEnd).AddDate(0, 0, 1)
	anchor := DateOnly(startDate)
	months := 0
	for AddMonths(anchor, months).Before(next) {
		months++
	}
	return months
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
