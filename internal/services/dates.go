package services

import "time"

const dateLayout = "2006-01-02"

// monthRange returns the first and last day of the month containing t.
func monthRange(t time.Time) (time.Time, time.Time) {
    start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
    return start, start.AddDate(0, 1, -1)
}

// monthRangeYesterday returns the bounds of the month containing yesterday,
// so a run on the 1st still closes out the previous month.
func monthRangeYesterday(t time.Time) (time.Time, time.Time) {
    return monthRange(t.AddDate(0, 0, -1))
}

func sameMonth(d, monthStart time.Time) bool {
    return d.Year() == monthStart.Year() && d.Month() == monthStart.Month()
}
