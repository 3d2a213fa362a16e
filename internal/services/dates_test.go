package services

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestMonthRange(t *testing.T) {
    start, end := monthRange(time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC))
    assert.Equal(t, "2024-05-01", start.Format(dateLayout))
    assert.Equal(t, "2024-05-31", end.Format(dateLayout))

    start, end = monthRange(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
    assert.Equal(t, "2024-02-01", start.Format(dateLayout))
    assert.Equal(t, "2024-02-29", end.Format(dateLayout))
}

func TestMonthRangeYesterday_CrossesMonthBoundary(t *testing.T) {
    // on the 1st the job still settles the previous month
    start, end := monthRangeYesterday(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC))
    assert.Equal(t, "2024-05-01", start.Format(dateLayout))
    assert.Equal(t, "2024-05-31", end.Format(dateLayout))

    start, end = monthRangeYesterday(time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC))
    assert.Equal(t, "2023-12-01", start.Format(dateLayout))
    assert.Equal(t, "2023-12-31", end.Format(dateLayout))
}
