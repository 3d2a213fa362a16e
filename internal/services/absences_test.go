package services

import (
    "context"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

func TestNormalizeAbsences_ClampsToMonthAndSkipsOffDays(t *testing.T) {
    // 2024-04-28 .. 2024-05-04: April days fall outside the target month,
    // 2024-05-01 is a holiday, 2024-05-04 is a Saturday.
    records := []domain.AbsenceRecord{
        {From: "2024-04-28", To: "2024-05-04", TypeName: "Vacation", Unit: domain.UnitDays},
    }
    monthStart := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
    nonworking := toSet([]string{"2024-05-01"})

    days := normalizeAbsences(records, nil, nonworking, monthStart)

    require.Equal(t, []domain.AbsenceDay{
        {Date: "2024-05-02", Hours: 8.0},
        {Date: "2024-05-03", Hours: 8.0},
    }, days)
    for _, d := range days {
        assert.Positive(t, d.Hours)
    }
}

func TestNormalizeAbsences_IgnoredTypeProducesNothing(t *testing.T) {
    records := []domain.AbsenceRecord{
        {From: "2024-05-06", To: "2024-05-10", TypeName: "Remote work", Unit: domain.UnitDays},
    }
    monthStart := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

    days := normalizeAbsences(records, toSet([]string{"Remote work"}), nil, monthStart)

    assert.Empty(t, days)
}

func TestNormalizeAbsences_PartialDayLastWins(t *testing.T) {
    // single-day record with both partial amounts set: the last-day amount
    // is applied after the first-day one
    records := []domain.AbsenceRecord{
        {
            From: "2024-05-06", To: "2024-05-06", TypeName: "Vacation", Unit: domain.UnitDays,
            AmountFirstDay: fptr(0.5), AmountLastDay: fptr(0.25),
        },
    }
    monthStart := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

    days := normalizeAbsences(records, nil, nil, monthStart)

    require.Len(t, days, 1)
    assert.Equal(t, domain.AbsenceDay{Date: "2024-05-06", Hours: 2.0}, days[0])
}

func TestNormalizeAbsences_HourUnit(t *testing.T) {
    records := []domain.AbsenceRecord{
        {
            From: "2024-05-06", To: "2024-05-07", TypeName: "Time off", Unit: domain.UnitHours,
            AmountFirstDay: fptr(4.0),
        },
    }
    monthStart := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

    days := normalizeAbsences(records, nil, nil, monthStart)

    require.Equal(t, []domain.AbsenceDay{
        {Date: "2024-05-06", Hours: 4.0},
        {Date: "2024-05-07", Hours: 8.0},
    }, days)
}

func TestSyncAbsences_EqualLedgerIsNoOp(t *testing.T) {
    hr := &fakeHR{
        employees: []domain.Employee{{Email: "jan@example.com"}},
        absences: map[string][]domain.AbsenceRecord{
            "jan@example.com": {{From: "2024-05-06", To: "2024-05-07", TypeName: "Vacation", Unit: domain.UnitDays}},
        },
    }
    wl := &fakeWorklog{
        ledger: map[string][]domain.AbsenceDay{
            "jan@example.com": {{Date: "2024-05-06", Hours: 8.0}, {Date: "2024-05-07", Hours: 8.0}},
        },
    }
    mail := &fakeMailer{}
    svc := newTestService(absenceSettings(), hr, wl, mail)

    require.NoError(t, svc.SyncAbsences(context.Background()))

    assert.Empty(t, wl.created)
    require.Equal(t, 1, mail.sent)
    assert.Equal(t, "Absence sync report", mail.subject)
    assert.Contains(t, mail.body, "No conflicts today!")
}

func TestSyncAbsences_CreatesMissingAndReportsUnmatched(t *testing.T) {
    // approved absences: 05-01 full day, 05-02 half day
    // ledger: 05-01 already logged, 05-03 has no matching absence
    hr := &fakeHR{
        employees: []domain.Employee{{Email: "jan@example.com"}},
        absences: map[string][]domain.AbsenceRecord{
            "jan@example.com": {
                {From: "2024-05-01", To: "2024-05-01", TypeName: "Vacation", Unit: domain.UnitDays},
                {From: "2024-05-02", To: "2024-05-02", TypeName: "Vacation", Unit: domain.UnitDays, AmountLastDay: fptr(0.5)},
            },
        },
    }
    wl := &fakeWorklog{
        ledger: map[string][]domain.AbsenceDay{
            "jan@example.com": {{Date: "2024-05-01", Hours: 8.0}, {Date: "2024-05-03", Hours: 2.0}},
        },
    }
    mail := &fakeMailer{}
    svc := newTestService(absenceSettings(), hr, wl, mail)

    require.NoError(t, svc.SyncAbsences(context.Background()))

    require.Equal(t, []createdWorklog{
        {Issue: "HR-1", Seconds: 4 * 3600, Day: "2024-05-02", Account: "acct-jan@example.com"},
    }, wl.created)

    require.Equal(t, 1, mail.sent)
    assert.Contains(t, mail.body, "<td>jan@example.com</td>")
    assert.Contains(t, mail.body, "<td>2024-05-03</td>")
    assert.Contains(t, mail.body, "<td>2.0</td>")
    assert.NotContains(t, mail.body, "2024-05-01")
}

func TestSyncAbsences_IgnoredEmployeeLedgerPassesThrough(t *testing.T) {
    settings := absenceSettings()
    settings["calamari_absence_ignored_employees"] = "boss@example.com"
    hr := &fakeHR{
        employees: []domain.Employee{{Email: "boss@example.com"}},
        absences: map[string][]domain.AbsenceRecord{
            // HR data exists but must not be consulted for ignored employees
            "boss@example.com": {{From: "2024-05-06", To: "2024-05-06", TypeName: "Vacation", Unit: domain.UnitDays}},
        },
    }
    wl := &fakeWorklog{
        ledger: map[string][]domain.AbsenceDay{
            "boss@example.com": {{Date: "2024-05-06", Hours: 8.0}, {Date: "2024-05-07", Hours: 4.0}},
        },
    }
    mail := &fakeMailer{}
    svc := newTestService(settings, hr, wl, mail)

    require.NoError(t, svc.SyncAbsences(context.Background()))

    assert.Empty(t, wl.created)
    assert.Contains(t, mail.body, "<td>2024-05-06</td>")
    assert.Contains(t, mail.body, "<td>2024-05-07</td>")
    assert.Contains(t, mail.body, "<td>8.0</td>")
    assert.Contains(t, mail.body, "<td>4.0</td>")
}

func TestSyncAbsences_ExactAmountMismatchIsConflict(t *testing.T) {
    // same day, different amount: the ledger entry is not consumed, so a
    // worklog is created for the absence and the old entry is reported
    hr := &fakeHR{
        employees: []domain.Employee{{Email: "jan@example.com"}},
        absences: map[string][]domain.AbsenceRecord{
            "jan@example.com": {{From: "2024-05-06", To: "2024-05-06", TypeName: "Vacation", Unit: domain.UnitDays}},
        },
    }
    wl := &fakeWorklog{
        ledger: map[string][]domain.AbsenceDay{
            "jan@example.com": {{Date: "2024-05-06", Hours: 4.0}},
        },
    }
    mail := &fakeMailer{}
    svc := newTestService(absenceSettings(), hr, wl, mail)

    require.NoError(t, svc.SyncAbsences(context.Background()))

    require.Len(t, wl.created, 1)
    assert.Equal(t, 8*3600, wl.created[0].Seconds)
    assert.Equal(t, 1, strings.Count(mail.body, "<td>2024-05-06</td>"))
    assert.Contains(t, mail.body, "<td>4.0</td>")
}

func TestSyncAbsences_FractionalHoursRoundTrip(t *testing.T) {
    // 4.1*3600 is 14759.999… in float64; the created worklog must hold the
    // rounded 14760 so the next run reads back exactly 4.1 hours
    hr := &fakeHR{
        employees: []domain.Employee{{Email: "jan@example.com"}},
        absences: map[string][]domain.AbsenceRecord{
            "jan@example.com": {{From: "2024-05-06", To: "2024-05-06", TypeName: "Sick leave", Unit: domain.UnitHours, AmountFirstDay: fptr(4.1)}},
        },
    }
    wl := &fakeWorklog{}
    mail := &fakeMailer{}
    svc := newTestService(absenceSettings(), hr, wl, mail)

    require.NoError(t, svc.SyncAbsences(context.Background()))
    require.Len(t, wl.created, 1)
    require.Equal(t, 14760, wl.created[0].Seconds)

    // second run with the ledger holding what was just created converges
    wl2 := &fakeWorklog{
        ledger: map[string][]domain.AbsenceDay{
            "jan@example.com": {{Date: "2024-05-06", Hours: float64(wl.created[0].Seconds) / 3600}},
        },
    }
    mail2 := &fakeMailer{}
    svc2 := newTestService(absenceSettings(), hr, wl2, mail2)

    require.NoError(t, svc2.SyncAbsences(context.Background()))
    assert.Empty(t, wl2.created)
    assert.Contains(t, mail2.body, "No conflicts today!")
}
