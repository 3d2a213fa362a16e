/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "math"
    "slices"
    "time"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

// SyncAbsences makes Tempo absence worklogs match approved Calamari
// absences for the current month. Missing worklogs are created; worklogs
// with no matching absence are collected and emailed as conflicts.
func (s *Service) SyncAbsences(ctx context.Context) error {
    ignoredRaw, err := s.settings.Require(ctx, "calamari_absence_ignored_employees")
    if err != nil { return err }
    ignoredEmployees := toSet(config.SplitList(ignoredRaw))
    absenceIssue, err := s.settings.Require(ctx, "jira_absence_issue")
    if err != nil { return err }
    ignoredTypesRaw, err := s.settings.Require(ctx, "calamari_absence_ignored_types")
    if err != nil { return err }
    ignoredTypes := toSet(config.SplitList(ignoredTypesRaw))

    monthStart, monthEnd := monthRange(s.now())
    from, to := monthStart.Format(dateLayout), monthEnd.Format(dateLayout)

    ledger, err := s.worklog.AbsenceWorklogs(ctx, absenceIssue, from, to)
    if err != nil { return err }
    employees, err := s.hr.Employees(ctx)
    if err != nil { return err }

    var conflicts []domain.Conflict
    for _, emp := range employees {
        email := emp.Email

        if _, ok := ignoredEmployees[email]; ok {
            s.log.Debug().Str("employee", email).Msg("ignoring absences")
            // never touch ignored employees' worklogs, surface them as-is
            if len(ledger[email]) > 0 {
                conflicts = append(conflicts, domain.Conflict{Email: email, Entries: ledger[email]})
            }
            continue
        }

        records, err := s.hr.ApprovedAbsences(ctx, email, from, to)
        if err != nil { return err }
        nonworking, err := s.hr.NonWorkingDays(ctx, email, from, to)
        if err != nil { return err }
        absences := normalizeAbsences(records, ignoredTypes, toSet(nonworking), monthStart)

        if slices.Equal(absences, ledger[email]) {
            s.log.Info().Str("employee", email).Msg("no conflicts")
            continue
        }

        remaining := slices.Clone(ledger[email])
        for _, day := range absences {
            if i := slices.Index(remaining, day); i >= 0 {
                s.log.Debug().Str("employee", email).Str("date", day.Date).Msg("absence worklog exists")
                remaining = slices.Delete(remaining, i, i+1)
                continue
            }
            s.log.Info().Str("employee", email).Str("date", day.Date).Float64("hours", day.Hours).Msg("absence worklog missing, creating")
            accountID, err := s.dir.AccountID(ctx, email)
            if err != nil { return err }
            // round so the seconds→hours readback matches day.Hours next run
            if err := s.worklog.CreateAbsenceWorklog(ctx, absenceIssue, int(math.Round(day.Hours*3600)), day.Date, accountID); err != nil { return err }
        }
        if len(remaining) > 0 {
            conflicts = append(conflicts, domain.Conflict{Email: email, Entries: remaining})
        }
    }

    body, err := renderConflictReport(conflicts)
    if err != nil { return err }
    recipientsRaw, err := s.settings.Require(ctx, "notification_emails")
    if err != nil { return err }
    return s.mail.Send(ctx, "Absence sync report", body, config.SplitList(recipientsRaw))
}

// normalizeAbsences expands approved absence records into one entry per
// working day of the target month. Records of an ignored type are dropped
// whole; weekends and non-working days are skipped; a day counts 8 hours
// unless a first/last-day partial amount overrides it (last-day wins when a
// single-day record sets both).
func normalizeAbsences(records []domain.AbsenceRecord, ignoredTypes, nonworking map[string]struct{}, monthStart time.Time) []domain.AbsenceDay {
    var out []domain.AbsenceDay
    for _, rec := range records {
        if _, skip := ignoredTypes[rec.TypeName]; skip { continue }
        start, err := time.Parse(dateLayout, rec.From)
        if err != nil { continue }
        end, err := time.Parse(dateLayout, rec.To)
        if err != nil { continue }

        for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
            if !sameMonth(d, monthStart) { continue }
            date := d.Format(dateLayout)
            if _, off := nonworking[date]; off { continue }
            if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday { continue }

            unit := 1.0
            if rec.Unit == domain.UnitDays { unit = 8.0 }
            hours := 8.0 // full day
            if date == rec.From && rec.AmountFirstDay != nil && *rec.AmountFirstDay != 0 {
                hours = *rec.AmountFirstDay * unit
            }
            if date == rec.To && rec.AmountLastDay != nil && *rec.AmountLastDay != 0 {
                hours = *rec.AmountLastDay * unit
            }
            out = append(out, domain.AbsenceDay{Date: date, Hours: hours})
        }
    }
    return out
}

func toSet(items []string) map[string]struct{} {
    set := make(map[string]struct{}, len(items))
    for _, it := range items { set[it] = struct{}{} }
    return set
}
