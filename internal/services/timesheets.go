/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "sort"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

// SyncTimesheets regenerates Calamari clock-in entries from Tempo worklogs
// for the month ending yesterday. Tempo is the source of truth: on any
// day-sum mismatch the timesheet entries for that day are deleted and a
// single fresh entry is created.
func (s *Service) SyncTimesheets(ctx context.Context) error {
    contractTypesRaw, err := s.settings.Require(ctx, "calamari_timesheet_contract_types")
    if err != nil { return err }
    contractTypes := toSet(config.SplitList(contractTypesRaw))
    absenceIssue, err := s.settings.Require(ctx, "jira_absence_issue")
    if err != nil { return err }

    monthStart, monthEnd := monthRangeYesterday(s.now())
    from, to := monthStart.Format(dateLayout), monthEnd.Format(dateLayout)

    employees, err := s.hr.Employees(ctx)
    if err != nil { return err }
    for _, emp := range employees {
        if _, ok := contractTypes[emp.ContractType]; !ok {
            s.log.Debug().Str("employee", emp.Email).Msg("skipping contract type")
            continue
        }
        accountID, err := s.dir.AccountID(ctx, emp.Email)
        if err != nil { return err }
        worklogs, err := s.worklog.UserWorklogs(ctx, accountID, from, to)
        if err != nil { return err }
        timesheet, err := s.hr.Timesheets(ctx, emp.Email, from, to)
        if err != nil { return err }
        if err := s.reconcileTimesheet(ctx, emp.Email, absenceIssue, worklogs, timesheet); err != nil { return err }
    }
    return nil
}

func (s *Service) reconcileTimesheet(ctx context.Context, email, absenceIssue string, worklogs []domain.WorklogEntry, timesheet []domain.TimesheetEntry) error {
    worklogSum := sumWorklogs(worklogs, absenceIssue)
    timesheetSum := sumTimesheets(timesheet)

    for _, day := range sortedDays(worklogSum) {
        if worklogSum[day] == timesheetSum[day] {
            s.log.Info().Str("employee", email).Str("day", day).Msg("timesheet in sync with worklogs")
            continue
        }

        if timesheetSum[day] > 0 {
            for _, entry := range timesheet {
                if day != entryDay(entry) { continue }
                s.log.Debug().Str("employee", email).Str("day", day).Str("id", entry.ID).Msg("deleting timesheet entry")
                if err := s.hr.DeleteTimesheet(ctx, entry.ID); err != nil { return err }
            }
        }

        s.log.Info().Str("employee", email).Str("day", day).Float64("hours", worklogSum[day]).Msg("creating timesheet entry")
        if err := s.hr.CreateTimesheet(ctx, email, day, worklogSum[day]); err != nil { return err }
    }

    // timesheet days with no worklog hours at all are stale
    for _, day := range sortedDays(timesheetSum) {
        if _, ok := worklogSum[day]; ok { continue }
        for _, entry := range timesheet {
            if day != entryDay(entry) { continue }
            s.log.Info().Str("employee", email).Str("day", day).Str("id", entry.ID).Msg("deleting stale timesheet entry")
            if err := s.hr.DeleteTimesheet(ctx, entry.ID); err != nil { return err }
        }
    }
    return nil
}

// sumWorklogs sums hours per day, leaving out the absence issue.
func sumWorklogs(worklogs []domain.WorklogEntry, absenceIssue string) map[string]float64 {
    sums := map[string]float64{}
    for _, wl := range worklogs {
        if wl.IssueKey == absenceIssue { continue }
        sums[wl.Date] += float64(wl.Seconds) / 3600
    }
    return sums
}

func sumTimesheets(timesheet []domain.TimesheetEntry) map[string]float64 {
    sums := map[string]float64{}
    for _, entry := range timesheet {
        sums[entryDay(entry)] += entry.Hours
    }
    return sums
}

func entryDay(entry domain.TimesheetEntry) string {
    if len(entry.Started) < len(dateLayout) { return entry.Started }
    return entry.Started[:len(dateLayout)]
}

func sortedDays(sums map[string]float64) []string {
    days := make([]string, 0, len(sums))
    for d := range sums { days = append(days, d) }
    sort.Strings(days)
    return days
}
