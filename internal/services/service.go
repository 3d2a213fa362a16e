/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "time"

    "github.com/rs/zerolog"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

type HRClient interface {
    Employees(ctx context.Context) ([]domain.Employee, error)
    ApprovedAbsences(ctx context.Context, email, from, to string) ([]domain.AbsenceRecord, error)
    NonWorkingDays(ctx context.Context, email, from, to string) ([]string, error)
    Timesheets(ctx context.Context, email, from, to string) ([]domain.TimesheetEntry, error)
    CreateTimesheet(ctx context.Context, email, day string, hours float64) error
    DeleteTimesheet(ctx context.Context, id string) error
}

type WorklogClient interface {
    AbsenceWorklogs(ctx context.Context, issue, from, to string) (map[string][]domain.AbsenceDay, error)
    UserWorklogs(ctx context.Context, accountID, from, to string) ([]domain.WorklogEntry, error)
    CreateAbsenceWorklog(ctx context.Context, issue string, seconds int, day, accountID string) error
}

type Directory interface {
    AccountID(ctx context.Context, email string) (string, error)
}

type Notifier interface {
    Send(ctx context.Context, subject, htmlBody string, to []string) error
}

type Settings interface {
    Get(ctx context.Context, key, def string) (string, error)
    Require(ctx context.Context, key string) (string, error)
}

// Service holds the two sync jobs. Each run fetches fresh state from both
// systems, reconciles, and writes; nothing is kept between runs.
type Service struct {
    cfg      config.Config
    log      zerolog.Logger
    settings Settings
    hr       HRClient
    worklog  WorklogClient
    dir      Directory
    mail     Notifier

    now func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, st Settings, hr HRClient, dir Directory, wl WorklogClient, mail Notifier) *Service {
    return &Service{cfg: cfg, log: log, settings: st, hr: hr, dir: dir, worklog: wl, mail: mail, now: time.Now}
}
