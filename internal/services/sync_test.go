package services

import (
    "context"
    "fmt"
    "time"

    "github.com/rs/zerolog"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

// fixed clock: mid May 2024 (2024-05-15 is a Wednesday)
var testNow = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

type fakeSettings map[string]string

func (f fakeSettings) Get(_ context.Context, key, def string) (string, error) {
    if v, ok := f[key]; ok { return v, nil }
    return def, nil
}

func (f fakeSettings) Require(_ context.Context, key string) (string, error) {
    if v, ok := f[key]; ok { return v, nil }
    return "", fmt.Errorf("setting %s not found", key)
}

type createdTimesheet struct {
    Email string
    Day   string
    Hours float64
}

type fakeHR struct {
    employees  []domain.Employee
    absences   map[string][]domain.AbsenceRecord
    nonworking map[string][]string
    timesheets map[string][]domain.TimesheetEntry

    created []createdTimesheet
    deleted []string
}

func (f *fakeHR) Employees(context.Context) ([]domain.Employee, error) { return f.employees, nil }

func (f *fakeHR) ApprovedAbsences(_ context.Context, email, _, _ string) ([]domain.AbsenceRecord, error) {
    return f.absences[email], nil
}

func (f *fakeHR) NonWorkingDays(_ context.Context, email, _, _ string) ([]string, error) {
    return f.nonworking[email], nil
}

func (f *fakeHR) Timesheets(_ context.Context, email, _, _ string) ([]domain.TimesheetEntry, error) {
    return f.timesheets[email], nil
}

func (f *fakeHR) CreateTimesheet(_ context.Context, email, day string, hours float64) error {
    f.created = append(f.created, createdTimesheet{Email: email, Day: day, Hours: hours})
    return nil
}

func (f *fakeHR) DeleteTimesheet(_ context.Context, id string) error {
    f.deleted = append(f.deleted, id)
    return nil
}

type fakeDir struct{}

func (fakeDir) AccountID(_ context.Context, email string) (string, error) {
    return "acct-" + email, nil
}

type createdWorklog struct {
    Issue   string
    Seconds int
    Day     string
    Account string
}

type fakeWorklog struct {
    ledger       map[string][]domain.AbsenceDay
    userWorklogs map[string][]domain.WorklogEntry

    created []createdWorklog
}

func (f *fakeWorklog) AbsenceWorklogs(_ context.Context, _, _, _ string) (map[string][]domain.AbsenceDay, error) {
    if f.ledger == nil { return map[string][]domain.AbsenceDay{}, nil }
    return f.ledger, nil
}

func (f *fakeWorklog) UserWorklogs(_ context.Context, accountID, _, _ string) ([]domain.WorklogEntry, error) {
    return f.userWorklogs[accountID], nil
}

func (f *fakeWorklog) CreateAbsenceWorklog(_ context.Context, issue string, seconds int, day, accountID string) error {
    f.created = append(f.created, createdWorklog{Issue: issue, Seconds: seconds, Day: day, Account: accountID})
    return nil
}

type fakeMailer struct {
    subject string
    body    string
    to      []string
    sent    int
}

func (f *fakeMailer) Send(_ context.Context, subject, htmlBody string, to []string) error {
    f.subject, f.body, f.to = subject, htmlBody, to
    f.sent++
    return nil
}

func newTestService(st fakeSettings, hr *fakeHR, wl *fakeWorklog, mail *fakeMailer) *Service {
    svc := New(config.Config{}, zerolog.Nop(), st, hr, fakeDir{}, wl, mail)
    svc.now = func() time.Time { return testNow }
    return svc
}

func absenceSettings() fakeSettings {
    return fakeSettings{
        "calamari_absence_ignored_employees": "",
        "jira_absence_issue":                 "HR-1",
        "calamari_absence_ignored_types":     "Remote work",
        "notification_emails":                "hr@example.com",
    }
}

func fptr(v float64) *float64 { return &v }
