/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package calamari

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

const dateLayout = "2006-01-02"

// Client talks to the Calamari REST API. Every endpoint is a POST with a
// JSON body and basic auth where the username is the literal "calamari".
type Client struct {
    baseURL string
    token   string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: strings.TrimRight(cfg.CalamariBaseURL, "/"),
        token:   cfg.CalamariToken,
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
    }
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
    if c.baseURL == "" { return fmt.Errorf("calamari: empty baseURL") }
    b, err := json.Marshal(body)
    if err != nil { return err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+path, bytes.NewReader(b))
    if err != nil { return err }
    req.SetBasicAuth("calamari", c.token)
    req.Header.Set("Accept", "application/json")
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        rb, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("calamari api %s status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(rb)))
    }
    if out == nil { return nil }
    return json.NewDecoder(resp.Body).Decode(out)
}

// Employees pages through the full roster.
func (c *Client) Employees(ctx context.Context) ([]domain.Employee, error) {
    var out []domain.Employee
    page := 0
    for {
        var res struct {
            Employees []struct {
                Email        string `json:"email"`
                ContractType struct {
                    Name string `json:"name"`
                } `json:"contractType"`
            } `json:"employees"`
            CurrentPage int `json:"currentPage"`
            TotalPages  int `json:"totalPages"`
        }
        if err := c.post(ctx, "employees/v1/list", map[string]any{"page": page}, &res); err != nil { return nil, err }
        for _, e := range res.Employees {
            out = append(out, domain.Employee{Email: e.Email, ContractType: e.ContractType.Name})
        }
        if res.CurrentPage == res.TotalPages { return out, nil }
        page = res.CurrentPage + 1
    }
}

func (c *Client) ApprovedAbsences(ctx context.Context, email, from, to string) ([]domain.AbsenceRecord, error) {
    body := map[string]any{
        "from":            from,
        "to":              to,
        "employees":       []string{email},
        "absenceStatuses": []string{"APPROVED"},
    }
    var res []struct {
        From                  string   `json:"from"`
        To                    string   `json:"to"`
        AbsenceTypeName       string   `json:"absenceTypeName"`
        EntitlementAmountUnit string   `json:"entitlementAmountUnit"`
        AmountFirstDay        *float64 `json:"amountFirstDay"`
        AmountLastDay         *float64 `json:"amountLastDay"`
    }
    if err := c.post(ctx, "leave/request/v1/find-advanced", body, &res); err != nil { return nil, err }
    out := make([]domain.AbsenceRecord, 0, len(res))
    for _, r := range res {
        out = append(out, domain.AbsenceRecord{
            From:           r.From,
            To:             r.To,
            TypeName:       r.AbsenceTypeName,
            Unit:           r.EntitlementAmountUnit,
            AmountFirstDay: r.AmountFirstDay,
            AmountLastDay:  r.AmountLastDay,
        })
    }
    return out, nil
}

// NonWorkingDays returns holiday dates for the employee in the range.
func (c *Client) NonWorkingDays(ctx context.Context, email, from, to string) ([]string, error) {
    var res []struct {
        Start string `json:"start"`
    }
    if err := c.post(ctx, "holiday/v1/find", map[string]any{"employee": email, "from": from, "to": to}, &res); err != nil { return nil, err }
    out := make([]string, 0, len(res))
    for _, h := range res { out = append(out, h.Start) }
    return out, nil
}

func (c *Client) Timesheets(ctx context.Context, email, from, to string) ([]domain.TimesheetEntry, error) {
    var res []struct {
        ID       json.Number `json:"id"`
        Started  string      `json:"started"`
        Finished string      `json:"finished"`
    }
    if err := c.post(ctx, "clockin/timesheetentries/v1/find", map[string]any{"from": from, "to": to, "employees": []string{email}}, &res); err != nil { return nil, err }
    out := make([]domain.TimesheetEntry, 0, len(res))
    for _, e := range res {
        out = append(out, domain.TimesheetEntry{
            ID:      e.ID.String(),
            Email:   email,
            Started: e.Started,
            Hours:   shiftHours(e.Started, e.Finished),
        })
    }
    return out, nil
}

// shiftHours derives the entry duration from its start/end timestamps.
func shiftHours(started, finished string) float64 {
    s := parseShiftTime(started)
    f := parseShiftTime(finished)
    if s == nil || f == nil { return 0 }
    return f.Sub(*s).Hours()
}

func parseShiftTime(v string) *time.Time {
    layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}
    for _, l := range layouts {
        if t, err := time.ParseInLocation(l, v, time.Local); err == nil { return &t }
    }
    return nil
}

// CreateTimesheet records a shift starting at 08:00 local lasting hours.
func (c *Client) CreateTimesheet(ctx context.Context, email, day string, hours float64) error {
    d, err := time.ParseInLocation(dateLayout, day, time.Local)
    if err != nil { return fmt.Errorf("calamari: bad shift day %q: %w", day, err) }
    start := time.Date(d.Year(), d.Month(), d.Day(), 8, 0, 0, 0, time.Local)
    end := start.Add(time.Duration(hours * float64(time.Hour)))
    body := map[string]any{
        "person":     email,
        "shiftStart": start.Format("2006-01-02T15:04:05"),
        "shiftEnd":   end.Format("2006-01-02T15:04:05"),
    }
    return c.post(ctx, "clockin/timesheetentries/v1/create", body, nil)
}

func (c *Client) DeleteTimesheet(ctx context.Context, id string) error {
    n, err := strconv.Atoi(id)
    if err != nil { return fmt.Errorf("calamari: bad timesheet id %q: %w", id, err) }
    return c.post(ctx, "clockin/timesheetentries/v1/delete", map[string]any{"id": n}, nil)
}
