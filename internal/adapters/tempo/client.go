/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package tempo

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"

    "github.com/rs/zerolog"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/domain"
)

// identity maps Jira account ids back to employee emails (the Jira client).
type identity interface {
    UserEmail(ctx context.Context, accountID string) (string, error)
}

type settings interface {
    Get(ctx context.Context, key, def string) (string, error)
}

// Client talks to the Tempo v4 API. List endpoints paginate with a
// metadata.next link that is followed verbatim until absent.
type Client struct {
    baseURL  string
    token    string
    http     *http.Client
    ids      identity
    settings settings
    log      zerolog.Logger
}

func NewClient(cfg config.Config, ids identity, st settings, log zerolog.Logger) *Client {
    return &Client{
        baseURL:  strings.TrimRight(cfg.TempoBaseURL, "/"),
        token:    cfg.TempoToken,
        http:     &http.Client{Timeout: cfg.HTTPTimeout},
        ids:      ids,
        settings: st,
        log:      log,
    }
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
    if c.baseURL == "" { return errors.New("tempo: empty baseURL") }
    var r io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return err }
        r = bytes.NewReader(b)
    }
    req, err := http.NewRequestWithContext(ctx, method, u, r)
    if err != nil { return err }
    req.Header.Set("Accept", "application/json")
    req.Header.Set("Authorization", "Bearer "+c.token)
    if body != nil { req.Header.Set("Content-Type", "application/json") }
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        rb, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("tempo api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
    }
    if out == nil { return nil }
    return json.NewDecoder(resp.Body).Decode(out)
}

type worklogPage struct {
    Results []struct {
        TimeSpentSeconds int    `json:"timeSpentSeconds"`
        StartDate        string `json:"startDate"`
        Author           struct {
            AccountID   string `json:"accountId"`
            DisplayName string `json:"displayName"`
        } `json:"author"`
        Issue struct {
            Key string `json:"key"`
        } `json:"issue"`
    } `json:"results"`
    Metadata struct {
        Next string `json:"next"`
    } `json:"metadata"`
}

// AbsenceWorklogs fetches every worklog on the absence issue in the range
// and groups them by employee email, the ledger the absence sync diffs
// against.
func (c *Client) AbsenceWorklogs(ctx context.Context, issue, from, to string) (map[string][]domain.AbsenceDay, error) {
    u := fmt.Sprintf("%s/worklogs/issue/%s?from=%s&to=%s", c.baseURL, url.PathEscape(issue), from, to)
    out := map[string][]domain.AbsenceDay{}
    for u != "" {
        var page worklogPage
        if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil { return nil, err }
        for _, rec := range page.Results {
            email, err := c.ids.UserEmail(ctx, rec.Author.AccountID)
            if err != nil { return nil, err }
            out[email] = append(out[email], domain.AbsenceDay{
                Date:  rec.StartDate,
                Hours: float64(rec.TimeSpentSeconds) / 3600,
            })
        }
        u = page.Metadata.Next
    }
    return out, nil
}

// UserWorklogs fetches all worklogs authored by the account in the range.
func (c *Client) UserWorklogs(ctx context.Context, accountID, from, to string) ([]domain.WorklogEntry, error) {
    u := fmt.Sprintf("%s/worklogs/user/%s?from=%s&to=%s", c.baseURL, url.PathEscape(accountID), from, to)
    var out []domain.WorklogEntry
    for u != "" {
        var page worklogPage
        if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil { return nil, err }
        for _, rec := range page.Results {
            email, err := c.ids.UserEmail(ctx, rec.Author.AccountID)
            if err != nil { return nil, err }
            out = append(out, domain.WorklogEntry{
                Date:        rec.StartDate,
                Seconds:     rec.TimeSpentSeconds,
                IssueKey:    rec.Issue.Key,
                AuthorEmail: email,
            })
        }
        u = page.Metadata.Next
    }
    return out, nil
}

// CreateAbsenceWorklog logs seconds against the absence issue on day,
// attributed to the account.
func (c *Client) CreateAbsenceWorklog(ctx context.Context, issue string, seconds int, day, accountID string) error {
    desc, err := c.settings.Get(ctx, "jira_absence_worklog_description", "Absence")
    if err != nil { return err }
    body := map[string]any{
        "issueId":          issue,
        "timeSpentSeconds": seconds,
        "billableSeconds":  seconds,
        "startDate":        day,
        "startTime":        "08:00:00",
        "description":      desc,
        "authorAccountId":  accountID,
    }
    return c.do(ctx, http.MethodPost, c.baseURL+"/worklogs", body, nil)
}
