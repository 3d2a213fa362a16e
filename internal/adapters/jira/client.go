/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
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
)

// Client resolves identities between Calamari (emails) and Jira Cloud
// (account ids) over the REST v3 API. Both directions are memoized for the
// process lifetime; jobs run single-threaded so no locking is needed.
type Client struct {
    baseURL string
    user    string
    token   string
    http    *http.Client
    log     zerolog.Logger

    accountIDs map[string]string // email -> accountId
    emails     map[string]string // accountId -> email
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL:    strings.TrimRight(cfg.JiraBaseURL, "/"),
        user:       cfg.JiraUser,
        token:      cfg.JiraToken,
        http:       &http.Client{Timeout: cfg.HTTPTimeout},
        log:        log,
        accountIDs: map[string]string{},
        emails:     map[string]string{},
    }
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
    if c.baseURL == "" { return errors.New("jira: empty baseURL") }
    u := c.baseURL + "/rest/api/3/" + path
    if len(q) > 0 { u += "?" + q.Encode() }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
    if err != nil { return err }
    req.SetBasicAuth(c.user, c.token)
    req.Header.Set("Accept", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
    }
    return json.NewDecoder(resp.Body).Decode(out)
}

// AccountID returns the Jira account id for an employee email.
func (c *Client) AccountID(ctx context.Context, email string) (string, error) {
    if id, ok := c.accountIDs[email]; ok { return id, nil }
    var res []struct {
        AccountID string `json:"accountId"`
    }
    if err := c.get(ctx, "user/search", url.Values{"query": []string{email}}, &res); err != nil { return "", err }
    if len(res) == 0 { return "", fmt.Errorf("jira: no user for %s", email) }
    c.accountIDs[email] = res[0].AccountID
    return res[0].AccountID, nil
}

// UserEmail returns the email address behind a Jira account id.
func (c *Client) UserEmail(ctx context.Context, accountID string) (string, error) {
    if email, ok := c.emails[accountID]; ok { return email, nil }
    var res struct {
        EmailAddress string `json:"emailAddress"`
    }
    if err := c.get(ctx, "user/", url.Values{"accountId": []string{accountID}}, &res); err != nil { return "", err }
    c.emails[accountID] = res.EmailAddress
    return res.EmailAddress, nil
}
