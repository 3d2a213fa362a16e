/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "context"
    "os"
    "strings"
    "time"
)

type Config struct {
    AppEnv   string
    HTTPAddr string

    HTTPTimeout time.Duration

    // cron specs for serve mode; empty disables the schedule
    AbsencesCron   string
    TimesheetsCron string

    CalamariBaseURL string
    CalamariToken   string

    JiraBaseURL string
    JiraUser    string
    JiraToken   string

    TempoBaseURL string
    TempoToken   string

    Debug bool
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

// SplitList parses a comma-separated setting into trimmed non-empty items.
func SplitList(csv string) []string {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        out = append(out, p)
    }
    return out
}

// Load builds the process configuration. Plain infra knobs come from the
// environment; API endpoints and credentials go through the settings
// provider so they can live in SSM alongside the job-level settings.
func Load(ctx context.Context, settings *Provider) (Config, error) {
    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        HTTPTimeout: dur("HTTP_TIMEOUT", 15*time.Second),

        AbsencesCron:   getenv("SYNC_ABSENCES_CRON", ""),
        TimesheetsCron: getenv("SYNC_TIMESHEETS_CRON", ""),
    }

    var err error
    if cfg.CalamariBaseURL, err = settings.Get(ctx, "calamari_api_url", ""); err != nil { return cfg, err }
    if cfg.CalamariToken, err = settings.Get(ctx, "calamari_api_token", ""); err != nil { return cfg, err }
    if cfg.JiraBaseURL, err = settings.Get(ctx, "jira_api_url", ""); err != nil { return cfg, err }
    if cfg.JiraUser, err = settings.Get(ctx, "jira_api_user", ""); err != nil { return cfg, err }
    if cfg.JiraToken, err = settings.Get(ctx, "jira_api_token", ""); err != nil { return cfg, err }
    if cfg.TempoBaseURL, err = settings.Get(ctx, "tempo_api_url", "https://api.tempo.io/4"); err != nil { return cfg, err }
    if cfg.TempoToken, err = settings.Get(ctx, "tempo_api_token", ""); err != nil { return cfg, err }

    dbg, err := settings.Get(ctx, "debug", "0")
    if err != nil { return cfg, err }
    cfg.Debug = dbg == "1"

    return cfg, nil
}
