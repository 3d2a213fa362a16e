package jobs

import (
    "context"
    "time"

    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"

    "github.com/tenesys/calamari-jira-integration/internal/config"
)

type Cron struct {
    cfg    config.Config
    log    zerolog.Logger
    runner *Runner
    c      *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, runner *Runner) *Cron {
    c := cron.New()
    cr := &Cron{cfg: cfg, log: log, runner: runner, c: c}
    if cfg.AbsencesCron != "" {
        _, _ = c.AddFunc(cfg.AbsencesCron, func() { cr.run(SyncAbsences) })
    }
    if cfg.TimesheetsCron != "" {
        _, _ = c.AddFunc(cfg.TimesheetsCron, func() { cr.run(SyncTimesheets) })
    }
    return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) run(kind Kind) {
    ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
    defer cancel()
    cr.log.Info().Str("job", string(kind)).Msg("cron: run")
    if err := cr.runner.Run(ctx, kind); err != nil {
        cr.log.Error().Err(err).Str("job", string(kind)).Msg("cron: job failed")
    }
}
