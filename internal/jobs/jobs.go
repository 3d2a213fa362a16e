package jobs

import (
    "context"
    "fmt"

    "github.com/rs/zerolog"
)

// Kind names one of the sync jobs.
type Kind string

const (
    SyncAbsences   Kind = "sync-absences"
    SyncTimesheets Kind = "sync-timesheets"
)

// Parse validates a job name at the boundary.
func Parse(s string) (Kind, error) {
    switch Kind(s) {
    case SyncAbsences, SyncTimesheets:
        return Kind(s), nil
    }
    return "", fmt.Errorf("unknown job %q, choose `sync-absences` or `sync-timesheets`", s)
}

type service interface {
    SyncAbsences(ctx context.Context) error
    SyncTimesheets(ctx context.Context) error
}

type Runner struct {
    log zerolog.Logger
    svc service
}

func NewRunner(log zerolog.Logger, svc service) *Runner {
    return &Runner{log: log, svc: svc}
}

func (r *Runner) Run(ctx context.Context, kind Kind) error {
    r.log.Info().Str("job", string(kind)).Msg("job: start")
    var err error
    switch kind {
    case SyncAbsences:
        err = r.svc.SyncAbsences(ctx)
    case SyncTimesheets:
        err = r.svc.SyncTimesheets(ctx)
    default:
        err = fmt.Errorf("unknown job %q", kind)
    }
    if err != nil {
        r.log.Error().Err(err).Str("job", string(kind)).Msg("job: failed")
        return err
    }
    r.log.Info().Str("job", string(kind)).Msg("job: done")
    return nil
}
