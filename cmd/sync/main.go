/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "flag"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/aws/aws-lambda-go/lambda"
    awsconfig "github.com/aws/aws-sdk-go-v2/config"
    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"

    "github.com/tenesys/calamari-jira-integration/internal/adapters/calamari"
    "github.com/tenesys/calamari-jira-integration/internal/adapters/jira"
    "github.com/tenesys/calamari-jira-integration/internal/adapters/ses"
    "github.com/tenesys/calamari-jira-integration/internal/adapters/tempo"
    "github.com/tenesys/calamari-jira-integration/internal/config"
    httpapi "github.com/tenesys/calamari-jira-integration/internal/http"
    "github.com/tenesys/calamari-jira-integration/internal/jobs"
    "github.com/tenesys/calamari-jira-integration/internal/logger"
    "github.com/tenesys/calamari-jira-integration/internal/services"
)

// event is the invocation payload when running as a Lambda.
type event struct {
    Job string `json:"job"`
}

func main() {
    jobFlag := flag.String("job", "", "run one job and exit: sync-absences or sync-timesheets")
    serveFlag := flag.Bool("serve", false, "run the HTTP trigger and cron scheduler")
    flag.Parse()

    _ = godotenv.Load()
    ctx := context.Background()

    settings, err := config.NewProvider(ctx)
    if err != nil { log.Fatal().Err(err).Msg("settings init failed") }
    cfg, err := config.Load(ctx, settings)
    if err != nil { log.Fatal().Err(err).Msg("config load failed") }
    logg := logger.New(cfg)

    awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
    if err != nil { logg.Fatal().Err(err).Msg("aws config failed") }

    // Adapters
    jc := jira.NewClient(cfg, logg)
    tc := tempo.NewClient(cfg, jc, settings, logg)
    hr := calamari.NewClient(cfg, logg)
    mail := ses.NewMailer(awsCfg, settings, logg)

    svc := services.New(cfg, logg, settings, hr, jc, tc, mail)
    runner := jobs.NewRunner(logg, svc)

    switch {
    case os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "":
        lambda.Start(func(ctx context.Context, ev event) error {
            kind, err := jobs.Parse(ev.Job)
            if err != nil {
                // bad payloads are logged and swallowed so the scheduler
                // does not retry an invocation that can never succeed
                logg.Error().Err(err).Msg("unknown job")
                return nil
            }
            return runner.Run(ctx, kind)
        })
    case *jobFlag != "":
        kind, err := jobs.Parse(*jobFlag)
        if err != nil { logg.Fatal().Err(err).Msg("bad -job") }
        if err := runner.Run(ctx, kind); err != nil { os.Exit(1) }
    case *serveFlag:
        router := httpapi.NewRouter(cfg, logg, runner)
        cr := jobs.NewCron(cfg, logg, runner)
        cr.Start()
        defer cr.Stop()

        errCh := make(chan error, 1)
        go func() { errCh <- router.Run(cfg.HTTPAddr) }()

        sigCh := make(chan os.Signal, 1)
        signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

        select {
        case <-sigCh:
            logg.Info().Msg("shutting down...")
        case err := <-errCh:
            if err != nil { logg.Error().Err(err).Msg("http server error") }
        }
        time.Sleep(500 * time.Millisecond)
    default:
        flag.Usage()
        os.Exit(2)
    }
}
