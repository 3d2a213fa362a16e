package logger

import (
    "os"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/tenesys/calamari-jira-integration/internal/config"
)

func New(cfg config.Config) zerolog.Logger {
    level := zerolog.InfoLevel
    if cfg.Debug { level = zerolog.DebugLevel }
    if cfg.AppEnv == "dev" {
        output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
        logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
        log.Logger = logger
        return logger
    }
    zerolog.TimeFieldFormat = time.RFC3339
    logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
    log.Logger = logger
    return logger
}
