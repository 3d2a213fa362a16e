/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/jobs"
)

func NewRouter(cfg config.Config, log zerolog.Logger, runner *jobs.Runner) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context) {
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, runner)

    r.GET("/healthz", h.Healthz)
    r.POST("/jobs/:job", h.RunJob)

    return r
}
