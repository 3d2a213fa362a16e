/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/tenesys/calamari-jira-integration/internal/config"
    "github.com/tenesys/calamari-jira-integration/internal/jobs"
)

type runner interface {
    Run(ctx context.Context, kind jobs.Kind) error
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    run runner
}

func NewHandlers(cfg config.Config, log zerolog.Logger, r runner) *Handlers {
    return &Handlers{cfg: cfg, log: log, run: r}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RunJob triggers a sync in the background, detached from the request so a
// client timeout cannot cancel it mid-write.
func (h *Handlers) RunJob(c *gin.Context) {
    kind, err := jobs.Parse(c.Param("job"))
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    go func() { _ = h.run.Run(context.Background(), kind) }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued", "job": string(kind)})
}
