/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/angular-dynamo/projectpulse/internal/adapters/ai"
    "github.com/angular-dynamo/projectpulse/internal/adapters/confluence"
    "github.com/angular-dynamo/projectpulse/internal/config"
    httpapi "github.com/angular-dynamo/projectpulse/internal/http"
    "github.com/angular-dynamo/projectpulse/internal/jobs"
    "github.com/angular-dynamo/projectpulse/internal/logger"
    "github.com/angular-dynamo/projectpulse/internal/repo"
    "github.com/angular-dynamo/projectpulse/internal/services"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    // DB
    db := repo.MustOpen(ctx, cfg, log)
    defer db.Close()

    repository := repo.NewRepository(db, log)
    if err := repository.EnsureSchema(ctx); err != nil {
        log.Fatal().Err(err).Msg("schema migration failed")
    }

    // Adapters
    wiki := confluence.NewClient(cfg, log)
    llm := ai.NewClient(cfg, log)
    if !wiki.Configured() {
        log.Warn().Msg("confluence not configured; publish endpoint will fail")
    }

    svc := services.New(cfg, log, repository, wiki, llm)

    // HTTP server (Gin)
    router := httpapi.NewRouter(cfg, log, svc)

    // Cron
    cr := jobs.NewCron(cfg, log, svc)
    cr.Start()
    defer cr.Stop()

    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
