/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/config"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc service) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context) {
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, svc)

    r.GET("/healthz", h.Healthz)
    r.GET("/admin/last-run", h.LastRun)
    r.POST("/admin/run", h.RunNow)

    api := r.Group("/api")
    {
        api.GET("/data", h.GetData)
        api.GET("/kpis", h.KPIs)

        api.POST("/seed", h.Seed)
        api.DELETE("/seed/clear", h.ClearMock)

        api.POST("/projects/upsert", h.UpsertProject)
        api.PUT("/projects/:id", h.UpdateProject)

        api.POST("/stories", h.SaveStory)
        api.PUT("/stories/:id", h.UpdateStory)
        api.POST("/stories/bulk", h.BulkStories)
        api.POST("/stories/import", h.ImportBoard)

        api.POST("/team_members", h.AddTeamMember)
        api.PUT("/team_members/:id", h.UpdateTeamMember)
        api.DELETE("/team_members/:id", h.DeleteTeamMember)

        api.GET("/milestones", h.ListMilestones)
        api.POST("/milestones", h.SaveMilestone)
        api.PUT("/milestones/:id", h.UpdateMilestone)
        api.DELETE("/milestones/:id", h.DeleteMilestone)

        api.POST("/reports", h.SaveReport)
        api.POST("/reports/:id/approve", h.ApproveReport)
        api.POST("/reports/:id/reject", h.RejectReport)

        api.POST("/confluence/publish", h.Publish)

        api.POST("/ai/summarize-weekly", h.SummarizeWeekly)
        api.POST("/ai/suggest-mitigation", h.SuggestMitigation)
    }

    return r
}
