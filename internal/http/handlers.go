/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/boardimport"
    "github.com/angular-dynamo/projectpulse/internal/config"
    "github.com/angular-dynamo/projectpulse/internal/domain"
    "github.com/angular-dynamo/projectpulse/internal/kpi"
    "github.com/angular-dynamo/projectpulse/internal/repo"
    "github.com/angular-dynamo/projectpulse/internal/reports"
    "github.com/angular-dynamo/projectpulse/internal/services"
)

type service interface {
    Dataset(ctx context.Context) (domain.Dataset, error)
    SeedDemo(ctx context.Context) (services.SeedResult, error)
    ClearMock(ctx context.Context) error

    SaveProject(ctx context.Context, p domain.Project) error
    UpdateProject(ctx context.Context, id string, fields map[string]any) error

    SaveStory(ctx context.Context, s domain.Story) error
    UpdateStory(ctx context.Context, id string, fields map[string]any) error
    BulkImportStories(ctx context.Context, stories []domain.Story) (int, error)
    ImportBoard(ctx context.Context, rows []boardimport.Row, projectID, week string) (services.ImportResult, error)

    KPIs(ctx context.Context, projectID, week string) (kpi.Snapshot, error)

    AddTeamMember(ctx context.Context, m domain.TeamMember) error
    UpdateTeamMember(ctx context.Context, id string, fields map[string]any) error
    DeleteTeamMember(ctx context.Context, id string) error

    Milestones(ctx context.Context, projectID string) ([]domain.Milestone, error)
    SaveMilestone(ctx context.Context, m domain.Milestone) error
    UpdateMilestone(ctx context.Context, id string, fields map[string]any) error
    DeleteMilestone(ctx context.Context, id string) error

    SaveReport(ctx context.Context, w domain.WeeklyReport) (domain.WeeklyReport, error)
    ApproveReport(ctx context.Context, id, approver string) (domain.WeeklyReport, error)
    RejectReport(ctx context.Context, id, approver, comment string) (domain.WeeklyReport, error)

    PublishReport(ctx context.Context, rowHTML, week, projectID string) error
    SummarizeWeekly(ctx context.Context, projectID, week string) (services.WeeklySummary, error)
    SuggestMitigation(ctx context.Context, riskDescription string) (string, error)

    RunWeeklySnapshot(ctx context.Context) error
    LastRun(ctx context.Context) (*repo.LastRun, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc}
}

// respondErr maps domain errors onto the {error} envelope: validation 400,
// conflicts 409 (with a duplicates list for bulk imports), missing rows 404,
// everything else 500 with the raw message.
func respondErr(c *gin.Context, err error) {
    var ve *domain.ValidationError
    var dup *domain.DuplicateStoriesError
    switch {
    case errors.As(err, &ve):
        c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
    case errors.As(err, &dup):
        c.JSON(http.StatusConflict, gin.H{
            "error":      "Duplicate story IDs found. Upload rejected to protect existing data.",
            "duplicates": dup.IDs,
        })
    case errors.Is(err, domain.ErrDuplicateEntry), errors.Is(err, reports.ErrNotSubmitted):
        c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    case errors.Is(err, domain.ErrNotFound):
        c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    default:
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    }
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) GetData(c *gin.Context) {
    ds, err := h.svc.Dataset(c.Request.Context())
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, ds)
}

func (h *Handlers) Seed(c *gin.Context) {
    res, err := h.svc.SeedDemo(c.Request.Context())
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, res)
}

func (h *Handlers) ClearMock(c *gin.Context) {
    if err := h.svc.ClearMock(c.Request.Context()); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true, "message": "All mock data cleared."})
}

func (h *Handlers) UpsertProject(c *gin.Context) {
    var p domain.Project
    if err := c.ShouldBindJSON(&p); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if err := h.svc.SaveProject(c.Request.Context(), p); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) UpdateProject(c *gin.Context) {
    h.partialUpdate(c, h.svc.UpdateProject)
}

// partialUpdate binds a free-form JSON object and hands it to a
// whitelist-checked column update.
func (h *Handlers) partialUpdate(c *gin.Context, fn func(ctx context.Context, id string, fields map[string]any) error) {
    var fields map[string]any
    if err := c.ShouldBindJSON(&fields); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if err := fn(c.Request.Context(), c.Param("id"), fields); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) SaveStory(c *gin.Context) {
    var s domain.Story
    if err := c.ShouldBindJSON(&s); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if err := h.svc.SaveStory(c.Request.Context(), s); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) UpdateStory(c *gin.Context) {
    h.partialUpdate(c, h.svc.UpdateStory)
}

func (h *Handlers) BulkStories(c *gin.Context) {
    var stories []domain.Story
    if err := c.ShouldBindJSON(&stories); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if len(stories) == 0 {
        c.JSON(http.StatusOK, gin.H{"success": true})
        return
    }
    n, err := h.svc.BulkImportStories(c.Request.Context(), stories)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true, "inserted": n})
}

func (h *Handlers) ImportBoard(c *gin.Context) {
    var req struct {
        Rows      []boardimport.Row `json:"rows"`
        ProjectID string            `json:"projectId"`
        Week      string            `json:"week"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    res, err := h.svc.ImportBoard(c.Request.Context(), req.Rows, req.ProjectID, req.Week)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, res)
}

func (h *Handlers) KPIs(c *gin.Context) {
    snap, err := h.svc.KPIs(c.Request.Context(), c.Query("projectId"), c.Query("week"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, snap)
}

func (h *Handlers) AddTeamMember(c *gin.Context) {
    var m domain.TeamMember
    if err := c.ShouldBindJSON(&m); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if err := h.svc.AddTeamMember(c.Request.Context(), m); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) UpdateTeamMember(c *gin.Context) {
    h.partialUpdate(c, h.svc.UpdateTeamMember)
}

func (h *Handlers) DeleteTeamMember(c *gin.Context) {
    if err := h.svc.DeleteTeamMember(c.Request.Context(), c.Param("id")); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) ListMilestones(c *gin.Context) {
    ms, err := h.svc.Milestones(c.Request.Context(), c.Query("projectId"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, ms)
}

func (h *Handlers) SaveMilestone(c *gin.Context) {
    var m domain.Milestone
    if err := c.ShouldBindJSON(&m); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if err := h.svc.SaveMilestone(c.Request.Context(), m); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) UpdateMilestone(c *gin.Context) {
    h.partialUpdate(c, h.svc.UpdateMilestone)
}

func (h *Handlers) DeleteMilestone(c *gin.Context) {
    if err := h.svc.DeleteMilestone(c.Request.Context(), c.Param("id")); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) SaveReport(c *gin.Context) {
    var w domain.WeeklyReport
    if err := c.ShouldBindJSON(&w); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    out, err := h.svc.SaveReport(c.Request.Context(), w)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"success": true, "report": out})
}

type approvalBody struct {
    Approver string `json:"approver"`
    Comment  string `json:"comment"`
}

func (h *Handlers) ApproveReport(c *gin.Context) {
    var body approvalBody
    if err := c.ShouldBindJSON(&body); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    out, err := h.svc.ApproveReport(c.Request.Context(), c.Param("id"), body.Approver)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, out)
}

func (h *Handlers) RejectReport(c *gin.Context) {
    var body approvalBody
    if err := c.ShouldBindJSON(&body); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    out, err := h.svc.RejectReport(c.Request.Context(), c.Param("id"), body.Approver, body.Comment)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, out)
}

func (h *Handlers) Publish(c *gin.Context) {
    var req struct {
        ReportRowHTML string `json:"reportRowHtml"`
        Week          string `json:"week"`
        ProjectID     string `json:"projectId"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if err := h.svc.PublishReport(c.Request.Context(), req.ReportRowHTML, req.Week, req.ProjectID); err != nil {
        respondErr(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) SummarizeWeekly(c *gin.Context) {
    var req struct {
        ProjectID string `json:"projectId"`
        Week      string `json:"week"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    sum, err := h.svc.SummarizeWeekly(c.Request.Context(), req.ProjectID, req.Week)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sum)
}

func (h *Handlers) SuggestMitigation(c *gin.Context) {
    var req struct {
        RiskDescription string `json:"riskDescription"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    m, err := h.svc.SuggestMitigation(c.Request.Context(), req.RiskDescription)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"mitigation": m})
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr, err := h.svc.LastRun(c.Request.Context())
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, lr)
}

func (h *Handlers) RunNow(c *gin.Context) {
    // Detached from the request context so a closed connection cannot
    // cancel the snapshot mid-write.
    go func() { _ = h.svc.RunWeeklySnapshot(context.Background()) }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
