/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/adapters/confluence"
    "github.com/angular-dynamo/projectpulse/internal/boardimport"
    "github.com/angular-dynamo/projectpulse/internal/config"
    "github.com/angular-dynamo/projectpulse/internal/domain"
    "github.com/angular-dynamo/projectpulse/internal/kpi"
    "github.com/angular-dynamo/projectpulse/internal/repo"
    "github.com/angular-dynamo/projectpulse/internal/reports"
)

// Store is the persistence surface the service depends on. Tests embed the
// interface in a fake and override only what a case touches.
type Store interface {
    LoadDataset(ctx context.Context) (domain.Dataset, error)
    CountProjects(ctx context.Context) (int, error)
    SeedDemo(ctx context.Context) error
    ClearMock(ctx context.Context) error

    UpsertProject(ctx context.Context, p domain.Project) error
    UpdateProject(ctx context.Context, id string, fields map[string]any) error

    UpsertStory(ctx context.Context, s domain.Story) error
    UpdateStory(ctx context.Context, id string, fields map[string]any) error
    BulkUpsertStories(ctx context.Context, stories []domain.Story) error
    StoriesByProjectWeek(ctx context.Context, projectID, week string) ([]domain.Story, error)

    InsertTeamMember(ctx context.Context, m domain.TeamMember) error
    UpdateTeamMember(ctx context.Context, id string, fields map[string]any) error
    DeleteTeamMember(ctx context.Context, id string) error

    ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error)
    UpsertMilestone(ctx context.Context, m domain.Milestone) error
    UpdateMilestone(ctx context.Context, id string, fields map[string]any) error
    DeleteMilestone(ctx context.Context, id string) error

    UpsertReport(ctx context.Context, w domain.WeeklyReport) error
    GetReport(ctx context.Context, id string) (domain.WeeklyReport, error)
    FindReport(ctx context.Context, projectID, week string) (domain.WeeklyReport, error)

    TryAdvisoryLock(ctx context.Context, key int64) (bool, error)
    AdvisoryUnlock(ctx context.Context, key int64) error
    UpsertKPIValues(ctx context.Context, week, projectID string, values map[string]float64) error
    StartJobRun(ctx context.Context) (int64, error)
    FinishJobRun(ctx context.Context, id int64, projectsSeen int, success bool, errStr string) error
    GetLastRun(ctx context.Context) (*repo.LastRun, error)
}

// Wiki is the Confluence page surface used by the publisher.
type Wiki interface {
    GetPage(ctx context.Context) (confluence.Page, error)
    UpdatePage(ctx context.Context, title string, version int, newBody string) error
}

// LLM is a single chat-completion exchange.
type LLM interface {
    Complete(ctx context.Context, system, user string) (string, error)
}

type Service struct {
    cfg  config.Config
    log  zerolog.Logger
    repo Store
    wiki Wiki
    llm  LLM
    now  func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, store Store, wiki Wiki, llm LLM) *Service {
    return &Service{cfg: cfg, log: log, repo: store, wiki: wiki, llm: llm, now: time.Now}
}

// ---- Dataset / demo data ----

// Dataset returns the whole store; empty collections come back as empty
// arrays, never null, so clients can index without guards.
func (s *Service) Dataset(ctx context.Context) (domain.Dataset, error) {
    ds, err := s.repo.LoadDataset(ctx)
    if err != nil { return ds, err }
    if ds.Projects == nil { ds.Projects = []domain.Project{} }
    if ds.TeamMembers == nil { ds.TeamMembers = []domain.TeamMember{} }
    if ds.JiraStories == nil { ds.JiraStories = []domain.Story{} }
    if ds.Milestones == nil { ds.Milestones = []domain.Milestone{} }
    if ds.Sprints == nil { ds.Sprints = []domain.Sprint{} }
    if ds.Risks == nil { ds.Risks = []domain.Risk{} }
    if ds.LeaveEntries == nil { ds.LeaveEntries = []domain.LeaveEntry{} }
    if ds.WeeklyReports == nil { ds.WeeklyReports = []domain.WeeklyReport{} }
    return ds, nil
}

type SeedResult struct {
    Seeded  bool   `json:"seeded"`
    Message string `json:"message"`
}

// SeedDemo loads the demo dataset only into an empty store.
func (s *Service) SeedDemo(ctx context.Context) (SeedResult, error) {
    n, err := s.repo.CountProjects(ctx)
    if err != nil { return SeedResult{}, err }
    if n > 0 {
        return SeedResult{Seeded: false, Message: "Database already has data — skipping seed."}, nil
    }
    if err := s.repo.SeedDemo(ctx); err != nil { return SeedResult{}, err }
    return SeedResult{Seeded: true, Message: "Mock data seeded successfully."}, nil
}

func (s *Service) ClearMock(ctx context.Context) error { return s.repo.ClearMock(ctx) }

// ---- Projects ----

// SaveProject fills the sparse-upload defaults before upserting.
func (s *Service) SaveProject(ctx context.Context, p domain.Project) error {
    if p.ID == "" || p.Name == "" {
        return domain.Invalid("id", "id and name are required")
    }
    if p.Code == "" {
        code := p.ID
        if len(code) > 8 { code = code[:8] }
        p.Code = strings.ToUpper(code)
    }
    if p.ProjectType == "" { p.ProjectType = "scrum" }
    if p.OwnerID == "" { p.OwnerID = "admin0" }
    if p.StartDate == "" { p.StartDate = s.now().UTC().Format("2006-01-02") }
    if p.Status == "" { p.Status = domain.MilestoneOnTrack }
    if p.RAGStatus == "" { p.RAGStatus = domain.RAGGreen }
    return s.repo.UpsertProject(ctx, p)
}

func (s *Service) UpdateProject(ctx context.Context, id string, fields map[string]any) error {
    return s.repo.UpdateProject(ctx, id, fields)
}

// ---- Stories ----

func (s *Service) SaveStory(ctx context.Context, story domain.Story) error {
    return s.repo.UpsertStory(ctx, story)
}

func (s *Service) UpdateStory(ctx context.Context, id string, fields map[string]any) error {
    return s.repo.UpdateStory(ctx, id, fields)
}

// BulkImportStories refuses the whole batch on any id collision with real
// rows; the store enforces all-or-nothing.
func (s *Service) BulkImportStories(ctx context.Context, stories []domain.Story) (int, error) {
    if len(stories) == 0 { return 0, nil }
    if err := s.repo.BulkUpsertStories(ctx, stories); err != nil { return 0, err }
    return len(stories), nil
}

type ImportResult struct {
    Success  bool `json:"success"`
    Imported int  `json:"imported"`
    Projects int  `json:"projects"`
}

// ImportBoard normalizes raw spreadsheet rows, upserts the projects they
// reference and bulk-inserts the stories.
func (s *Service) ImportBoard(ctx context.Context, rows []boardimport.Row, projectID, week string) (ImportResult, error) {
    res, err := boardimport.Transform(rows, projectID, week)
    if err != nil { return ImportResult{}, err }
    for _, p := range res.Projects {
        if err := s.SaveProject(ctx, p); err != nil { return ImportResult{}, err }
    }
    if _, err := s.BulkImportStories(ctx, res.Stories); err != nil { return ImportResult{}, err }
    return ImportResult{Success: true, Imported: len(res.Stories), Projects: len(res.Projects)}, nil
}

// ---- KPIs ----

// KPIs computes the live snapshot; empty projectID means all projects.
func (s *Service) KPIs(ctx context.Context, projectID, week string) (kpi.Snapshot, error) {
    ds, err := s.repo.LoadDataset(ctx)
    if err != nil { return kpi.Snapshot{}, err }
    return kpi.Compute(ds, projectID, week), nil
}

// ---- Team members ----

func (s *Service) AddTeamMember(ctx context.Context, m domain.TeamMember) error {
    if m.ID == "" { return domain.Invalid("id", "id is required") }
    return s.repo.InsertTeamMember(ctx, m)
}

func (s *Service) UpdateTeamMember(ctx context.Context, id string, fields map[string]any) error {
    return s.repo.UpdateTeamMember(ctx, id, fields)
}

func (s *Service) DeleteTeamMember(ctx context.Context, id string) error {
    return s.repo.DeleteTeamMember(ctx, id)
}

// ---- Milestones ----

func (s *Service) Milestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
    ms, err := s.repo.ListMilestones(ctx, projectID)
    if ms == nil && err == nil { ms = []domain.Milestone{} }
    return ms, err
}

func (s *Service) SaveMilestone(ctx context.Context, m domain.Milestone) error {
    if m.ID == "" { return domain.Invalid("id", "id is required") }
    return s.repo.UpsertMilestone(ctx, m)
}

func (s *Service) UpdateMilestone(ctx context.Context, id string, fields map[string]any) error {
    return s.repo.UpdateMilestone(ctx, id, fields)
}

func (s *Service) DeleteMilestone(ctx context.Context, id string) error {
    return s.repo.DeleteMilestone(ctx, id)
}

// ---- Weekly reports ----

// SaveReport stores a report. Incoming drafts (or payloads without an
// explicit status) are routed through the submit transition so a draft is
// never persisted; anything already carrying a workflow status is an
// insert-or-replace.
func (s *Service) SaveReport(ctx context.Context, w domain.WeeklyReport) (domain.WeeklyReport, error) {
    if w.ProjectID == "" || w.Week == "" {
        return domain.WeeklyReport{}, domain.Invalid("projectId", "projectId and week are required")
    }
    if w.Status == "" || w.Status == domain.ReportDraft {
        var existing *domain.WeeklyReport
        var err error
        var cur domain.WeeklyReport
        if w.ID != "" {
            cur, err = s.repo.GetReport(ctx, w.ID)
        } else {
            cur, err = s.repo.FindReport(ctx, w.ProjectID, w.Week)
        }
        if err == nil {
            existing = &cur
        } else if !errors.Is(err, domain.ErrNotFound) {
            return domain.WeeklyReport{}, err
        }
        d := reports.Draft{
            ProjectID: w.ProjectID, Week: w.Week, RAGStatus: w.RAGStatus,
            Accomplishments: w.Accomplishments, NextWeekPlan: w.NextWeekPlan,
            RisksMitigation: w.RisksMitigation, Blockers: w.Blockers, PreparedBy: w.PreparedBy,
        }
        out := reports.Submit(existing, d, s.now())
        if existing == nil && w.ID != "" { out.ID = w.ID }
        if err := s.repo.UpsertReport(ctx, out); err != nil { return domain.WeeklyReport{}, err }
        return out, nil
    }
    if w.ID == "" { return domain.WeeklyReport{}, domain.Invalid("id", "id is required") }
    if w.CreatedAt == "" { w.CreatedAt = s.now().UTC().Format(time.RFC3339) }
    if w.UpdatedAt == "" { w.UpdatedAt = w.CreatedAt }
    if err := s.repo.UpsertReport(ctx, w); err != nil { return domain.WeeklyReport{}, err }
    return w, nil
}

func (s *Service) ApproveReport(ctx context.Context, id, approver string) (domain.WeeklyReport, error) {
    cur, err := s.repo.GetReport(ctx, id)
    if err != nil { return domain.WeeklyReport{}, err }
    out, err := reports.Approve(cur, approver, s.now())
    if err != nil { return domain.WeeklyReport{}, err }
    if err := s.repo.UpsertReport(ctx, out); err != nil { return domain.WeeklyReport{}, err }
    return out, nil
}

func (s *Service) RejectReport(ctx context.Context, id, approver, comment string) (domain.WeeklyReport, error) {
    cur, err := s.repo.GetReport(ctx, id)
    if err != nil { return domain.WeeklyReport{}, err }
    out, err := reports.Reject(cur, approver, comment, s.now())
    if err != nil { return domain.WeeklyReport{}, err }
    if err := s.repo.UpsertReport(ctx, out); err != nil { return domain.WeeklyReport{}, err }
    return out, nil
}

// ---- Confluence publish ----

type conflictError string

func (e conflictError) Error() string { return string(e) }
func (e conflictError) Unwrap() error { return domain.ErrDuplicateEntry }

const statusTableHeader = `<table><thead><tr><th>Week</th><th>Project</th><th>RAG</th>` +
    `<th>Accomplishments</th><th>Next Week Plan</th><th>Risks &amp; Mitigation</th>` +
    `<th>Blockers</th><th>Prepared By</th><th>Approved By</th><th>Updated</th></tr></thead>`

// PublishReport appends a pre-rendered status row to the shared Confluence
// page. A page already carrying a cell for this week and project is a
// conflict; the page is left untouched.
func (s *Service) PublishReport(ctx context.Context, rowHTML, week, projectID string) error {
    if rowHTML == "" || week == "" || projectID == "" {
        return domain.Invalid("reportRowHtml", "reportRowHtml, week and projectId are required")
    }
    page, err := s.wiki.GetPage(ctx)
    if err != nil { return err }
    if strings.Contains(page.Body, ">"+week+"<") && strings.Contains(page.Body, ">"+projectID+"<") {
        return conflictError("Duplicate entry for this week and project")
    }
    content := page.Body
    switch {
    case strings.Contains(content, "</tbody>"):
        idx := strings.LastIndex(content, "</tbody>")
        content = content[:idx] + rowHTML + content[idx:]
    case strings.Contains(content, "</table>"):
        idx := strings.LastIndex(content, "</table>")
        content = content[:idx] + "<tbody>" + rowHTML + "</tbody>" + content[idx:]
    default:
        content += statusTableHeader + "<tbody>" + rowHTML + "</tbody></table>"
    }
    return s.wiki.UpdatePage(ctx, page.Title, page.Version, content)
}

// ---- AI features ----

const aiSystemPrompt = "You are an expert TPM-input director."

type WeeklySummary struct {
    Accomplishments string `json:"accomplishments"`
    NextWeekPlan    string `json:"nextWeekPlan"`
    Blockers        string `json:"blockers"`
}

func orNA(s string) string {
    if s == "" { return "N/A" }
    return s
}

func summaryPrompt(stories []domain.Story) string {
    var b strings.Builder
    b.WriteString(`
You are a TPM-input director. Analyze the following project update tracking information and generate a concise weekly summary.
Focus on identifying real progress, blockers, and next steps across teams based on descriptions, status, and comments.

Stories:
`)
    for i, st := range stories {
        if i > 0 { b.WriteString("\n\n") }
        fmt.Fprintf(&b, `- Title: %s
  Status: %s
  Story Points: %d
  Description: %s
  Comments: %s
  Risks & Mitigation: %s
  Blockers: %s
  Pulled Date: %s`,
            st.Title, st.Status, st.StoryPoints, orNA(st.Description), orNA(st.Comments),
            orNA(st.RisksMitigation), orNA(st.Blockers), orNA(st.PulledDate))
    }
    b.WriteString(`

Please return ONLY a JSON object with strictly these keys:
{
  "accomplishments": "Brief summary of Completed/Done work...",
  "nextWeekPlan": "Brief summary of To Do/In Progress work and next actions...",
  "blockers": "Any risks/blockers identified..."
}`)
    return b.String()
}

// stripFences unwraps a completion that came back inside a markdown code
// block.
func stripFences(s string) string {
    s = strings.TrimSpace(s)
    switch {
    case strings.HasPrefix(s, "```json"):
        s = strings.TrimPrefix(s, "```json")
    case strings.HasPrefix(s, "```"):
        s = strings.TrimPrefix(s, "```")
    }
    s = strings.TrimSuffix(strings.TrimSpace(s), "```")
    return strings.TrimSpace(s)
}

// SummarizeWeekly drafts report narrative fields from the stories of one
// project-week.
func (s *Service) SummarizeWeekly(ctx context.Context, projectID, week string) (WeeklySummary, error) {
    stories, err := s.repo.StoriesByProjectWeek(ctx, projectID, week)
    if err != nil { return WeeklySummary{}, err }
    if len(stories) == 0 {
        return WeeklySummary{}, domain.Invalid("week", "No stories found for this project & week")
    }
    out, err := s.llm.Complete(ctx, aiSystemPrompt, summaryPrompt(stories))
    if err != nil { return WeeklySummary{}, err }
    var sum WeeklySummary
    if err := json.Unmarshal([]byte(stripFences(out)), &sum); err != nil {
        s.log.Warn().Err(err).Str("project", projectID).Msg("unparseable summary completion")
        return WeeklySummary{}, fmt.Errorf("failed to generate summary with AI: %w", err)
    }
    return sum, nil
}

// SuggestMitigation proposes a one-liner mitigation for a described risk.
func (s *Service) SuggestMitigation(ctx context.Context, riskDescription string) (string, error) {
    if strings.TrimSpace(riskDescription) == "" {
        return "", domain.Invalid("riskDescription", "Risk description is required")
    }
    prompt := "You are a TPM-input director. Based on the following project risk, suggest a concise and actionable mitigation strategy (1-2 sentences max).\n\n" +
        "Risk: " + riskDescription + "\n\nReturn ONLY a JSON object with this key: { \"mitigation\": \"...\" }"
    out, err := s.llm.Complete(ctx, aiSystemPrompt, prompt)
    if err != nil { return "", err }
    var parsed struct {
        Mitigation string `json:"mitigation"`
    }
    if err := json.Unmarshal([]byte(stripFences(out)), &parsed); err != nil {
        return "", fmt.Errorf("failed to generate mitigation with AI: %w", err)
    }
    return parsed.Mitigation, nil
}

// ---- Weekly KPI snapshot job ----

// Lock key shared by cron and the manual trigger so two instances never
// snapshot concurrently.
const snapshotLockKey int64 = 7233041

func isoWeek(t time.Time) string {
    y, w := t.ISOWeek()
    return fmt.Sprintf("%d-W%02d", y, w)
}

// RunWeeklySnapshot persists the KPI series for the current ISO week, one
// row per (project, kpi) plus the all-projects rollup under project "all".
func (s *Service) RunWeeklySnapshot(ctx context.Context) error {
    ok, err := s.repo.TryAdvisoryLock(ctx, snapshotLockKey)
    if err != nil { return err }
    if !ok {
        s.log.Info().Msg("snapshot already running elsewhere; skipping")
        return nil
    }
    defer func() {
        if err := s.repo.AdvisoryUnlock(ctx, snapshotLockKey); err != nil {
            s.log.Warn().Err(err).Msg("advisory unlock failed")
        }
    }()

    runID, err := s.repo.StartJobRun(ctx)
    if err != nil { return err }
    week := isoWeek(s.now())
    seen := 0
    runErr := func() error {
        ds, err := s.repo.LoadDataset(ctx)
        if err != nil { return err }
        for _, p := range ds.Projects {
            snap := kpi.Compute(ds, p.ID, "")
            if err := s.repo.UpsertKPIValues(ctx, week, p.ID, snap.Values()); err != nil { return err }
            seen++
        }
        all := kpi.Compute(ds, "", "")
        return s.repo.UpsertKPIValues(ctx, week, "all", all.Values())
    }()

    errStr := ""
    if runErr != nil { errStr = runErr.Error() }
    if err := s.repo.FinishJobRun(ctx, runID, seen, runErr == nil, errStr); err != nil {
        s.log.Warn().Err(err).Msg("job run bookkeeping failed")
    }
    if runErr != nil {
        s.log.Error().Err(runErr).Str("week", week).Msg("weekly snapshot failed")
        return runErr
    }
    s.log.Info().Str("week", week).Int("projects", seen).Msg("weekly snapshot complete")
    return nil
}

func (s *Service) LastRun(ctx context.Context) (*repo.LastRun, error) {
    return s.repo.GetLastRun(ctx)
}
