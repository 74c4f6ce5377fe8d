package http

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/boardimport"
    "github.com/angular-dynamo/projectpulse/internal/config"
    "github.com/angular-dynamo/projectpulse/internal/domain"
    "github.com/angular-dynamo/projectpulse/internal/kpi"
    "github.com/angular-dynamo/projectpulse/internal/repo"
    "github.com/angular-dynamo/projectpulse/internal/reports"
    "github.com/angular-dynamo/projectpulse/internal/services"
)

type mockService struct {
    dataset        func(ctx context.Context) (domain.Dataset, error)
    seedDemo       func(ctx context.Context) (services.SeedResult, error)
    clearMock      func(ctx context.Context) error
    saveProject    func(ctx context.Context, p domain.Project) error
    updateProject  func(ctx context.Context, id string, fields map[string]any) error
    bulkImport     func(ctx context.Context, stories []domain.Story) (int, error)
    importBoard    func(ctx context.Context, rows []boardimport.Row, projectID, week string) (services.ImportResult, error)
    kpis           func(ctx context.Context, projectID, week string) (kpi.Snapshot, error)
    saveReport     func(ctx context.Context, w domain.WeeklyReport) (domain.WeeklyReport, error)
    approveReport  func(ctx context.Context, id, approver string) (domain.WeeklyReport, error)
    rejectReport   func(ctx context.Context, id, approver, comment string) (domain.WeeklyReport, error)
    publish        func(ctx context.Context, rowHTML, week, projectID string) error
    summarize      func(ctx context.Context, projectID, week string) (services.WeeklySummary, error)
    mitigation     func(ctx context.Context, riskDescription string) (string, error)
    runSnapshot    func(ctx context.Context) error
    lastRun        func(ctx context.Context) (*repo.LastRun, error)
}

func (m *mockService) Dataset(ctx context.Context) (domain.Dataset, error) {
    if m.dataset != nil { return m.dataset(ctx) }
    return domain.Dataset{}, nil
}
func (m *mockService) SeedDemo(ctx context.Context) (services.SeedResult, error) {
    if m.seedDemo != nil { return m.seedDemo(ctx) }
    return services.SeedResult{}, nil
}
func (m *mockService) ClearMock(ctx context.Context) error {
    if m.clearMock != nil { return m.clearMock(ctx) }
    return nil
}
func (m *mockService) SaveProject(ctx context.Context, p domain.Project) error {
    if m.saveProject != nil { return m.saveProject(ctx, p) }
    return nil
}
func (m *mockService) UpdateProject(ctx context.Context, id string, fields map[string]any) error {
    if m.updateProject != nil { return m.updateProject(ctx, id, fields) }
    return nil
}
func (m *mockService) SaveStory(ctx context.Context, s domain.Story) error  { return nil }
func (m *mockService) UpdateStory(ctx context.Context, id string, fields map[string]any) error {
    return nil
}
func (m *mockService) BulkImportStories(ctx context.Context, stories []domain.Story) (int, error) {
    if m.bulkImport != nil { return m.bulkImport(ctx, stories) }
    return len(stories), nil
}
func (m *mockService) ImportBoard(ctx context.Context, rows []boardimport.Row, projectID, week string) (services.ImportResult, error) {
    if m.importBoard != nil { return m.importBoard(ctx, rows, projectID, week) }
    return services.ImportResult{}, nil
}
func (m *mockService) KPIs(ctx context.Context, projectID, week string) (kpi.Snapshot, error) {
    if m.kpis != nil { return m.kpis(ctx, projectID, week) }
    return kpi.Snapshot{}, nil
}
func (m *mockService) AddTeamMember(ctx context.Context, mm domain.TeamMember) error { return nil }
func (m *mockService) UpdateTeamMember(ctx context.Context, id string, fields map[string]any) error {
    return nil
}
func (m *mockService) DeleteTeamMember(ctx context.Context, id string) error { return nil }
func (m *mockService) Milestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
    return []domain.Milestone{}, nil
}
func (m *mockService) SaveMilestone(ctx context.Context, mm domain.Milestone) error { return nil }
func (m *mockService) UpdateMilestone(ctx context.Context, id string, fields map[string]any) error {
    return nil
}
func (m *mockService) DeleteMilestone(ctx context.Context, id string) error { return nil }
func (m *mockService) SaveReport(ctx context.Context, w domain.WeeklyReport) (domain.WeeklyReport, error) {
    if m.saveReport != nil { return m.saveReport(ctx, w) }
    return w, nil
}
func (m *mockService) ApproveReport(ctx context.Context, id, approver string) (domain.WeeklyReport, error) {
    if m.approveReport != nil { return m.approveReport(ctx, id, approver) }
    return domain.WeeklyReport{}, nil
}
func (m *mockService) RejectReport(ctx context.Context, id, approver, comment string) (domain.WeeklyReport, error) {
    if m.rejectReport != nil { return m.rejectReport(ctx, id, approver, comment) }
    return domain.WeeklyReport{}, nil
}
func (m *mockService) PublishReport(ctx context.Context, rowHTML, week, projectID string) error {
    if m.publish != nil { return m.publish(ctx, rowHTML, week, projectID) }
    return nil
}
func (m *mockService) SummarizeWeekly(ctx context.Context, projectID, week string) (services.WeeklySummary, error) {
    if m.summarize != nil { return m.summarize(ctx, projectID, week) }
    return services.WeeklySummary{}, nil
}
func (m *mockService) SuggestMitigation(ctx context.Context, riskDescription string) (string, error) {
    if m.mitigation != nil { return m.mitigation(ctx, riskDescription) }
    return "", nil
}
func (m *mockService) RunWeeklySnapshot(ctx context.Context) error {
    if m.runSnapshot != nil { return m.runSnapshot(ctx) }
    return nil
}
func (m *mockService) LastRun(ctx context.Context) (*repo.LastRun, error) {
    if m.lastRun != nil { return m.lastRun(ctx) }
    return nil, domain.ErrNotFound
}

func newTestRouter(svc service) *httptest.Server {
    r := NewRouter(config.Config{AppEnv: "test"}, zerolog.Nop(), svc)
    return httptest.NewServer(r)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
    t.Helper()
    defer resp.Body.Close()
    var m map[string]any
    if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
        t.Fatalf("decode body: %v", err)
    }
    return m
}

func TestGetDataReturnsAllCollections(t *testing.T) {
    svc := &mockService{
        dataset: func(ctx context.Context) (domain.Dataset, error) {
            return domain.Dataset{
                Projects:      []domain.Project{{ID: "proj1", Name: "Customer Portal Redesign"}},
                TeamMembers:   []domain.TeamMember{},
                JiraStories:   []domain.Story{},
                Milestones:    []domain.Milestone{},
                Sprints:       []domain.Sprint{},
                Risks:         []domain.Risk{},
                LeaveEntries:  []domain.LeaveEntry{},
                WeeklyReports: []domain.WeeklyReport{},
            }, nil
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Get(ts.URL + "/api/data")
    if err != nil { t.Fatalf("get: %v", err) }
    if resp.StatusCode != http.StatusOK { t.Fatalf("status = %d", resp.StatusCode) }
    body := decode(t, resp)
    for _, key := range []string{"projects", "teamMembers", "jiraStories", "milestones", "sprints", "risks", "leaveEntries", "weeklyReports"} {
        if _, ok := body[key]; !ok { t.Fatalf("missing collection %q in %v", key, body) }
    }
    if body["teamMembers"] == nil { t.Fatal("empty collection serialized as null") }
}

func TestBulkStoriesDuplicateConflict(t *testing.T) {
    svc := &mockService{
        bulkImport: func(ctx context.Context, stories []domain.Story) (int, error) {
            return 0, &domain.DuplicateStoriesError{IDs: []string{"CPR-101", "CPR-102"}}
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Post(ts.URL+"/api/stories/bulk", "application/json",
        strings.NewReader(`[{"id":"CPR-101"},{"id":"CPR-102"}]`))
    if err != nil { t.Fatalf("post: %v", err) }
    if resp.StatusCode != http.StatusConflict { t.Fatalf("status = %d, want 409", resp.StatusCode) }
    body := decode(t, resp)
    dups, ok := body["duplicates"].([]any)
    if !ok || len(dups) != 2 { t.Fatalf("duplicates = %v", body["duplicates"]) }
    if dups[0] != "CPR-101" { t.Fatalf("duplicates[0] = %v", dups[0]) }
}

func TestBulkStoriesEmptyBodyIsNoop(t *testing.T) {
    called := false
    svc := &mockService{
        bulkImport: func(ctx context.Context, stories []domain.Story) (int, error) {
            called = true
            return 0, nil
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Post(ts.URL+"/api/stories/bulk", "application/json", strings.NewReader(`[]`))
    if err != nil { t.Fatalf("post: %v", err) }
    if resp.StatusCode != http.StatusOK { t.Fatalf("status = %d", resp.StatusCode) }
    if called { t.Fatal("empty batch reached the service") }
}

func TestPublishDuplicateMapsTo409(t *testing.T) {
    svc := &mockService{
        publish: func(ctx context.Context, rowHTML, week, projectID string) error {
            return domain.ErrDuplicateEntry
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Post(ts.URL+"/api/confluence/publish", "application/json",
        strings.NewReader(`{"reportRowHtml":"<tr></tr>","week":"2026-W08","projectId":"proj1"}`))
    if err != nil { t.Fatalf("post: %v", err) }
    if resp.StatusCode != http.StatusConflict { t.Fatalf("status = %d, want 409", resp.StatusCode) }
}

func TestSummarizeNoStoriesMapsTo400(t *testing.T) {
    svc := &mockService{
        summarize: func(ctx context.Context, projectID, week string) (services.WeeklySummary, error) {
            return services.WeeklySummary{}, domain.Invalid("week", "No stories found for this project & week")
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Post(ts.URL+"/api/ai/summarize-weekly", "application/json",
        strings.NewReader(`{"projectId":"proj1","week":"2026-W01"}`))
    if err != nil { t.Fatalf("post: %v", err) }
    if resp.StatusCode != http.StatusBadRequest { t.Fatalf("status = %d, want 400", resp.StatusCode) }
    body := decode(t, resp)
    if body["error"] != "No stories found for this project & week" {
        t.Fatalf("error = %v", body["error"])
    }
}

func TestApproveUnsubmittedMapsTo409(t *testing.T) {
    svc := &mockService{
        approveReport: func(ctx context.Context, id, approver string) (domain.WeeklyReport, error) {
            return domain.WeeklyReport{}, reports.ErrNotSubmitted
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Post(ts.URL+"/api/reports/wr1/approve", "application/json",
        strings.NewReader(`{"approver":"David Park"}`))
    if err != nil { t.Fatalf("post: %v", err) }
    if resp.StatusCode != http.StatusConflict { t.Fatalf("status = %d, want 409", resp.StatusCode) }
}

func TestUpdateProjectUnknownFieldMapsTo400(t *testing.T) {
    svc := &mockService{
        updateProject: func(ctx context.Context, id string, fields map[string]any) error {
            return domain.Invalid("dropTable", "unknown field %q for projects", "dropTable")
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/projects/proj1",
        strings.NewReader(`{"dropTable":"x"}`))
    req.Header.Set("Content-Type", "application/json")
    resp, err := http.DefaultClient.Do(req)
    if err != nil { t.Fatalf("put: %v", err) }
    if resp.StatusCode != http.StatusBadRequest { t.Fatalf("status = %d, want 400", resp.StatusCode) }
}

func TestSeedPassesResultThrough(t *testing.T) {
    svc := &mockService{
        seedDemo: func(ctx context.Context) (services.SeedResult, error) {
            return services.SeedResult{Seeded: false, Message: "Database already has data — skipping seed."}, nil
        },
    }
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Post(ts.URL+"/api/seed", "application/json", strings.NewReader(`{}`))
    if err != nil { t.Fatalf("post: %v", err) }
    if resp.StatusCode != http.StatusOK { t.Fatalf("status = %d", resp.StatusCode) }
    body := decode(t, resp)
    if body["seeded"] != false { t.Fatalf("seeded = %v", body["seeded"]) }
}

func TestRunNowQueues(t *testing.T) {
    svc := &mockService{}
    ts := newTestRouter(svc)
    defer ts.Close()

    resp, err := http.Post(ts.URL+"/admin/run", "application/json", nil)
    if err != nil { t.Fatalf("post: %v", err) }
    if resp.StatusCode != http.StatusAccepted { t.Fatalf("status = %d, want 202", resp.StatusCode) }
}

func TestHealthz(t *testing.T) {
    ts := newTestRouter(&mockService{})
    defer ts.Close()

    resp, err := http.Get(ts.URL + "/healthz")
    if err != nil { t.Fatalf("get: %v", err) }
    if resp.StatusCode != http.StatusOK { t.Fatalf("status = %d", resp.StatusCode) }
}
