package repo

import (
    "context"

    "github.com/jackc/pgx/v5"

    "github.com/angular-dynamo/projectpulse/internal/domain"
)

// Demo dataset for first-run evaluation. Everything here is written with
// is_mock=true so ClearMock can wipe it without touching real rows.

var seedProjects = []domain.Project{
    {ID: "proj1", Name: "Customer Portal Redesign", Code: "CPR", OwnerID: "tpm1", ProjectType: "scrum", Status: "on-track", RAGStatus: "green", StartDate: "2026-01-05", EndDate: "2026-06-30", Budget: 450000, BudgetSpent: 178000, Description: "Complete redesign of the customer-facing portal with new UX and microservices backend."},
    {ID: "proj2", Name: "Data Analytics Platform", Code: "DAP", OwnerID: "tpm1", ProjectType: "kanban", Status: "at-risk", RAGStatus: "amber", StartDate: "2026-01-12", EndDate: "2026-08-31", Budget: 620000, BudgetSpent: 310000, Description: "Real-time analytics and reporting platform with ML-driven insights."},
    {ID: "proj3", Name: "Mobile App V2", Code: "MAV2", OwnerID: "tpm1", ProjectType: "azure_boards", Status: "delayed", RAGStatus: "red", StartDate: "2025-11-01", EndDate: "2026-04-30", Budget: 280000, BudgetSpent: 195000, Description: "Second major version of the mobile application with offline-first architecture."},
}

var seedMembers = []domain.TeamMember{
    {ID: "tm1", Name: "Priya Sharma", Role: "Frontend Lead", AppRole: "developer", Avatar: "PS", Email: "priya@acme.com", TotalHoursPerWeek: 40},
    {ID: "tm2", Name: "Rahul Verma", Role: "Backend Engineer", AppRole: "developer", Avatar: "RV", Email: "rahul@acme.com", TotalHoursPerWeek: 40},
    {ID: "tm3", Name: "Sarah Chen", Role: "QA Engineer", AppRole: "developer", Avatar: "SC", Email: "sarah@acme.com", TotalHoursPerWeek: 40},
    {ID: "tm4", Name: "James Wilson", Role: "DevOps Engineer", AppRole: "developer", Avatar: "JW", Email: "james@acme.com", TotalHoursPerWeek: 40},
    {ID: "tm5", Name: "Meera Nair", Role: "Full Stack Dev", AppRole: "developer", Avatar: "MN", Email: "meera@acme.com", TotalHoursPerWeek: 40},
    {ID: "tm6", Name: "Alex Thompson", Role: "Tech Lead", AppRole: "developer", Avatar: "AT", Email: "alex@acme.com", TotalHoursPerWeek: 40},
    {ID: "tpm1", Name: "Kavita Singh", Role: "TPM", AppRole: "tpm", Avatar: "KS", Email: "kavita@acme.com", TotalHoursPerWeek: 40},
    {ID: "dir1", Name: "David Park", Role: "Director of Engineering", AppRole: "director", Avatar: "DP", Email: "david@acme.com", TotalHoursPerWeek: 40},
}

var seedMilestones = []domain.Milestone{
    {ID: "ms1", ProjectID: "proj1", Title: "Design System Complete", TargetDate: "2026-02-28", ActualDate: "2026-02-25", Status: "completed", Description: "All UI components and design tokens finalized", StartDate: "2026-01-05"},
    {ID: "ms2", ProjectID: "proj1", Title: "Alpha Release", TargetDate: "2026-03-31", Status: "on-track", Description: "Internal alpha with core features", StartDate: "2026-02-01"},
    {ID: "ms3", ProjectID: "proj1", Title: "Beta Launch", TargetDate: "2026-05-15", Status: "on-track", Description: "Beta to 500 selected customers", StartDate: "2026-04-01"},
    {ID: "ms4", ProjectID: "proj1", Title: "GA Release", TargetDate: "2026-06-30", Status: "on-track", Description: "General availability release", StartDate: "2026-06-01"},
    {ID: "ms5", ProjectID: "proj2", Title: "Data Ingestion Pipeline", TargetDate: "2026-02-15", ActualDate: "2026-02-22", Status: "delayed", Description: "ETL pipelines for all data sources", StartDate: "2026-01-12"},
    {ID: "ms6", ProjectID: "proj2", Title: "Dashboard v1", TargetDate: "2026-04-30", Status: "at-risk", Description: "Core analytics dashboards", StartDate: "2026-03-01"},
    {ID: "ms7", ProjectID: "proj2", Title: "ML Models Integration", TargetDate: "2026-07-15", Status: "on-track", Description: "Predictive models live in production", StartDate: "2026-06-01"},
    {ID: "ms8", ProjectID: "proj2", Title: "Enterprise GA", TargetDate: "2026-08-31", Status: "on-track", Description: "Full enterprise release", StartDate: "2026-08-01"},
    {ID: "ms9", ProjectID: "proj3", Title: "iOS Beta", TargetDate: "2026-01-31", ActualDate: "2026-02-14", Status: "delayed", Description: "iOS beta on TestFlight", StartDate: "2025-11-01"},
    {ID: "ms10", ProjectID: "proj3", Title: "Android Beta", TargetDate: "2026-02-28", Status: "at-risk", Description: "Android beta on Play Store", StartDate: "2025-12-01"},
    {ID: "ms11", ProjectID: "proj3", Title: "App Store Release", TargetDate: "2026-04-30", Status: "delayed", Description: "Public release on both stores", StartDate: "2026-03-01"},
}

var seedSprints = []domain.Sprint{
    {ID: "sp1", ProjectID: "proj1", Name: "Sprint 1", StartDate: "2026-01-05", EndDate: "2026-01-18", PlannedPoints: 42, CompletedPoints: 40, Week: "2026-W02"},
    {ID: "sp2", ProjectID: "proj1", Name: "Sprint 2", StartDate: "2026-01-19", EndDate: "2026-02-01", PlannedPoints: 45, CompletedPoints: 43, Week: "2026-W04"},
    {ID: "sp3", ProjectID: "proj1", Name: "Sprint 3", StartDate: "2026-02-02", EndDate: "2026-02-15", PlannedPoints: 48, CompletedPoints: 46, Week: "2026-W06"},
    {ID: "sp4", ProjectID: "proj1", Name: "Sprint 4", StartDate: "2026-02-16", EndDate: "2026-03-01", PlannedPoints: 50, CompletedPoints: 39, Week: "2026-W08"},
    {ID: "sp5", ProjectID: "proj2", Name: "Sprint 1", StartDate: "2026-01-12", EndDate: "2026-01-25", PlannedPoints: 38, CompletedPoints: 30, Week: "2026-W03"},
    {ID: "sp6", ProjectID: "proj2", Name: "Sprint 2", StartDate: "2026-01-26", EndDate: "2026-02-08", PlannedPoints: 40, CompletedPoints: 28, Week: "2026-W05"},
    {ID: "sp7", ProjectID: "proj2", Name: "Sprint 3", StartDate: "2026-02-09", EndDate: "2026-02-22", PlannedPoints: 42, CompletedPoints: 35, Week: "2026-W07"},
    {ID: "sp8", ProjectID: "proj3", Name: "Sprint 1", StartDate: "2025-11-03", EndDate: "2025-11-16", PlannedPoints: 35, CompletedPoints: 32, Week: "2025-W46"},
    {ID: "sp9", ProjectID: "proj3", Name: "Sprint 2", StartDate: "2025-11-17", EndDate: "2025-11-30", PlannedPoints: 38, CompletedPoints: 25, Week: "2025-W48"},
    {ID: "sp10", ProjectID: "proj3", Name: "Sprint 3", StartDate: "2025-12-01", EndDate: "2025-12-14", PlannedPoints: 36, CompletedPoints: 22, Week: "2025-W50"},
    {ID: "sp11", ProjectID: "proj3", Name: "Sprint 4", StartDate: "2025-12-15", EndDate: "2026-01-04", PlannedPoints: 32, CompletedPoints: 28, Week: "2025-W52"},
    {ID: "sp12", ProjectID: "proj3", Name: "Sprint 5", StartDate: "2026-01-05", EndDate: "2026-01-18", PlannedPoints: 34, CompletedPoints: 26, Week: "2026-W02"},
    {ID: "sp13", ProjectID: "proj3", Name: "Sprint 6", StartDate: "2026-01-19", EndDate: "2026-02-01", PlannedPoints: 36, CompletedPoints: 31, Week: "2026-W04"},
    {ID: "sp14", ProjectID: "proj3", Name: "Sprint 7", StartDate: "2026-02-02", EndDate: "2026-02-15", PlannedPoints: 34, CompletedPoints: 28, Week: "2026-W07"},
}

var seedStories = []domain.Story{
    {ID: "CPR-101", Title: "Dashboard layout responsive fix", AssigneeID: "tm1", StoryPoints: 5, Status: "done", Epic: "Dashboard", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Fix responsive breakpoints for all screen sizes", AcceptanceCriteria: "Works on mobile, tablet and desktop"},
    {ID: "CPR-102", Title: "User profile API integration", AssigneeID: "tm2", StoryPoints: 8, Status: "done", Epic: "User Management", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Integrate user profile read/write API", AcceptanceCriteria: "Profile saves and loads correctly", RisksMitigation: "API rate limits - cache responses"},
    {ID: "CPR-103", Title: "Notification system backend", AssigneeID: "tm2", StoryPoints: 8, Status: "inprogress", Epic: "Notifications", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Build event-driven notification backend", AcceptanceCriteria: "Notifications delivered within 2s", Blockers: "Needs queue infrastructure provisioned"},
    {ID: "CPR-104", Title: "E2E test coverage for auth flow", AssigneeID: "tm3", StoryPoints: 5, Status: "done", Epic: "Auth", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Playwright E2E tests for login/logout/reset", AcceptanceCriteria: "96% coverage on auth flows"},
    {ID: "CPR-105", Title: "CI/CD pipeline optimization", AssigneeID: "tm4", StoryPoints: 3, Status: "done", Epic: "DevOps", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Reduce build time by parallelizing steps", AcceptanceCriteria: "Build time under 5 minutes"},
    {ID: "CPR-106", Title: "Settings page - account section", AssigneeID: "tm5", StoryPoints: 5, Status: "done", Epic: "Settings", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Implement account management settings", AcceptanceCriteria: "User can update name, email, password"},
    {ID: "CPR-107", Title: "Search feature with filters", AssigneeID: "tm1", StoryPoints: 8, Status: "blocked", Epic: "Search", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Full-text search with facet filters", AcceptanceCriteria: "Search returns results in <200ms", RisksMitigation: "Elasticsearch dependency - consider fallback", Blockers: "Elasticsearch cluster not provisioned yet"},
    {ID: "CPR-108", Title: "Performance audit & fixes", AssigneeID: "tm6", StoryPoints: 5, Status: "done", Epic: "Performance", Sprint: "Sprint 4", Week: "2026-W08", ProjectID: "proj1", Description: "Lighthouse audit and critical fixes", AcceptanceCriteria: "Score above 90 on all metrics"},
    {ID: "DAP-201", Title: "Kafka stream connector setup", AssigneeID: "tm2", StoryPoints: 8, Status: "done", Epic: "Data Ingestion", Sprint: "Sprint 3", Week: "2026-W07", ProjectID: "proj2", Description: "Configure Kafka consumer for all data sources", AcceptanceCriteria: "Streams 10k events/sec without lag"},
    {ID: "DAP-202", Title: "Chart library integration", AssigneeID: "tm1", StoryPoints: 5, Status: "done", Epic: "Visualization", Sprint: "Sprint 3", Week: "2026-W07", ProjectID: "proj2", Description: "Integrate Recharts with theme support", AcceptanceCriteria: "All 5 chart types render correctly"},
    {ID: "DAP-203", Title: "User permissions for dashboards", AssigneeID: "tm5", StoryPoints: 8, Status: "inprogress", Epic: "User Management", Sprint: "Sprint 3", Week: "2026-W07", ProjectID: "proj2", Description: "Role-based access for dashboard views", AcceptanceCriteria: "Admin/viewer roles enforced", RisksMitigation: "Security review needed before release", Blockers: "Waiting for security review sign-off"},
    {ID: "DAP-204", Title: "Data export to CSV/Excel", AssigneeID: "tm3", StoryPoints: 3, Status: "done", Epic: "Export", Sprint: "Sprint 3", Week: "2026-W07", ProjectID: "proj2", Description: "One-click export from any dashboard", AcceptanceCriteria: "Exports 100k rows without timeout"},
    {ID: "DAP-205", Title: "Database query optimization", AssigneeID: "tm6", StoryPoints: 5, Status: "done", Epic: "Performance", Sprint: "Sprint 3", Week: "2026-W07", ProjectID: "proj2", Description: "Index tuning and query rewrites", AcceptanceCriteria: "p95 queries below 250ms"},
    {ID: "DAP-206", Title: "Alert thresholds configuration", AssigneeID: "tm2", StoryPoints: 3, Status: "blocked", Epic: "Alerts", Sprint: "Sprint 3", Week: "2026-W07", ProjectID: "proj2", Description: "UI to configure metric alert thresholds", AcceptanceCriteria: "Alerts fire within 60s of threshold breach", RisksMitigation: "Architecture review pending", Blockers: "Needs architecture decision on alerting engine"},
    {ID: "DAP-207", Title: "ML model result display", AssigneeID: "tm5", StoryPoints: 5, Status: "todo", Epic: "ML", Sprint: "Sprint 3", Week: "2026-W07", ProjectID: "proj2", Description: "Show ML prediction results on dashboard", AcceptanceCriteria: "Predictions refresh every 5 minutes"},
    {ID: "MAV2-301", Title: "Offline sync mechanism", AssigneeID: "tm5", StoryPoints: 13, Status: "inprogress", Epic: "Offline Mode", Sprint: "Sprint 7", Week: "2026-W07", ProjectID: "proj3", Description: "Implement CRDTs for conflict-free offline sync", AcceptanceCriteria: "Data syncs within 10s of reconnection", RisksMitigation: "Conflict resolution complexity - spike needed", Blockers: "Conflict resolution design not finalized"},
    {ID: "MAV2-302", Title: "Push notification service", AssigneeID: "tm2", StoryPoints: 8, Status: "done", Epic: "Notifications", Sprint: "Sprint 7", Week: "2026-W07", ProjectID: "proj3", Description: "FCM/APNs push notifications", AcceptanceCriteria: "Notifications delivered to 99% of devices"},
    {ID: "MAV2-303", Title: "iOS UI fixes - navigation", AssigneeID: "tm1", StoryPoints: 3, Status: "done", Epic: "iOS", Sprint: "Sprint 7", Week: "2026-W07", ProjectID: "proj3", Description: "Fix navigation bar glitches on iOS 17", AcceptanceCriteria: "No visual glitches on iPhone 14+"},
    {ID: "MAV2-304", Title: "Android crash fix - startup", AssigneeID: "tm6", StoryPoints: 5, Status: "done", Epic: "Android", Sprint: "Sprint 7", Week: "2026-W07", ProjectID: "proj3", Description: "Fix null pointer exception on cold start", AcceptanceCriteria: "0 crash rate on startup in beta"},
    {ID: "MAV2-305", Title: "Biometric auth integration", AssigneeID: "tm5", StoryPoints: 5, Status: "blocked", Epic: "Auth", Sprint: "Sprint 7", Week: "2026-W07", ProjectID: "proj3", Description: "Face ID / Touch ID authentication", AcceptanceCriteria: "Auth works on Face ID and fingerprint devices", RisksMitigation: "Apple guidelines compliance risk - pre-review", Blockers: "Awaiting Apple developer support feedback on biometric guidelines"},
    {ID: "MAV2-306", Title: "App store screenshot assets", AssigneeID: "tm3", StoryPoints: 2, Status: "inprogress", Epic: "Release", Sprint: "Sprint 7", Week: "2026-W07", ProjectID: "proj3", Description: "Create App Store and Play Store screenshots", AcceptanceCriteria: "All required device size screenshots created"},
}

var seedRisks = []domain.Risk{
    {ID: "r1", ProjectID: "proj1", Title: "Third-party API rate limits", Description: "External payment API has rate limits that may affect peak load", Probability: "medium", Impact: "high", Mitigation: "Implement caching and request queuing. Negotiate higher tier with vendor.", OwnerID: "tm2", Status: "open"},
    {ID: "r2", ProjectID: "proj1", Title: "Design resource bandwidth", Description: "Design team stretched thin across multiple projects", Probability: "high", Impact: "medium", Mitigation: "Contract design resource for 4 weeks to cover UA/UX debt.", OwnerID: "tpm1", Status: "mitigated"},
    {ID: "r3", ProjectID: "proj2", Title: "Data governance approval delay", Description: "IT security review of analytics data access taking longer than expected", Probability: "high", Impact: "critical", Mitigation: "Escalate to CISO. Prepare data masking as interim solution.", OwnerID: "dir1", Status: "open"},
    {ID: "r4", ProjectID: "proj2", Title: "ML model accuracy below threshold", Description: "Churn prediction model accuracy at 74%, target is 85%", Probability: "medium", Impact: "high", Mitigation: "Add more training data. Explore ensemble methods.", OwnerID: "tm6", Status: "open"},
    {ID: "r5", ProjectID: "proj3", Title: "App Store review rejection risk", Description: "Biometric auth implementation may not meet App Store guidelines", Probability: "medium", Impact: "critical", Mitigation: "Pre-review with Apple developer support. Prepare fallback PIN flow.", OwnerID: "tm5", Status: "open"},
    {ID: "r6", ProjectID: "proj3", Title: "Key developer departure risk", Description: "Lead mobile developer considering other opportunities", Probability: "low", Impact: "critical", Mitigation: "Accelerate knowledge transfer. Initiate retention package with HR.", OwnerID: "tpm1", Status: "open"},
}

var seedLeave = []domain.LeaveEntry{
    {ID: "lv1", MemberID: "tm1", Week: "2026-W08", HoursOff: 16, Type: "vacation"},
    {ID: "lv2", MemberID: "tm3", Week: "2026-W07", HoursOff: 8, Type: "sick"},
    {ID: "lv3", MemberID: "tm4", Week: "2026-W08", HoursOff: 8, Type: "holiday"},
    {ID: "lv4", MemberID: "tm5", Week: "2026-W08", HoursOff: 40, Type: "vacation"},
    {ID: "lv5", MemberID: "tm2", Week: "2026-W09", HoursOff: 16, Type: "vacation"},
    {ID: "lv6", MemberID: "tm6", Week: "2026-W07", HoursOff: 8, Type: "wfh"},
}

var seedReports = []domain.WeeklyReport{
    {ID: "wr1", ProjectID: "proj1", Week: "2026-W08", RAGStatus: "green",
        Accomplishments: "• Completed responsive dashboard layout fixes\n• Integrated user profile API\n• CI/CD pipeline optimized — build time reduced by 35%\n• 96% E2E test coverage for auth flow",
        NextWeekPlan:    "• Complete notification system backend (CPR-103)\n• Unblock search feature — awaiting Elasticsearch cluster\n• Begin settings page - billing section",
        Blockers:        "• Elasticsearch cluster provisioning pending DevOps approval (blocking CPR-107)",
        PreparedBy:      "Kavita Singh", Status: "submitted", CreatedAt: "2026-02-23T10:00:00Z", UpdatedAt: "2026-02-23T10:00:00Z"},
    {ID: "wr2", ProjectID: "proj2", Week: "2026-W07", RAGStatus: "amber",
        Accomplishments: "• Kafka stream connector deployed to staging\n• Chart library integrated with 5 dashboard components\n• CSV/Excel export feature shipped\n• DB query p95 latency improved from 800ms to 220ms",
        NextWeekPlan:    "• Complete user permission roles for dashboards\n• Resolve alert threshold configuration blocker\n• Begin ML model result display component",
        Blockers:        "• IT Security data governance approval delayed — blocking production data access (P1)",
        RisksMitigation: "Data governance escalated to CISO",
        PreparedBy:      "Kavita Singh", Status: "submitted", CreatedAt: "2026-02-20T10:00:00Z", UpdatedAt: "2026-02-20T10:00:00Z"},
    {ID: "wr3", ProjectID: "proj3", Week: "2026-W07", RAGStatus: "red",
        Accomplishments: "• Push notification service shipped to iOS and Android\n• iOS navigation crash resolved\n• Android startup crash fix deployed to beta testers",
        NextWeekPlan:    "• Resolve biometric auth blocker (Apple guidelines review)\n• Complete offline sync mechanism\n• Android beta submission to Play Store",
        Blockers:        "• Biometric auth implementation blocked pending Apple developer support feedback\n• Offline sync has complex conflict resolution — may need 2 additional sprints",
        RisksMitigation: "Pre-review with Apple developer support scheduled",
        PreparedBy:      "Kavita Singh", Status: "submitted", CreatedAt: "2026-02-20T10:00:00Z", UpdatedAt: "2026-02-20T10:00:00Z"},
}

// SeedDemo inserts the full demo dataset in one transaction. Existing ids
// are left alone (DO NOTHING) so re-seeding never clobbers edited rows.
func (r *Repository) SeedDemo(ctx context.Context) error {
    tx, err := r.db.Pool.Begin(ctx)
    if err != nil { return err }
    defer tx.Rollback(ctx)

    batch := &pgx.Batch{}
    n := 0
    queue := func(q string, args ...any) { batch.Queue(q, args...); n++ }

    for _, p := range seedProjects {
        queue(`INSERT INTO projects(`+projectCols+`) VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,TRUE) ON CONFLICT(id) DO NOTHING`,
            p.ID, p.Name, p.Code, p.OwnerID, p.Status, p.RAGStatus, p.StartDate, p.EndDate, p.Budget, p.BudgetSpent, p.Description, p.ProjectType)
    }
    for _, m := range seedMembers {
        queue(`INSERT INTO team_members(id, name, role, app_role, avatar, email, total_hours_per_week, is_mock)
            VALUES($1,$2,$3,$4,$5,$6,$7,TRUE) ON CONFLICT(id) DO NOTHING`,
            m.ID, m.Name, m.Role, m.AppRole, m.Avatar, m.Email, m.TotalHoursPerWeek)
    }
    for _, m := range seedMilestones {
        queue(`INSERT INTO milestones(id, project_id, title, target_date, actual_date, start_date, status, description, is_mock)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,TRUE) ON CONFLICT(id) DO NOTHING`,
            m.ID, m.ProjectID, m.Title, m.TargetDate, m.ActualDate, m.StartDate, m.Status, m.Description)
    }
    for _, s := range seedSprints {
        queue(`INSERT INTO sprints(id, project_id, name, start_date, end_date, planned_points, completed_points, week, is_mock)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,TRUE) ON CONFLICT(id) DO NOTHING`,
            s.ID, s.ProjectID, s.Name, s.StartDate, s.EndDate, s.PlannedPoints, s.CompletedPoints, s.Week)
    }
    for _, s := range seedStories {
        s.IsMock = true
        args := storyArgs(s)
        queue(`INSERT INTO jira_stories(`+storyCols+`) VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
            ON CONFLICT(id) DO NOTHING`, args...)
    }
    for _, k := range seedRisks {
        queue(`INSERT INTO risks(id, project_id, title, description, probability, impact, mitigation, owner_id, status, is_mock)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,TRUE) ON CONFLICT(id) DO NOTHING`,
            k.ID, k.ProjectID, k.Title, k.Description, k.Probability, k.Impact, k.Mitigation, k.OwnerID, k.Status)
    }
    for _, l := range seedLeave {
        queue(`INSERT INTO leave_entries(id, member_id, week, hours_off, type, is_mock)
            VALUES($1,$2,$3,$4,$5,TRUE) ON CONFLICT(id) DO NOTHING`,
            l.ID, l.MemberID, l.Week, l.HoursOff, l.Type)
    }
    for _, w := range seedReports {
        queue(`INSERT INTO weekly_reports(`+reportCols+`)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,TRUE) ON CONFLICT(id) DO NOTHING`,
            w.ID, w.ProjectID, w.Week, w.RAGStatus, w.Accomplishments, w.NextWeekPlan, w.RisksMitigation,
            w.Blockers, w.PreparedBy, w.ApprovedBy, w.Status, w.ApprovalComment, w.CreatedAt, w.UpdatedAt)
    }

    br := tx.SendBatch(ctx, batch)
    for i := 0; i < n; i++ {
        if _, err := br.Exec(); err != nil { br.Close(); return err }
    }
    if err := br.Close(); err != nil { return err }
    return tx.Commit(ctx)
}
