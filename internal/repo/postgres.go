package repo

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/config"
    "github.com/angular-dynamo/projectpulse/internal/domain"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

// EnsureSchema creates all tables idempotently on boot.
func (r *Repository) EnsureSchema(ctx context.Context) error {
    stmts := []string{
        `CREATE TABLE IF NOT EXISTS projects (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            code TEXT NOT NULL DEFAULT '',
            owner_id TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'on-track',
            rag_status TEXT NOT NULL DEFAULT 'green',
            start_date TEXT NOT NULL DEFAULT '',
            end_date TEXT NOT NULL DEFAULT '',
            budget BIGINT NOT NULL DEFAULT 0,
            budget_spent BIGINT NOT NULL DEFAULT 0,
            description TEXT NOT NULL DEFAULT '',
            project_type TEXT NOT NULL DEFAULT 'scrum',
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS team_members (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT '',
            app_role TEXT NOT NULL DEFAULT 'developer',
            avatar TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            total_hours_per_week INT NOT NULL DEFAULT 40,
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS jira_stories (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL DEFAULT '',
            assignee_id TEXT NOT NULL DEFAULT '',
            story_points INT NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'todo',
            epic TEXT NOT NULL DEFAULT '',
            sprint TEXT NOT NULL DEFAULT '',
            week TEXT NOT NULL DEFAULT '',
            project_id TEXT NOT NULL DEFAULT '',
            created_at TEXT NOT NULL DEFAULT '',
            started_at TEXT NOT NULL DEFAULT '',
            completed_at TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            acceptance_criteria TEXT NOT NULL DEFAULT '',
            comments TEXT NOT NULL DEFAULT '',
            pulled_date TEXT NOT NULL DEFAULT '',
            risks_mitigation TEXT NOT NULL DEFAULT '',
            blockers TEXT NOT NULL DEFAULT '',
            ai_mitigation TEXT NOT NULL DEFAULT '',
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS milestones (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL DEFAULT '',
            title TEXT NOT NULL DEFAULT '',
            target_date TEXT NOT NULL DEFAULT '',
            actual_date TEXT NOT NULL DEFAULT '',
            start_date TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'on-track',
            description TEXT NOT NULL DEFAULT '',
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS sprints (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL DEFAULT '',
            name TEXT NOT NULL DEFAULT '',
            start_date TEXT NOT NULL DEFAULT '',
            end_date TEXT NOT NULL DEFAULT '',
            planned_points INT NOT NULL DEFAULT 0,
            completed_points INT NOT NULL DEFAULT 0,
            week TEXT NOT NULL DEFAULT '',
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS risks (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL DEFAULT '',
            title TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            probability TEXT NOT NULL DEFAULT 'low',
            impact TEXT NOT NULL DEFAULT 'low',
            mitigation TEXT NOT NULL DEFAULT '',
            owner_id TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'open',
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS leave_entries (
            id TEXT PRIMARY KEY,
            member_id TEXT NOT NULL DEFAULT '',
            week TEXT NOT NULL DEFAULT '',
            hours_off INT NOT NULL DEFAULT 0,
            type TEXT NOT NULL DEFAULT 'vacation',
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS weekly_reports (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL DEFAULT '',
            week TEXT NOT NULL DEFAULT '',
            rag_status TEXT NOT NULL DEFAULT 'green',
            accomplishments TEXT NOT NULL DEFAULT '',
            next_week_plan TEXT NOT NULL DEFAULT '',
            risks_mitigation TEXT NOT NULL DEFAULT '',
            blockers TEXT NOT NULL DEFAULT '',
            prepared_by TEXT NOT NULL DEFAULT '',
            approved_by TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'submitted',
            approval_comment TEXT NOT NULL DEFAULT '',
            created_at TEXT NOT NULL DEFAULT '',
            updated_at TEXT NOT NULL DEFAULT '',
            is_mock BOOLEAN NOT NULL DEFAULT FALSE)`,
        `CREATE TABLE IF NOT EXISTS kpi_weekly (
            week TEXT NOT NULL,
            project_id TEXT NOT NULL DEFAULT '',
            kpi TEXT NOT NULL,
            value DOUBLE PRECISION NOT NULL,
            PRIMARY KEY (week, project_id, kpi))`,
        `CREATE TABLE IF NOT EXISTS job_runs (
            id BIGSERIAL PRIMARY KEY,
            started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            finished_at TIMESTAMPTZ,
            projects_seen INT,
            success BOOLEAN,
            error TEXT)`,
    }
    for _, q := range stmts {
        if _, err := r.db.Pool.Exec(ctx, q); err != nil { return err }
    }
    return nil
}

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

// ---- Dataset ----

const projectCols = `id, name, code, owner_id, status, rag_status, start_date, end_date, budget, budget_spent, description, project_type, is_mock`
const storyCols = `id, title, assignee_id, story_points, status, epic, sprint, week, project_id, created_at, started_at, completed_at, description, acceptance_criteria, comments, pulled_date, risks_mitigation, blockers, ai_mitigation, is_mock`
const reportCols = `id, project_id, week, rag_status, accomplishments, next_week_plan, risks_mitigation, blockers, prepared_by, approved_by, status, approval_comment, created_at, updated_at, is_mock`

func scanProject(row pgx.Row) (domain.Project, error) {
    var p domain.Project
    err := row.Scan(&p.ID, &p.Name, &p.Code, &p.OwnerID, &p.Status, &p.RAGStatus, &p.StartDate, &p.EndDate,
        &p.Budget, &p.BudgetSpent, &p.Description, &p.ProjectType, &p.IsMock)
    return p, err
}

func scanStory(row pgx.Row) (domain.Story, error) {
    var s domain.Story
    err := row.Scan(&s.ID, &s.Title, &s.AssigneeID, &s.StoryPoints, &s.Status, &s.Epic, &s.Sprint, &s.Week,
        &s.ProjectID, &s.CreatedAt, &s.StartedAt, &s.CompletedAt, &s.Description, &s.AcceptanceCriteria,
        &s.Comments, &s.PulledDate, &s.RisksMitigation, &s.Blockers, &s.AIMitigation, &s.IsMock)
    return s, err
}

func scanReport(row pgx.Row) (domain.WeeklyReport, error) {
    var w domain.WeeklyReport
    err := row.Scan(&w.ID, &w.ProjectID, &w.Week, &w.RAGStatus, &w.Accomplishments, &w.NextWeekPlan,
        &w.RisksMitigation, &w.Blockers, &w.PreparedBy, &w.ApprovedBy, &w.Status, &w.ApprovalComment,
        &w.CreatedAt, &w.UpdatedAt, &w.IsMock)
    return w, err
}

// LoadDataset reads all eight collections in one pass.
func (r *Repository) LoadDataset(ctx context.Context) (domain.Dataset, error) {
    var ds domain.Dataset

    rows, err := r.db.Pool.Query(ctx, `SELECT `+projectCols+` FROM projects ORDER BY id`)
    if err != nil { return ds, err }
    for rows.Next() {
        p, err := scanProject(rows)
        if err != nil { rows.Close(); return ds, err }
        ds.Projects = append(ds.Projects, p)
    }
    rows.Close()

    rows, err = r.db.Pool.Query(ctx, `SELECT id, name, role, app_role, avatar, email, total_hours_per_week, is_mock FROM team_members ORDER BY id`)
    if err != nil { return ds, err }
    for rows.Next() {
        var m domain.TeamMember
        if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.AppRole, &m.Avatar, &m.Email, &m.TotalHoursPerWeek, &m.IsMock); err != nil {
            rows.Close(); return ds, err
        }
        ds.TeamMembers = append(ds.TeamMembers, m)
    }
    rows.Close()

    rows, err = r.db.Pool.Query(ctx, `SELECT `+storyCols+` FROM jira_stories ORDER BY id`)
    if err != nil { return ds, err }
    for rows.Next() {
        s, err := scanStory(rows)
        if err != nil { rows.Close(); return ds, err }
        ds.JiraStories = append(ds.JiraStories, s)
    }
    rows.Close()

    rows, err = r.db.Pool.Query(ctx, `SELECT id, project_id, title, target_date, actual_date, start_date, status, description, is_mock FROM milestones ORDER BY id`)
    if err != nil { return ds, err }
    for rows.Next() {
        var m domain.Milestone
        if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.TargetDate, &m.ActualDate, &m.StartDate, &m.Status, &m.Description, &m.IsMock); err != nil {
            rows.Close(); return ds, err
        }
        ds.Milestones = append(ds.Milestones, m)
    }
    rows.Close()

    // Sprint order matters downstream: the KPI layer takes "latest" from the
    // tail, so sort by start date here.
    rows, err = r.db.Pool.Query(ctx, `SELECT id, project_id, name, start_date, end_date, planned_points, completed_points, week, is_mock FROM sprints ORDER BY start_date, id`)
    if err != nil { return ds, err }
    for rows.Next() {
        var s domain.Sprint
        if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.StartDate, &s.EndDate, &s.PlannedPoints, &s.CompletedPoints, &s.Week, &s.IsMock); err != nil {
            rows.Close(); return ds, err
        }
        ds.Sprints = append(ds.Sprints, s)
    }
    rows.Close()

    rows, err = r.db.Pool.Query(ctx, `SELECT id, project_id, title, description, probability, impact, mitigation, owner_id, status, is_mock FROM risks ORDER BY id`)
    if err != nil { return ds, err }
    for rows.Next() {
        var k domain.Risk
        if err := rows.Scan(&k.ID, &k.ProjectID, &k.Title, &k.Description, &k.Probability, &k.Impact, &k.Mitigation, &k.OwnerID, &k.Status, &k.IsMock); err != nil {
            rows.Close(); return ds, err
        }
        ds.Risks = append(ds.Risks, k)
    }
    rows.Close()

    rows, err = r.db.Pool.Query(ctx, `SELECT id, member_id, week, hours_off, type, is_mock FROM leave_entries ORDER BY id`)
    if err != nil { return ds, err }
    for rows.Next() {
        var l domain.LeaveEntry
        if err := rows.Scan(&l.ID, &l.MemberID, &l.Week, &l.HoursOff, &l.Type, &l.IsMock); err != nil {
            rows.Close(); return ds, err
        }
        ds.LeaveEntries = append(ds.LeaveEntries, l)
    }
    rows.Close()

    rows, err = r.db.Pool.Query(ctx, `SELECT `+reportCols+` FROM weekly_reports ORDER BY id`)
    if err != nil { return ds, err }
    for rows.Next() {
        w, err := scanReport(rows)
        if err != nil { rows.Close(); return ds, err }
        ds.WeeklyReports = append(ds.WeeklyReports, w)
    }
    rows.Close()

    return ds, nil
}

func (r *Repository) CountProjects(ctx context.Context) (int, error) {
    var n int
    err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
    return n, err
}

// ---- Projects ----

const upsertProjectSQL = `
    INSERT INTO projects(` + projectCols + `)
    VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT(id) DO UPDATE SET
        name=EXCLUDED.name, code=EXCLUDED.code, owner_id=EXCLUDED.owner_id,
        status=EXCLUDED.status, rag_status=EXCLUDED.rag_status,
        start_date=EXCLUDED.start_date, end_date=EXCLUDED.end_date,
        budget=EXCLUDED.budget, budget_spent=EXCLUDED.budget_spent,
        description=EXCLUDED.description, project_type=EXCLUDED.project_type,
        is_mock=EXCLUDED.is_mock`

func (r *Repository) UpsertProject(ctx context.Context, p domain.Project) error {
    _, err := r.db.Pool.Exec(ctx, upsertProjectSQL, p.ID, p.Name, p.Code, p.OwnerID, p.Status, p.RAGStatus,
        p.StartDate, p.EndDate, p.Budget, p.BudgetSpent, p.Description, p.ProjectType, p.IsMock)
    return err
}

// Column whitelists for partial PUT updates, JSON key -> column.
var projectUpdateCols = map[string]string{
    "name": "name", "code": "code", "ownerId": "owner_id", "status": "status",
    "ragStatus": "rag_status", "startDate": "start_date", "endDate": "end_date",
    "budget": "budget", "budgetSpent": "budget_spent", "description": "description",
    "projectType": "project_type",
}

var storyUpdateCols = map[string]string{
    "title": "title", "assigneeId": "assignee_id", "storyPoints": "story_points",
    "status": "status", "epic": "epic", "sprint": "sprint", "week": "week",
    "projectId": "project_id", "startedAt": "started_at", "completedAt": "completed_at",
    "description": "description", "acceptanceCriteria": "acceptance_criteria",
    "comments": "comments", "pulledDate": "pulled_date",
    "risksMitigation": "risks_mitigation", "blockers": "blockers", "aiMitigation": "ai_mitigation",
}

var memberUpdateCols = map[string]string{
    "name": "name", "role": "role", "appRole": "app_role", "avatar": "avatar",
    "email": "email", "totalHoursPerWeek": "total_hours_per_week",
}

var milestoneUpdateCols = map[string]string{
    "projectId": "project_id", "title": "title", "targetDate": "target_date",
    "actualDate": "actual_date", "startDate": "start_date", "status": "status",
    "description": "description",
}

func (r *Repository) updateByID(ctx context.Context, table string, allowed map[string]string, id string, fields map[string]any) error {
    if len(fields) == 0 { return domain.Invalid("body", "no fields to update") }
    sets := make([]string, 0, len(fields))
    args := make([]any, 0, len(fields)+1)
    for k, v := range fields {
        col, ok := allowed[k]
        if !ok { return domain.Invalid(k, "unknown field %q for %s", k, table) }
        args = append(args, v)
        sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
    }
    args = append(args, id)
    q := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d", table, strings.Join(sets, ", "), len(args))
    tag, err := r.db.Pool.Exec(ctx, q, args...)
    if err != nil { return err }
    if tag.RowsAffected() == 0 { return domain.ErrNotFound }
    return nil
}

func (r *Repository) UpdateProject(ctx context.Context, id string, fields map[string]any) error {
    return r.updateByID(ctx, "projects", projectUpdateCols, id, fields)
}

// ---- Stories ----

const upsertStorySQL = `
    INSERT INTO jira_stories(` + storyCols + `)
    VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
    ON CONFLICT(id) DO UPDATE SET
        title=EXCLUDED.title, assignee_id=EXCLUDED.assignee_id,
        story_points=EXCLUDED.story_points, status=EXCLUDED.status,
        epic=EXCLUDED.epic, sprint=EXCLUDED.sprint, week=EXCLUDED.week,
        project_id=EXCLUDED.project_id, created_at=EXCLUDED.created_at,
        started_at=EXCLUDED.started_at, completed_at=EXCLUDED.completed_at,
        description=EXCLUDED.description, acceptance_criteria=EXCLUDED.acceptance_criteria,
        comments=EXCLUDED.comments, pulled_date=EXCLUDED.pulled_date,
        risks_mitigation=EXCLUDED.risks_mitigation, blockers=EXCLUDED.blockers,
        ai_mitigation=EXCLUDED.ai_mitigation, is_mock=EXCLUDED.is_mock`

func storyArgs(s domain.Story) []any {
    return []any{s.ID, s.Title, s.AssigneeID, s.StoryPoints, s.Status, s.Epic, s.Sprint, s.Week,
        s.ProjectID, s.CreatedAt, s.StartedAt, s.CompletedAt, s.Description, s.AcceptanceCriteria,
        s.Comments, s.PulledDate, s.RisksMitigation, s.Blockers, s.AIMitigation, s.IsMock}
}

// UpsertStory writes a single story unconditionally (no duplicate guard).
func (r *Repository) UpsertStory(ctx context.Context, s domain.Story) error {
    _, err := r.db.Pool.Exec(ctx, upsertStorySQL, storyArgs(s)...)
    return err
}

func (r *Repository) UpdateStory(ctx context.Context, id string, fields map[string]any) error {
    return r.updateByID(ctx, "jira_stories", storyUpdateCols, id, fields)
}

// BulkUpsertStories pre-checks the incoming ids against existing non-mock
// rows and refuses the whole batch on any hit; otherwise all rows go in as
// real data inside one transaction.
func (r *Repository) BulkUpsertStories(ctx context.Context, stories []domain.Story) error {
    if len(stories) == 0 { return nil }
    ids := make([]string, 0, len(stories))
    for _, s := range stories { ids = append(ids, s.ID) }

    rows, err := r.db.Pool.Query(ctx, `SELECT id FROM jira_stories WHERE id = ANY($1) AND NOT is_mock`, ids)
    if err != nil { return err }
    var dups []string
    for rows.Next() {
        var id string
        if err := rows.Scan(&id); err != nil { rows.Close(); return err }
        dups = append(dups, id)
    }
    rows.Close()
    if len(dups) > 0 { return &domain.DuplicateStoriesError{IDs: dups} }

    tx, err := r.db.Pool.Begin(ctx)
    if err != nil { return err }
    defer tx.Rollback(ctx)
    batch := &pgx.Batch{}
    for _, s := range stories {
        s.IsMock = false
        batch.Queue(upsertStorySQL, storyArgs(s)...)
    }
    br := tx.SendBatch(ctx, batch)
    for range stories {
        if _, err := br.Exec(); err != nil { br.Close(); return err }
    }
    if err := br.Close(); err != nil { return err }
    return tx.Commit(ctx)
}

func (r *Repository) StoriesByProjectWeek(ctx context.Context, projectID, week string) ([]domain.Story, error) {
    rows, err := r.db.Pool.Query(ctx, `SELECT `+storyCols+` FROM jira_stories WHERE project_id=$1 AND week=$2 ORDER BY id`, projectID, week)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.Story
    for rows.Next() {
        s, err := scanStory(rows)
        if err != nil { return nil, err }
        out = append(out, s)
    }
    return out, nil
}

// ---- Team members ----

func (r *Repository) InsertTeamMember(ctx context.Context, m domain.TeamMember) error {
    _, err := r.db.Pool.Exec(ctx, `INSERT INTO team_members(id, name, role, app_role, avatar, email, total_hours_per_week, is_mock)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8)`, m.ID, m.Name, m.Role, m.AppRole, m.Avatar, m.Email, m.TotalHoursPerWeek, m.IsMock)
    return err
}

func (r *Repository) UpdateTeamMember(ctx context.Context, id string, fields map[string]any) error {
    return r.updateByID(ctx, "team_members", memberUpdateCols, id, fields)
}

func (r *Repository) DeleteTeamMember(ctx context.Context, id string) error {
    _, err := r.db.Pool.Exec(ctx, `DELETE FROM team_members WHERE id=$1`, id)
    return err
}

// ---- Milestones ----

func (r *Repository) ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
    q := `SELECT id, project_id, title, target_date, actual_date, start_date, status, description, is_mock FROM milestones`
    var args []any
    if projectID != "" { q += ` WHERE project_id=$1`; args = append(args, projectID) }
    q += ` ORDER BY target_date, id`
    rows, err := r.db.Pool.Query(ctx, q, args...)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.Milestone
    for rows.Next() {
        var m domain.Milestone
        if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.TargetDate, &m.ActualDate, &m.StartDate, &m.Status, &m.Description, &m.IsMock); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, nil
}

func (r *Repository) UpsertMilestone(ctx context.Context, m domain.Milestone) error {
    _, err := r.db.Pool.Exec(ctx, `
        INSERT INTO milestones(id, project_id, title, target_date, actual_date, start_date, status, description, is_mock)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT(id) DO UPDATE SET
            project_id=EXCLUDED.project_id, title=EXCLUDED.title,
            target_date=EXCLUDED.target_date, actual_date=EXCLUDED.actual_date,
            start_date=EXCLUDED.start_date, status=EXCLUDED.status,
            description=EXCLUDED.description, is_mock=EXCLUDED.is_mock`,
        m.ID, m.ProjectID, m.Title, m.TargetDate, m.ActualDate, m.StartDate, m.Status, m.Description, m.IsMock)
    return err
}

func (r *Repository) UpdateMilestone(ctx context.Context, id string, fields map[string]any) error {
    return r.updateByID(ctx, "milestones", milestoneUpdateCols, id, fields)
}

func (r *Repository) DeleteMilestone(ctx context.Context, id string) error {
    _, err := r.db.Pool.Exec(ctx, `DELETE FROM milestones WHERE id=$1`, id)
    return err
}

// ---- Weekly reports ----

func (r *Repository) UpsertReport(ctx context.Context, w domain.WeeklyReport) error {
    _, err := r.db.Pool.Exec(ctx, `
        INSERT INTO weekly_reports(`+reportCols+`)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT(id) DO UPDATE SET
            project_id=EXCLUDED.project_id, week=EXCLUDED.week,
            rag_status=EXCLUDED.rag_status, accomplishments=EXCLUDED.accomplishments,
            next_week_plan=EXCLUDED.next_week_plan, risks_mitigation=EXCLUDED.risks_mitigation,
            blockers=EXCLUDED.blockers, prepared_by=EXCLUDED.prepared_by,
            approved_by=EXCLUDED.approved_by, status=EXCLUDED.status,
            approval_comment=EXCLUDED.approval_comment,
            created_at=EXCLUDED.created_at, updated_at=EXCLUDED.updated_at,
            is_mock=EXCLUDED.is_mock`,
        w.ID, w.ProjectID, w.Week, w.RAGStatus, w.Accomplishments, w.NextWeekPlan, w.RisksMitigation,
        w.Blockers, w.PreparedBy, w.ApprovedBy, w.Status, w.ApprovalComment, w.CreatedAt, w.UpdatedAt, w.IsMock)
    return err
}

func (r *Repository) GetReport(ctx context.Context, id string) (domain.WeeklyReport, error) {
    w, err := scanReport(r.db.Pool.QueryRow(ctx, `SELECT `+reportCols+` FROM weekly_reports WHERE id=$1`, id))
    if errors.Is(err, pgx.ErrNoRows) { return w, domain.ErrNotFound }
    return w, err
}

// FindReport locates the current report for a (project, week) pair. Two
// directly-inserted rows for the same pair can coexist; the first by id
// wins, matching the clients' linear lookup.
func (r *Repository) FindReport(ctx context.Context, projectID, week string) (domain.WeeklyReport, error) {
    w, err := scanReport(r.db.Pool.QueryRow(ctx,
        `SELECT `+reportCols+` FROM weekly_reports WHERE project_id=$1 AND week=$2 ORDER BY id LIMIT 1`, projectID, week))
    if errors.Is(err, pgx.ErrNoRows) { return w, domain.ErrNotFound }
    return w, err
}

// ---- Mock data ----

var mockTables = []string{
    "jira_stories", "projects", "team_members", "milestones",
    "sprints", "risks", "leave_entries", "weekly_reports",
}

// ClearMock deletes seeded rows across all tables in one transaction,
// leaving real data untouched.
func (r *Repository) ClearMock(ctx context.Context) error {
    tx, err := r.db.Pool.Begin(ctx)
    if err != nil { return err }
    defer tx.Rollback(ctx)
    for _, table := range mockTables {
        if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE is_mock`); err != nil { return err }
    }
    return tx.Commit(ctx)
}

// ---- Weekly KPI snapshots ----

func (r *Repository) UpsertKPIValues(ctx context.Context, week, projectID string, values map[string]float64) error {
    if len(values) == 0 { return nil }
    batch := &pgx.Batch{}
    const q = `INSERT INTO kpi_weekly(week, project_id, kpi, value) VALUES($1,$2,$3,$4)
        ON CONFLICT (week, project_id, kpi) DO UPDATE SET value=EXCLUDED.value`
    for k, v := range values { batch.Queue(q, week, projectID, k, v) }
    br := r.db.Pool.SendBatch(ctx, batch)
    defer br.Close()
    for range values { if _, err := br.Exec(); err != nil { return err } }
    return nil
}

func (r *Repository) StartJobRun(ctx context.Context) (int64, error) {
    var id int64
    err := r.db.Pool.QueryRow(ctx, `INSERT INTO job_runs(started_at, success) VALUES(now(), false) RETURNING id`).Scan(&id)
    return id, err
}

func (r *Repository) FinishJobRun(ctx context.Context, id int64, projectsSeen int, success bool, errStr string) error {
    _, err := r.db.Pool.Exec(ctx, `UPDATE job_runs SET finished_at=now(), projects_seen=$2, success=$3, error=$4 WHERE id=$1`,
        id, projectsSeen, success, errStr)
    return err
}

type LastRun struct {
    StartedAt    time.Time  `json:"started_at"`
    FinishedAt   *time.Time `json:"finished_at"`
    ProjectsSeen int        `json:"projects_seen"`
    Success      bool       `json:"success"`
    Error        string     `json:"error"`
}

func (r *Repository) GetLastRun(ctx context.Context) (*LastRun, error) {
    const q = `SELECT started_at, finished_at, coalesce(projects_seen,0), coalesce(success,false), coalesce(error,'')
        FROM job_runs ORDER BY id DESC LIMIT 1`
    lr := &LastRun{}
    err := r.db.Pool.QueryRow(ctx, q).Scan(&lr.StartedAt, &lr.FinishedAt, &lr.ProjectsSeen, &lr.Success, &lr.Error)
    if errors.Is(err, pgx.ErrNoRows) { return nil, domain.ErrNotFound }
    if err != nil { return nil, err }
    return lr, nil
}
