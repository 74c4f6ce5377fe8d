/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */

// Package boardimport maps heterogeneous spreadsheet rows (scrum, kanban and
// azure-boards header dialects) onto the canonical story shape. Header
// aliasing and status keyword matching are explicit ordered rule lists so
// evaluation order stays visible and testable.
package boardimport

import (
    "fmt"
    "sort"
    "strconv"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/angular-dynamo/projectpulse/internal/domain"
)

// Row is one parsed spreadsheet row, header -> cell value.
type Row map[string]any

type statusRule struct {
    keywords []string
    status   domain.TaskStatus
}

// statusRules is evaluated top to bottom, first match wins. inprogress is
// checked before done and blocked, so "blocked - in progress" normalizes to
// inprogress.
var statusRules = []statusRule{
    {[]string{"progress", "active", "doing"}, domain.StatusInProgress},
    {[]string{"done", "closed", "resolved", "completed"}, domain.StatusDone},
    {[]string{"block", "impeded"}, domain.StatusBlocked},
}

// NormalizeStatus maps a raw board status onto the canonical task status.
// Unrecognized values fall through to todo.
func NormalizeStatus(raw string) domain.TaskStatus {
    s := strings.ToLower(strings.TrimSpace(raw))
    for _, rule := range statusRules {
        for _, kw := range rule.keywords {
            if strings.Contains(s, kw) { return rule.status }
        }
    }
    return domain.StatusTodo
}

// Column alias lists, first non-empty cell wins.
var (
    idAliases       = []string{"Story ID", "ID", "Issue key"}
    titleAliases    = []string{"Title", "Summary"}
    statusAliases   = []string{"Status", "State"}
    pointsAliases   = []string{"Story Points", "Effort", "Estimate"}
    sprintAliases   = []string{"Sprint", "Iteration Path"}
    assigneeAliases = []string{"Assignee", "Assigned To"}
    epicAliases     = []string{"Epic", "Area Path"}
    projIDAliases   = []string{"Project ID", "Project Code"}
    projNameAliases = []string{"Project Name", "Project"}
    weekAliases     = []string{"Week"}
)

func cell(row Row, aliases []string) string {
    for _, a := range aliases {
        v, ok := row[a]
        if !ok || v == nil { continue }
        s := strings.TrimSpace(fmt.Sprintf("%v", v))
        if s != "" { return s }
    }
    return ""
}

func cellInt(row Row, aliases []string) int {
    s := cell(row, aliases)
    if s == "" { return 0 }
    if n, err := strconv.Atoi(s); err == nil { return n }
    if f, err := strconv.ParseFloat(s, 64); err == nil { return int(f) }
    return 0
}

// Result is the normalized import: stories plus the de-duplicated projects
// the rows referenced. The caller upserts projects before inserting stories.
type Result struct {
    Stories  []domain.Story
    Projects []domain.Project
}

// Transform normalizes parsed rows. Rows without project columns fall back
// to defaultProjectID and add nothing to the project set; every project id
// detected from the rows themselves must carry a non-blank name or the whole
// import fails.
func Transform(rows []Row, defaultProjectID, defaultWeek string) (Result, error) {
    var res Result
    projNames := map[string]string{}
    var projOrder []string

    now := time.Now().UTC().Format(time.RFC3339)
    for _, row := range rows {
        id := cell(row, idAliases)
        if id == "" { id = "TMP-" + uuid.NewString()[:8] }
        title := cell(row, titleAliases)
        if title == "" { title = "Untitled" }
        rawStatus := cell(row, statusAliases)
        if rawStatus == "" { rawStatus = "To Do" }
        sprint := cell(row, sprintAliases)
        if sprint == "" { sprint = "Backlog" }
        assignee := cell(row, assigneeAliases)
        if assignee == "" { assignee = "Unassigned" }
        epic := cell(row, epicAliases)
        if epic == "" { epic = "General" }
        week := cell(row, weekAliases)
        if week == "" { week = defaultWeek }

        projectID := cell(row, projIDAliases)
        if projectID != "" {
            if _, seen := projNames[projectID]; !seen { projOrder = append(projOrder, projectID) }
            if name := cell(row, projNameAliases); name != "" {
                projNames[projectID] = name
            } else if _, seen := projNames[projectID]; !seen {
                projNames[projectID] = ""
            }
        } else {
            projectID = defaultProjectID
        }

        res.Stories = append(res.Stories, domain.Story{
            ID:          id,
            Title:       title,
            AssigneeID:  assignee,
            StoryPoints: cellInt(row, pointsAliases),
            Status:      NormalizeStatus(rawStatus),
            Epic:        epic,
            Sprint:      sprint,
            Week:        week,
            ProjectID:   projectID,
            CreatedAt:   now,
            PulledDate:  now,
        })
    }

    var blank []string
    for _, id := range projOrder {
        if strings.TrimSpace(projNames[id]) == "" { blank = append(blank, id) }
    }
    if len(blank) > 0 {
        sort.Strings(blank)
        return Result{}, domain.Invalid("Project Name",
            "project(s) %s referenced without a name; every imported project needs one", strings.Join(blank, ", "))
    }

    for _, id := range projOrder {
        res.Projects = append(res.Projects, domain.Project{ID: id, Name: projNames[id]})
    }
    return res, nil
}
