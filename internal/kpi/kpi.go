/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */

// Package kpi derives read-only summary metrics from the raw entity
// collections for a (project-or-all, week) scope. Everything here is a pure
// function of its inputs: no caching, no side effects, recomputed per call.
package kpi

import (
    "fmt"
    "math"

    "github.com/angular-dynamo/projectpulse/internal/domain"
)

type MilestoneRollup struct {
    Delayed   int `json:"delayed"`
    OnTrack   int `json:"onTrack"`
    Completed int `json:"completed"`
    Total     int `json:"total"`
}

type RiskRollup struct {
    Open     int `json:"open"`
    Critical int `json:"critical"`
}

type CapacityRollup struct {
    Total       int `json:"total"`
    Available   int `json:"available"`
    Leave       int `json:"leave"`
    Utilization int `json:"utilization"`
}

// Snapshot is the full KPI set for one scope.
type Snapshot struct {
    AvgVelocity       int             `json:"avgVelocity"`
    LatestVelocity    int             `json:"latestVelocity"`
    LatestPlanned     int             `json:"latestPlanned"`
    SprintCompletion  int             `json:"sprintCompletion"`
    TotalStories      int             `json:"totalStories"`
    DoneStories       int             `json:"doneStories"`
    BlockedStories    int             `json:"blockedStories"`
    InProgressStories int             `json:"inProgressStories"`
    BudgetBurn        int             `json:"budgetBurn"`
    ProjectLabel      string          `json:"projectLabel"`
    SprintCount       int             `json:"sprintCount"`
    Milestones        MilestoneRollup `json:"milestones"`
    Risks             RiskRollup      `json:"risks"`
    Capacity          CapacityRollup  `json:"capacity"`
    OnTimeDelivery    int             `json:"onTimeDelivery"`
    AllProjects       bool            `json:"isAllProjects"`
}

func round(f float64) int { return int(math.Round(f)) }

// Compute aggregates the dataset for projectID ("" means all projects) and
// week ("" means no week filter). Latest sprint figures come from the last
// sprint in slice order; callers wanting date determinism sort first.
func Compute(ds domain.Dataset, projectID, week string) Snapshot {
    all := projectID == ""

    var project *domain.Project
    if !all {
        for i := range ds.Projects {
            if ds.Projects[i].ID == projectID { project = &ds.Projects[i]; break }
        }
    }

    var sprints []domain.Sprint
    for _, s := range ds.Sprints {
        if all || s.ProjectID == projectID { sprints = append(sprints, s) }
    }

    var scoped []domain.Story
    for _, s := range ds.JiraStories {
        if !all && s.ProjectID != projectID { continue }
        if week != "" && s.Week != week { continue }
        scoped = append(scoped, s)
    }

    snap := Snapshot{AllProjects: all, SprintCount: len(sprints)}

    // Sprint velocity
    if len(sprints) > 0 {
        sum := 0
        for _, s := range sprints { sum += s.CompletedPoints }
        snap.AvgVelocity = round(float64(sum) / float64(len(sprints)))
        latest := sprints[len(sprints)-1]
        snap.LatestVelocity = latest.CompletedPoints
        snap.LatestPlanned = latest.PlannedPoints
    }
    // Planned 0 is treated as 1 so completion never divides by zero.
    planned := snap.LatestPlanned
    if planned == 0 { planned = 1 }
    snap.SprintCompletion = round(float64(snap.LatestVelocity) / float64(planned) * 100)
    if len(sprints) == 0 { snap.LatestPlanned = 1 }

    // Story breakdown
    snap.TotalStories = len(scoped)
    for _, s := range scoped {
        switch s.Status {
        case domain.StatusDone: snap.DoneStories++
        case domain.StatusBlocked: snap.BlockedStories++
        case domain.StatusInProgress: snap.InProgressStories++
        }
    }

    // Budget burn, summed across projects in all-scope
    budget, spent := 0, 0
    if all {
        for _, p := range ds.Projects { budget += p.Budget; spent += p.BudgetSpent }
    } else if project != nil {
        budget, spent = project.Budget, project.BudgetSpent
    }
    if budget > 0 { snap.BudgetBurn = round(float64(spent) / float64(budget) * 100) }

    // Milestones
    for _, m := range ds.Milestones {
        if !all && m.ProjectID != projectID { continue }
        snap.Milestones.Total++
        switch m.Status {
        case domain.MilestoneDelayed: snap.Milestones.Delayed++
        case domain.MilestoneOnTrack: snap.Milestones.OnTrack++
        case domain.MilestoneCompleted: snap.Milestones.Completed++
        }
    }

    // Risks
    for _, r := range ds.Risks {
        if !all && r.ProjectID != projectID { continue }
        if r.Status != "open" { continue }
        snap.Risks.Open++
        if r.Impact == "critical" { snap.Risks.Critical++ }
    }

    // Capacity. Utilization is a heuristic proxy (4h per done point), not a
    // measured quantity.
    teamSize := 0
    for _, m := range ds.TeamMembers {
        if m.ID == "admin0" || m.AppRole == "admin" { continue }
        teamSize++
    }
    if teamSize == 0 { teamSize = 6 }
    snap.Capacity.Total = teamSize * 40
    for _, l := range ds.LeaveEntries {
        if l.Week == week { snap.Capacity.Leave += l.HoursOff }
    }
    available := snap.Capacity.Total - snap.Capacity.Leave
    if available < 1 { available = 1 }
    snap.Capacity.Available = available
    donePoints := 0
    for _, s := range scoped {
        if s.Status == domain.StatusDone { donePoints += s.StoryPoints }
    }
    hoursWorked := donePoints * 4
    if hoursWorked > available { hoursWorked = available }
    snap.Capacity.Utilization = round(float64(hoursWorked) / float64(available) * 100)

    // On-time delivery
    if len(sprints) > 0 {
        onTime := 0
        for _, s := range sprints {
            if s.CompletedPoints >= s.PlannedPoints { onTime++ }
        }
        snap.OnTimeDelivery = round(float64(onTime) / float64(len(sprints)) * 100)
    }

    if all {
        snap.ProjectLabel = fmt.Sprintf("All Projects (%d)", len(ds.Projects))
    } else if project != nil {
        snap.ProjectLabel = project.Name
    }
    return snap
}

// Values flattens the snapshot into named series for the weekly persistence
// job.
func (s Snapshot) Values() map[string]float64 {
    return map[string]float64{
        "avg_velocity":        float64(s.AvgVelocity),
        "latest_velocity":     float64(s.LatestVelocity),
        "sprint_completion":   float64(s.SprintCompletion),
        "total_stories":       float64(s.TotalStories),
        "done_stories":        float64(s.DoneStories),
        "blocked_stories":     float64(s.BlockedStories),
        "inprogress_stories":  float64(s.InProgressStories),
        "budget_burn":         float64(s.BudgetBurn),
        "milestones_delayed":  float64(s.Milestones.Delayed),
        "milestones_on_track": float64(s.Milestones.OnTrack),
        "milestones_done":     float64(s.Milestones.Completed),
        "risks_open":          float64(s.Risks.Open),
        "risks_critical":      float64(s.Risks.Critical),
        "capacity_available":  float64(s.Capacity.Available),
        "capacity_leave":      float64(s.Capacity.Leave),
        "utilization":         float64(s.Capacity.Utilization),
        "on_time_delivery":    float64(s.OnTimeDelivery),
    }
}
