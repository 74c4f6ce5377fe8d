package kpi

import (
    "testing"

    "github.com/angular-dynamo/projectpulse/internal/domain"
)

func sprint(id, projectID string, planned, completed int) domain.Sprint {
    return domain.Sprint{ID: id, ProjectID: projectID, PlannedPoints: planned, CompletedPoints: completed}
}

func TestAvgVelocity_MeanOfCompletedPoints(t *testing.T) {
    ds := domain.Dataset{Sprints: []domain.Sprint{
        sprint("sp1", "p1", 40, 40),
        sprint("sp2", "p1", 45, 43),
        sprint("sp3", "p1", 48, 46),
    }}
    snap := Compute(ds, "p1", "")
    if snap.AvgVelocity != 43 {
        t.Fatalf("avg velocity = %d, want 43", snap.AvgVelocity)
    }
    if snap.SprintCount != 3 {
        t.Fatalf("sprint count = %d, want 3", snap.SprintCount)
    }
}

func TestAvgVelocity_ZeroForEmptySprintSet(t *testing.T) {
    snap := Compute(domain.Dataset{}, "p1", "")
    if snap.AvgVelocity != 0 {
        t.Fatalf("avg velocity = %d, want 0", snap.AvgVelocity)
    }
    if snap.SprintCompletion != 0 {
        t.Fatalf("sprint completion = %d, want 0", snap.SprintCompletion)
    }
}

func TestSprintCompletion_PlannedZeroTreatedAsOne(t *testing.T) {
    ds := domain.Dataset{Sprints: []domain.Sprint{sprint("sp1", "p1", 0, 5)}}
    snap := Compute(ds, "p1", "")
    if snap.SprintCompletion != 500 {
        t.Fatalf("sprint completion = %d, want 500", snap.SprintCompletion)
    }
}

func TestSprintCompletion_UsesLastSprintInSliceOrder(t *testing.T) {
    ds := domain.Dataset{Sprints: []domain.Sprint{
        sprint("sp1", "p1", 50, 50),
        sprint("sp2", "p1", 50, 39),
    }}
    snap := Compute(ds, "p1", "")
    if snap.LatestVelocity != 39 || snap.LatestPlanned != 50 {
        t.Fatalf("latest = %d/%d, want 39/50", snap.LatestVelocity, snap.LatestPlanned)
    }
    if snap.SprintCompletion != 78 {
        t.Fatalf("sprint completion = %d, want 78", snap.SprintCompletion)
    }
}

func TestBudgetBurn_ZeroBudgetIsZero(t *testing.T) {
    ds := domain.Dataset{Projects: []domain.Project{{ID: "p1", Budget: 0, BudgetSpent: 99999}}}
    snap := Compute(ds, "p1", "")
    if snap.BudgetBurn != 0 {
        t.Fatalf("budget burn = %d, want 0", snap.BudgetBurn)
    }
}

func TestBudgetBurn_AllProjectsSumsBudgets(t *testing.T) {
    ds := domain.Dataset{Projects: []domain.Project{
        {ID: "p1", Budget: 100000, BudgetSpent: 50000},
        {ID: "p2", Budget: 100000, BudgetSpent: 10000},
    }}
    snap := Compute(ds, "", "")
    if !snap.AllProjects {
        t.Fatal("expected all-projects scope")
    }
    if snap.BudgetBurn != 30 {
        t.Fatalf("budget burn = %d, want 30", snap.BudgetBurn)
    }
    if snap.ProjectLabel != "All Projects (2)" {
        t.Fatalf("label = %q", snap.ProjectLabel)
    }
}

func TestBudgetBurn_OverBudgetIsValid(t *testing.T) {
    ds := domain.Dataset{Projects: []domain.Project{{ID: "p1", Budget: 100, BudgetSpent: 150}}}
    if got := Compute(ds, "p1", "").BudgetBurn; got != 150 {
        t.Fatalf("budget burn = %d, want 150", got)
    }
}

func TestStoryBreakdown_WeekFilter(t *testing.T) {
    ds := domain.Dataset{JiraStories: []domain.Story{
        {ID: "s1", ProjectID: "p1", Week: "2026-W08", Status: domain.StatusDone},
        {ID: "s2", ProjectID: "p1", Week: "2026-W08", Status: domain.StatusBlocked},
        {ID: "s3", ProjectID: "p1", Week: "2026-W08", Status: domain.StatusInProgress},
        {ID: "s4", ProjectID: "p1", Week: "2026-W07", Status: domain.StatusDone},
        {ID: "s5", ProjectID: "p2", Week: "2026-W08", Status: domain.StatusDone},
    }}
    snap := Compute(ds, "p1", "2026-W08")
    if snap.TotalStories != 3 || snap.DoneStories != 1 || snap.BlockedStories != 1 || snap.InProgressStories != 1 {
        t.Fatalf("breakdown = %+v", snap)
    }
    // Empty week means no filter
    snap = Compute(ds, "p1", "")
    if snap.TotalStories != 4 {
        t.Fatalf("unfiltered total = %d, want 4", snap.TotalStories)
    }
}

func TestCapacity_UtilizationHeuristic(t *testing.T) {
    ds := domain.Dataset{
        TeamMembers: []domain.TeamMember{
            {ID: "tm1"}, {ID: "tm2"}, {ID: "admin0", AppRole: "admin"},
        },
        LeaveEntries: []domain.LeaveEntry{
            {MemberID: "tm1", Week: "2026-W08", HoursOff: 16},
            {MemberID: "tm2", Week: "2026-W07", HoursOff: 40},
        },
        JiraStories: []domain.Story{
            {ID: "s1", ProjectID: "p1", Week: "2026-W08", Status: domain.StatusDone, StoryPoints: 5},
        },
    }
    snap := Compute(ds, "", "2026-W08")
    // 2 members (admin excluded) * 40 = 80 total; 16 leave; 64 available.
    if snap.Capacity.Total != 80 || snap.Capacity.Leave != 16 || snap.Capacity.Available != 64 {
        t.Fatalf("capacity = %+v", snap.Capacity)
    }
    // 5 done points * 4h = 20h worked; 20/64 = 31%.
    if snap.Capacity.Utilization != 31 {
        t.Fatalf("utilization = %d, want 31", snap.Capacity.Utilization)
    }
}

func TestCapacity_AvailableFlooredAtOne(t *testing.T) {
    ds := domain.Dataset{
        TeamMembers:  []domain.TeamMember{{ID: "tm1"}},
        LeaveEntries: []domain.LeaveEntry{{MemberID: "tm1", Week: "2026-W08", HoursOff: 80}},
    }
    snap := Compute(ds, "", "2026-W08")
    if snap.Capacity.Available != 1 {
        t.Fatalf("available = %d, want 1", snap.Capacity.Available)
    }
}

func TestOnTimeDelivery(t *testing.T) {
    ds := domain.Dataset{Sprints: []domain.Sprint{
        sprint("sp1", "p1", 40, 40),
        sprint("sp2", "p1", 45, 43),
        sprint("sp3", "p1", 40, 41),
        sprint("sp4", "p1", 50, 39),
    }}
    snap := Compute(ds, "p1", "")
    if snap.OnTimeDelivery != 50 {
        t.Fatalf("on-time delivery = %d, want 50", snap.OnTimeDelivery)
    }
}

func TestRiskRollup_OpenAndCritical(t *testing.T) {
    ds := domain.Dataset{Risks: []domain.Risk{
        {ID: "r1", ProjectID: "p1", Status: "open", Impact: "high"},
        {ID: "r2", ProjectID: "p1", Status: "open", Impact: "critical"},
        {ID: "r3", ProjectID: "p1", Status: "mitigated", Impact: "critical"},
        {ID: "r4", ProjectID: "p2", Status: "open", Impact: "critical"},
    }}
    snap := Compute(ds, "p1", "")
    if snap.Risks.Open != 2 || snap.Risks.Critical != 1 {
        t.Fatalf("risks = %+v", snap.Risks)
    }
    snap = Compute(ds, "", "")
    if snap.Risks.Open != 3 || snap.Risks.Critical != 2 {
        t.Fatalf("all-scope risks = %+v", snap.Risks)
    }
}

func TestValues_CoversSeriesNames(t *testing.T) {
    vals := Compute(domain.Dataset{}, "", "").Values()
    for _, k := range []string{"avg_velocity", "budget_burn", "on_time_delivery", "utilization"} {
        if _, ok := vals[k]; !ok {
            t.Fatalf("missing series %q in %#v", k, vals)
        }
    }
}
