package boardimport

import (
    "errors"
    "strings"
    "testing"

    "github.com/angular-dynamo/projectpulse/internal/domain"
)

func TestNormalizeStatus_FixedMappings(t *testing.T) {
    cases := []struct {
        raw  string
        want domain.TaskStatus
    }{
        {"In Progress", domain.StatusInProgress},
        {"Active", domain.StatusInProgress},
        {"Doing", domain.StatusInProgress},
        {"Done", domain.StatusDone},
        {"Closed", domain.StatusDone},
        {"Resolved", domain.StatusDone},
        {"Completed", domain.StatusDone},
        {"Blocked", domain.StatusBlocked},
        {"Impeded", domain.StatusBlocked},
        {"Open", domain.StatusTodo},
        {"To Do", domain.StatusTodo},
        {"whatever", domain.StatusTodo},
        {"", domain.StatusTodo},
    }
    for _, c := range cases {
        if got := NormalizeStatus(c.raw); got != c.want {
            t.Errorf("NormalizeStatus(%q) = %q, want %q", c.raw, got, c.want)
        }
    }
}

func TestNormalizeStatus_InProgressWinsOverBlocked(t *testing.T) {
    // Rule order is fixed: the inprogress keywords are checked first.
    if got := NormalizeStatus("Blocked - In Progress"); got != domain.StatusInProgress {
        t.Fatalf("got %q, want inprogress", got)
    }
}

func TestTransform_ScrumHeaders(t *testing.T) {
    rows := []Row{{
        "Story ID":     "CPR-101",
        "Title":        "Dashboard layout responsive fix",
        "Status":       "Done",
        "Story Points": "5",
        "Sprint":       "Sprint 4",
        "Assignee":     "tm1",
        "Epic":         "Dashboard",
    }}
    res, err := Transform(rows, "proj1", "2026-W08")
    if err != nil { t.Fatal(err) }
    if len(res.Stories) != 1 { t.Fatalf("stories = %d", len(res.Stories)) }
    s := res.Stories[0]
    if s.ID != "CPR-101" || s.Status != domain.StatusDone || s.StoryPoints != 5 {
        t.Fatalf("story = %+v", s)
    }
    if s.ProjectID != "proj1" || s.Week != "2026-W08" {
        t.Fatalf("defaults not applied: %+v", s)
    }
}

func TestTransform_AzureBoardsHeaders(t *testing.T) {
    rows := []Row{{
        "ID":             "1042",
        "Summary":        "Sync conflict handling",
        "State":          "Active",
        "Effort":         "8",
        "Iteration Path": "MAV2\\Sprint 7",
        "Assigned To":    "tm5",
        "Area Path":      "Offline Mode",
    }}
    res, err := Transform(rows, "proj3", "2026-W07")
    if err != nil { t.Fatal(err) }
    s := res.Stories[0]
    if s.Status != domain.StatusInProgress || s.StoryPoints != 8 || s.Epic != "Offline Mode" {
        t.Fatalf("story = %+v", s)
    }
    if s.Sprint != "MAV2\\Sprint 7" || s.AssigneeID != "tm5" {
        t.Fatalf("story = %+v", s)
    }
}

func TestTransform_FirstNonEmptyAliasWins(t *testing.T) {
    rows := []Row{{
        "Story ID":  "",
        "ID":        "X-1",
        "Issue key": "Y-2",
        "Title":     "t",
        "Status":    "todo",
    }}
    res, err := Transform(rows, "p1", "2026-W01")
    if err != nil { t.Fatal(err) }
    if res.Stories[0].ID != "X-1" {
        t.Fatalf("id = %q, want X-1 (first non-empty alias)", res.Stories[0].ID)
    }
}

func TestTransform_DefaultsAndMintedID(t *testing.T) {
    res, err := Transform([]Row{{"Status": "Open"}}, "p1", "2026-W01")
    if err != nil { t.Fatal(err) }
    s := res.Stories[0]
    if !strings.HasPrefix(s.ID, "TMP-") {
        t.Fatalf("expected minted TMP id, got %q", s.ID)
    }
    if s.Title != "Untitled" || s.Sprint != "Backlog" || s.AssigneeID != "Unassigned" || s.Epic != "General" {
        t.Fatalf("defaults = %+v", s)
    }
    if s.StoryPoints != 0 {
        t.Fatalf("points = %d, want 0", s.StoryPoints)
    }
}

func TestTransform_PointsParseFailureDefaultsZero(t *testing.T) {
    res, err := Transform([]Row{{"Story ID": "A", "Story Points": "five"}}, "p1", "w")
    if err != nil { t.Fatal(err) }
    if res.Stories[0].StoryPoints != 0 {
        t.Fatalf("points = %d, want 0", res.Stories[0].StoryPoints)
    }
}

func TestTransform_DetectsAndDedupesProjects(t *testing.T) {
    rows := []Row{
        {"Story ID": "A-1", "Project ID": "pA", "Project Name": "Alpha"},
        {"Story ID": "A-2", "Project ID": "pA", "Project Name": "Alpha"},
        {"Story ID": "B-1", "Project ID": "pB", "Project Name": "Beta"},
        {"Story ID": "C-1"}, // falls back to default project
    }
    res, err := Transform(rows, "pDefault", "w")
    if err != nil { t.Fatal(err) }
    if len(res.Projects) != 2 {
        t.Fatalf("projects = %+v", res.Projects)
    }
    if res.Projects[0].ID != "pA" || res.Projects[1].ID != "pB" {
        t.Fatalf("project order = %+v", res.Projects)
    }
    if res.Stories[3].ProjectID != "pDefault" {
        t.Fatalf("fallback project = %q", res.Stories[3].ProjectID)
    }
}

func TestTransform_BlankProjectNameFailsWholeImport(t *testing.T) {
    rows := []Row{
        {"Story ID": "A-1", "Project ID": "pA", "Project Name": "Alpha"},
        {"Story ID": "B-1", "Project ID": "pB"},
    }
    _, err := Transform(rows, "pDefault", "w")
    if err == nil { t.Fatal("expected validation error") }
    var verr *domain.ValidationError
    if !errors.As(err, &verr) {
        t.Fatalf("expected ValidationError, got %T: %v", err, err)
    }
    if !strings.Contains(err.Error(), "pB") {
        t.Fatalf("error should name the offending project: %v", err)
    }
}
