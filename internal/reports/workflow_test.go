package reports

import (
    "strings"
    "testing"
    "time"

    "github.com/angular-dynamo/projectpulse/internal/domain"
)

var now = time.Date(2026, 2, 23, 10, 0, 0, 0, time.UTC)

func draft() Draft {
    return Draft{
        ProjectID:       "proj1",
        Week:            "2026-W08",
        RAGStatus:       domain.RAGGreen,
        Accomplishments: "shipped the thing",
        NextWeekPlan:    "ship the next thing",
        PreparedBy:      "Kavita Singh",
    }
}

func TestSubmit_NewReportMintsIDAndSkipsDraftState(t *testing.T) {
    r := Submit(nil, draft(), now)
    if !strings.HasPrefix(r.ID, "wr-") {
        t.Fatalf("id = %q", r.ID)
    }
    if r.Status != domain.ReportSubmitted {
        t.Fatalf("status = %q, want submitted (draft is never persisted)", r.Status)
    }
    if r.CreatedAt != "2026-02-23T10:00:00Z" || r.UpdatedAt != r.CreatedAt {
        t.Fatalf("timestamps = %q / %q", r.CreatedAt, r.UpdatedAt)
    }
}

func TestSubmit_ExistingReportKeepsIDAndCreatedAt(t *testing.T) {
    orig := Submit(nil, draft(), now)
    d := draft()
    d.Accomplishments = "revised"
    r := Submit(&orig, d, now.Add(time.Hour))
    if r.ID != orig.ID || r.CreatedAt != orig.CreatedAt {
        t.Fatalf("identity changed: %+v", r)
    }
    if r.Accomplishments != "revised" || r.UpdatedAt == orig.UpdatedAt {
        t.Fatalf("fields not updated: %+v", r)
    }
}

func TestApprove_SetsApproverAndClearsComment(t *testing.T) {
    r := Submit(nil, draft(), now)
    r.ApprovalComment = "stale comment from a past rejection"
    got, err := Approve(r, "David Park", now)
    if err != nil { t.Fatal(err) }
    if got.Status != domain.ReportApproved {
        t.Fatalf("status = %q", got.Status)
    }
    if got.ApprovedBy != "David Park" {
        t.Fatalf("approvedBy = %q", got.ApprovedBy)
    }
    if got.ApprovalComment != "" {
        t.Fatalf("approvalComment should be cleared, got %q", got.ApprovalComment)
    }
}

func TestApprove_RequiresSubmitted(t *testing.T) {
    r := Submit(nil, draft(), now)
    approved, _ := Approve(r, "David Park", now)
    if _, err := Approve(approved, "David Park", now); err != ErrNotSubmitted {
        t.Fatalf("err = %v, want ErrNotSubmitted", err)
    }
}

func TestReject_DefaultsCommentWhenBlank(t *testing.T) {
    r := Submit(nil, draft(), now)
    got, err := Reject(r, "David Park", "", now)
    if err != nil { t.Fatal(err) }
    if got.Status != domain.ReportRejected {
        t.Fatalf("status = %q", got.Status)
    }
    if got.ApprovalComment != DefaultRejectionComment {
        t.Fatalf("comment = %q", got.ApprovalComment)
    }
}

func TestReject_KeepsGivenComment(t *testing.T) {
    r := Submit(nil, draft(), now)
    got, _ := Reject(r, "David Park", "numbers missing for W08", now)
    if got.ApprovalComment != "numbers missing for W08" {
        t.Fatalf("comment = %q", got.ApprovalComment)
    }
    if got.ApprovedBy != "David Park" {
        t.Fatalf("approvedBy = %q", got.ApprovedBy)
    }
}

func TestResubmitAfterRejection_GoesToSubmittedNeverDraft(t *testing.T) {
    r := Submit(nil, draft(), now)
    rejected, _ := Reject(r, "David Park", "", now)
    d := draft()
    d.Accomplishments = "addressed feedback"
    resubmitted := Submit(&rejected, d, now.Add(2*time.Hour))
    if resubmitted.Status != domain.ReportSubmitted {
        t.Fatalf("status = %q, want submitted", resubmitted.Status)
    }
    if resubmitted.Status == domain.ReportDraft {
        t.Fatal("must never transition back to draft")
    }
    if resubmitted.ID != r.ID {
        t.Fatalf("resubmit must overwrite in place, id changed to %q", resubmitted.ID)
    }
}
