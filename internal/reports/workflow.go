/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */

// Package reports holds the weekly status report lifecycle as pure
// transition functions: draft -> submitted -> approved | rejected. draft is
// a conceptual initial state only; the first save always lands on submitted,
// and a rejected report re-saves straight back to submitted. No transition
// removes a report.
package reports

import (
    "errors"
    "time"

    "github.com/google/uuid"

    "github.com/angular-dynamo/projectpulse/internal/domain"
)

// DefaultRejectionComment is recorded when a director rejects without
// leaving feedback; approvalComment is never empty after a rejection.
const DefaultRejectionComment = "Please revise and resubmit."

var ErrNotSubmitted = errors.New("report is not in submitted state")

// Draft carries the preparer-editable fields of a report.
type Draft struct {
    ProjectID       string           `json:"projectId"`
    Week            string           `json:"week"`
    RAGStatus       domain.RAGStatus `json:"ragStatus"`
    Accomplishments string           `json:"accomplishments"`
    NextWeekPlan    string           `json:"nextWeekPlan"`
    RisksMitigation string           `json:"risksMitigation"`
    Blockers        string           `json:"blockers"`
    PreparedBy      string           `json:"preparedBy"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Submit applies a draft. With an existing report the narrative fields are
// overwritten and updatedAt stamped; without one a new id is minted and
// createdAt set. Either way the result is submitted, even when the previous
// state was rejected.
func Submit(existing *domain.WeeklyReport, d Draft, now time.Time) domain.WeeklyReport {
    if existing != nil {
        r := *existing
        r.RAGStatus = d.RAGStatus
        r.Accomplishments = d.Accomplishments
        r.NextWeekPlan = d.NextWeekPlan
        r.RisksMitigation = d.RisksMitigation
        r.Blockers = d.Blockers
        if d.PreparedBy != "" { r.PreparedBy = d.PreparedBy }
        r.Status = domain.ReportSubmitted
        r.UpdatedAt = stamp(now)
        return r
    }
    return domain.WeeklyReport{
        ID:              "wr-" + uuid.NewString()[:8],
        ProjectID:       d.ProjectID,
        Week:            d.Week,
        RAGStatus:       d.RAGStatus,
        Accomplishments: d.Accomplishments,
        NextWeekPlan:    d.NextWeekPlan,
        RisksMitigation: d.RisksMitigation,
        Blockers:        d.Blockers,
        PreparedBy:      d.PreparedBy,
        Status:          domain.ReportSubmitted,
        CreatedAt:       stamp(now),
        UpdatedAt:       stamp(now),
    }
}

// Approve records the approver and clears any earlier rejection comment.
// Only a submitted report can be approved.
func Approve(r domain.WeeklyReport, approver string, now time.Time) (domain.WeeklyReport, error) {
    if r.Status != domain.ReportSubmitted {
        return r, ErrNotSubmitted
    }
    r.Status = domain.ReportApproved
    r.ApprovedBy = approver
    r.ApprovalComment = ""
    r.UpdatedAt = stamp(now)
    return r, nil
}

// Reject records the approver and a comment, defaulting when none given.
func Reject(r domain.WeeklyReport, approver, comment string, now time.Time) (domain.WeeklyReport, error) {
    if r.Status != domain.ReportSubmitted {
        return r, ErrNotSubmitted
    }
    if comment == "" { comment = DefaultRejectionComment }
    r.Status = domain.ReportRejected
    r.ApprovedBy = approver
    r.ApprovalComment = comment
    r.UpdatedAt = stamp(now)
    return r, nil
}
