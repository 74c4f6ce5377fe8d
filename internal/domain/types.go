package domain

type RAGStatus string

const (
    RAGGreen RAGStatus = "green"
    RAGAmber RAGStatus = "amber"
    RAGRed   RAGStatus = "red"
)

type TaskStatus string

const (
    StatusTodo       TaskStatus = "todo"
    StatusInProgress TaskStatus = "inprogress"
    StatusDone       TaskStatus = "done"
    StatusBlocked    TaskStatus = "blocked"
)

type MilestoneStatus string

const (
    MilestoneOnTrack   MilestoneStatus = "on-track"
    MilestoneAtRisk    MilestoneStatus = "at-risk"
    MilestoneDelayed   MilestoneStatus = "delayed"
    MilestoneCompleted MilestoneStatus = "completed"
)

type ReportStatus string

const (
    ReportDraft     ReportStatus = "draft"
    ReportSubmitted ReportStatus = "submitted"
    ReportApproved  ReportStatus = "approved"
    ReportRejected  ReportStatus = "rejected"
)

// Dates and week buckets are carried as strings (ISO dates and YYYY-Www)
// end to end, the same shape the clients and the store exchange.
type Project struct {
    ID          string          `json:"id"`
    Name        string          `json:"name"`
    Code        string          `json:"code"`
    OwnerID     string          `json:"ownerId"`
    Status      MilestoneStatus `json:"status"`
    RAGStatus   RAGStatus       `json:"ragStatus"`
    StartDate   string          `json:"startDate"`
    EndDate     string          `json:"endDate"`
    Budget      int             `json:"budget"`
    BudgetSpent int             `json:"budgetSpent"`
    Description string          `json:"description"`
    ProjectType string          `json:"projectType"` // scrum | kanban | azure_boards
    IsMock      bool            `json:"isMock"`
}

type TeamMember struct {
    ID                string `json:"id"`
    Name              string `json:"name"`
    Role              string `json:"role"`
    AppRole           string `json:"appRole"` // tpm | director | developer | admin
    Avatar            string `json:"avatar"`
    Email             string `json:"email"`
    TotalHoursPerWeek int    `json:"totalHoursPerWeek"`
    IsMock            bool   `json:"isMock"`
}

type Story struct {
    ID                 string     `json:"id"`
    Title              string     `json:"title"`
    AssigneeID         string     `json:"assigneeId"`
    StoryPoints        int        `json:"storyPoints"`
    Status             TaskStatus `json:"status"`
    Epic               string     `json:"epic"`
    Sprint             string     `json:"sprint"`
    Week               string     `json:"week"`
    ProjectID          string     `json:"projectId"`
    CreatedAt          string     `json:"createdAt,omitempty"`
    StartedAt          string     `json:"startedAt,omitempty"`
    CompletedAt        string     `json:"completedAt,omitempty"`
    Description        string     `json:"description,omitempty"`
    AcceptanceCriteria string     `json:"acceptanceCriteria,omitempty"`
    Comments           string     `json:"comments,omitempty"`
    PulledDate         string     `json:"pulledDate,omitempty"`
    RisksMitigation    string     `json:"risksMitigation,omitempty"`
    Blockers           string     `json:"blockers,omitempty"`
    AIMitigation       string     `json:"aiMitigation,omitempty"`
    IsMock             bool       `json:"isMock"`
}

type Milestone struct {
    ID          string          `json:"id"`
    ProjectID   string          `json:"projectId"`
    Title       string          `json:"title"`
    TargetDate  string          `json:"targetDate"`
    ActualDate  string          `json:"actualDate,omitempty"`
    StartDate   string          `json:"startDate,omitempty"`
    Status      MilestoneStatus `json:"status"`
    Description string          `json:"description"`
    IsMock      bool            `json:"isMock"`
}

// CompletedPoints is entered independently of summed story points for the
// same sprint; the two are never reconciled.
type Sprint struct {
    ID              string `json:"id"`
    ProjectID       string `json:"projectId"`
    Name            string `json:"name"`
    StartDate       string `json:"startDate"`
    EndDate         string `json:"endDate"`
    PlannedPoints   int    `json:"plannedPoints"`
    CompletedPoints int    `json:"completedPoints"`
    Week            string `json:"week"`
    IsMock          bool   `json:"isMock"`
}

type Risk struct {
    ID          string `json:"id"`
    ProjectID   string `json:"projectId"`
    Title       string `json:"title"`
    Description string `json:"description"`
    Probability string `json:"probability"` // low | medium | high | critical
    Impact      string `json:"impact"`
    Mitigation  string `json:"mitigation"`
    OwnerID     string `json:"ownerId"`
    Status      string `json:"status"` // open | mitigated | closed
    IsMock      bool   `json:"isMock"`
}

type LeaveEntry struct {
    ID       string `json:"id"`
    MemberID string `json:"memberId"`
    Week     string `json:"week"`
    HoursOff int    `json:"hoursOff"`
    Type     string `json:"type"` // vacation | sick | holiday | wfh
    IsMock   bool   `json:"isMock"`
}

type WeeklyReport struct {
    ID              string       `json:"id"`
    ProjectID       string       `json:"projectId"`
    Week            string       `json:"week"`
    RAGStatus       RAGStatus    `json:"ragStatus"`
    Accomplishments string       `json:"accomplishments"`
    NextWeekPlan    string       `json:"nextWeekPlan"`
    RisksMitigation string       `json:"risksMitigation"`
    Blockers        string       `json:"blockers"`
    PreparedBy      string       `json:"preparedBy"`
    ApprovedBy      string       `json:"approvedBy,omitempty"`
    Status          ReportStatus `json:"status"`
    ApprovalComment string       `json:"approvalComment,omitempty"`
    CreatedAt       string       `json:"createdAt"`
    UpdatedAt       string       `json:"updatedAt"`
    IsMock          bool         `json:"isMock"`
}

// Dataset is the full store contents as served by GET /api/data.
type Dataset struct {
    Projects      []Project      `json:"projects"`
    TeamMembers   []TeamMember   `json:"teamMembers"`
    JiraStories   []Story        `json:"jiraStories"`
    Milestones    []Milestone    `json:"milestones"`
    Sprints       []Sprint       `json:"sprints"`
    Risks         []Risk         `json:"risks"`
    LeaveEntries  []LeaveEntry   `json:"leaveEntries"`
    WeeklyReports []WeeklyReport `json:"weeklyReports"`
}
