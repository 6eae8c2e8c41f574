package model

import "time"

// SolveStatus is the solver outcome for one model instance.
type SolveStatus string

const (
	StatusOptimal      SolveStatus = "OPTIMAL"
	StatusFeasible     SolveStatus = "FEASIBLE"
	StatusInfeasible   SolveStatus = "INFEASIBLE"
	StatusModelInvalid SolveStatus = "MODEL_INVALID"
	StatusUnknown      SolveStatus = "UNKNOWN"
	StatusError        SolveStatus = "ERROR"
)

// Usable reports whether the status carries an assignment worth keeping.
func (s SolveStatus) Usable() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// SolutionRecord is the structured outcome of one department solve. The best
// record for a department is retained across adaptive-search iterations.
type SolutionRecord struct {
	ID              string        `json:"id"`
	Department      string        `json:"department"`
	Status          SolveStatus   `json:"status"`
	StaffingFloor   int           `json:"staffing_floor"`
	ObjectiveValue  *float64      `json:"objective_value,omitempty"`
	SolveTime       time.Duration `json:"solve_time"`
	TotalSolveTime  time.Duration `json:"total_solve_time"`
	Branches        int64         `json:"branches"`
	Conflicts       int64         `json:"conflicts"`
	FloorsAttempted []int         `json:"floors_attempted,omitempty"`
}

// ScheduleRow is one (date, session) row of the session-level table.
// Providers are sorted lexicographically for reproducibility.
type ScheduleRow struct {
	Date      time.Time `json:"date"`
	DayOfWeek string    `json:"day_of_week"`
	Session   string    `json:"session"`
	Providers []string  `json:"providers"`
	Count     int       `json:"count"`
}

// WeekKey identifies an ISO week for summary tables.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// ProviderWeek is one provider's clinic load for one ISO week.
type ProviderWeek struct {
	Week        WeekKey `json:"week"`
	Sessions    int     `json:"sessions"`
	Consecutive int     `json:"consecutive"`
}

// ProviderSummaryRow is one provider's row of the weekly load table.
type ProviderSummaryRow struct {
	Provider         string         `json:"provider"`
	Weeks            []ProviderWeek `json:"weeks"`
	TotalSessions    int            `json:"total_sessions"`
	MondayFridayOff  int            `json:"monday_or_friday_off"`
	TotalAM          int            `json:"total_am"`
	TotalPM          int            `json:"total_pm"`
}

// CallWeek is one provider's call count for one ISO week.
type CallWeek struct {
	Week  WeekKey `json:"week"`
	Calls int     `json:"calls"`
}

// CallSummaryRow is one provider's row of the call table. Only produced for
// call-bearing departments.
type CallSummaryRow struct {
	Provider   string     `json:"provider"`
	Weeks      []CallWeek `json:"weeks"`
	TotalCalls int        `json:"total_calls"`
}

// DepartmentResult bundles everything extracted from one department solve.
type DepartmentResult struct {
	Department      string               `json:"department"`
	Record          SolutionRecord       `json:"record"`
	Schedule        []ScheduleRow        `json:"schedule,omitempty"`
	ProviderSummary []ProviderSummaryRow `json:"provider_summary,omitempty"`
	CallSummary     []CallSummaryRow     `json:"call_summary,omitempty"`
}

// Run is one persisted multi-department scheduling run.
type Run struct {
	ID          string             `json:"id"`
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
	Departments []DepartmentResult `json:"departments"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Commitments holds assignments fixed by an earlier department's solved
// schedule, keyed by provider. Immutable once produced; injected into later
// departments' models before their own search begins.
type Commitments struct {
	// Clinic maps provider -> date -> set of committed clinic session labels.
	Clinic map[string]map[time.Time]map[string]bool `json:"clinic,omitempty"`
	// Call maps provider -> set of committed call dates.
	Call map[string]map[time.Time]bool `json:"call,omitempty"`
}

// NewCommitments returns an empty commitment table.
func NewCommitments() *Commitments {
	return &Commitments{
		Clinic: make(map[string]map[time.Time]map[string]bool),
		Call:   make(map[string]map[time.Time]bool),
	}
}

// AddClinic records a committed clinic session.
func (c *Commitments) AddClinic(provider string, date time.Time, session string) {
	if c.Clinic[provider] == nil {
		c.Clinic[provider] = make(map[time.Time]map[string]bool)
	}
	if c.Clinic[provider][date] == nil {
		c.Clinic[provider][date] = make(map[string]bool)
	}
	c.Clinic[provider][date][session] = true
}

// AddCall records a committed call assignment.
func (c *Commitments) AddCall(provider string, date time.Time) {
	if c.Call[provider] == nil {
		c.Call[provider] = make(map[time.Time]bool)
	}
	c.Call[provider][date] = true
}

// Empty reports whether no assignments are committed.
func (c *Commitments) Empty() bool {
	return c == nil || (len(c.Clinic) == 0 && len(c.Call) == 0)
}

// BusyOn reports whether the provider has any committed assignment
// (clinic or call) on the given date.
func (c *Commitments) BusyOn(provider string, date time.Time) bool {
	if c == nil {
		return false
	}
	if days, ok := c.Clinic[provider]; ok && len(days[date]) > 0 {
		return true
	}
	if days, ok := c.Call[provider]; ok && days[date] {
		return true
	}
	return false
}

// CalledOn reports whether the provider has a committed call on the date.
func (c *Commitments) CalledOn(provider string, date time.Time) bool {
	if c == nil {
		return false
	}
	days, ok := c.Call[provider]
	return ok && days[date]
}
