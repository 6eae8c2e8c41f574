package model

import (
	"sort"
	"time"
)

// Session labels within a clinic day.
const (
	SessionMorning   = "morning"
	SessionAfternoon = "afternoon"
	SessionCall      = "call"
)

// IsClinicSession reports whether a session label counts toward clinic
// staffing and workload (call shifts do not).
func IsClinicSession(session string) bool {
	return session == SessionMorning || session == SessionAfternoon
}

// Provider holds per-provider scheduling attributes. Immutable for the
// duration of a solve; sourced from the department YAML.
type Provider struct {
	Role              string  `yaml:"role" json:"role"`
	MaxClinicsPerWeek int     `yaml:"max_clinics_per_week" json:"max_clinics_per_week"`
	NeedsRDO          *bool   `yaml:"needs_rdo" json:"needs_rdo,omitempty"` // nil means true
	RDOPreference     string  `yaml:"rdo_preference" json:"rdo_preference,omitempty"`
	FridayOnly        bool    `yaml:"friday_only" json:"friday_only,omitempty"`
	FractureClinic    bool    `yaml:"fracture_clinic" json:"fracture_clinic,omitempty"`
	MaxCallsPerMonth  *int    `yaml:"max_calls_per_month" json:"max_calls_per_month,omitempty"`
}

// RequiresRDO reports whether the provider needs a weekly mandatory day off.
// Providers default to needing one unless the config says otherwise.
func (p Provider) RequiresRDO() bool {
	return p.NeedsRDO == nil || *p.NeedsRDO
}

// RandomDayOff configures which weekdays may carry the mandatory day off.
type RandomDayOff struct {
	EligibleDays []string `yaml:"eligible_days" json:"eligible_days"`
}

// InpatientSchedule describes the shape of an inpatient rotation.
type InpatientSchedule struct {
	InpatientLength    int    `yaml:"inpatient_length" json:"inpatient_length"` // days, default 7
	InpatientStartsOn  string `yaml:"inpatient_starts_on" json:"inpatient_starts_on"`
	InpatientEndsOn    string `yaml:"inpatient_ends_on" json:"inpatient_ends_on"`
	PreInpatientLeave  string `yaml:"pre_inpatient_leave" json:"pre_inpatient_leave"`
	PostInpatientLeave string `yaml:"post_inpatient_leave" json:"post_inpatient_leave"`
}

// Length returns the configured rotation length, defaulting to 7 days.
func (s InpatientSchedule) Length() int {
	if s.InpatientLength <= 0 {
		return 7
	}
	return s.InpatientLength
}

// Staffing bounds the provider count per clinic session.
type Staffing struct {
	MinProvidersPerSession int `yaml:"min_providers_per_session" json:"min_providers_per_session"`
	MaxProvidersPerSession int `yaml:"max_providers_per_session" json:"max_providers_per_session"`
}

// DepartmentConfig is the full scheduling configuration for one department.
type DepartmentConfig struct {
	Name              string              `yaml:"name" json:"name"`
	ClinicDays        []string            `yaml:"clinic_days" json:"clinic_days"`
	ClinicSessions    map[string][]string `yaml:"clinic_sessions" json:"clinic_sessions"`
	CallDays          []string            `yaml:"call_days" json:"call_days,omitempty"`
	SpecialtyDay      string              `yaml:"specialty_day" json:"specialty_day,omitempty"`
	RandomDayOff      RandomDayOff        `yaml:"random_day_off" json:"random_day_off"`
	InpatientSchedule InpatientSchedule   `yaml:"inpatient_schedule" json:"inpatient_schedule"`
	Staffing          Staffing            `yaml:"staffing" json:"staffing"`
	HolidayDates      []time.Time         `yaml:"holiday_dates" json:"holiday_dates,omitempty"`
	Providers         map[string]Provider `yaml:"providers" json:"providers"`
}

// HasCall reports whether the department schedules call coverage.
func (c DepartmentConfig) HasCall() bool {
	return len(c.CallDays) > 0
}

// ProviderNames returns the roster in lexicographic order.
func (c DepartmentConfig) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LeaveRequest is a pre-approved day of leave for one provider.
// Duplicate (provider, date) rows are idempotent.
type LeaveRequest struct {
	Provider string    `json:"provider"`
	Date     time.Time `json:"date"`
}

// InpatientStart marks the first day of a fixed-length inpatient rotation.
type InpatientStart struct {
	Provider string    `json:"provider"`
	Date     time.Time `json:"date"`
}

// InpatientDay is one expanded calendar day of an inpatient rotation.
type InpatientDay struct {
	Provider string    `json:"provider"`
	Date     time.Time `json:"date"`
}
