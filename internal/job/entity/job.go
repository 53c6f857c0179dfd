package entity

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Job represents a posting in the jobs table of the in-memory store.
// ApplicationsCount is maintained by the application service and is never
// written through a JobPatch.
type Job struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Company           string    `json:"company"`
	Location          string    `json:"location"`
	Type              string    `json:"type"`
	Remote            bool      `json:"remote"`
	Salary            *Salary   `json:"salary,omitempty"`
	Description       string    `json:"description"`
	Requirements      []string  `json:"requirements,omitempty"`
	Benefits          []string  `json:"benefits,omitempty"`
	EmployerID        string    `json:"employerId"`
	Status            Status    `json:"status"`
	ApplicationsCount int       `json:"applicationsCount"`
	Skills            []string  `json:"skills,omitempty"`
	Experience        string    `json:"experience,omitempty"`
	PostedDate        time.Time `json:"postedDate"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no slices or pointers with j.
func (j Job) Clone() Job {
	j.Requirements = slices.Clone(j.Requirements)
	j.Benefits = slices.Clone(j.Benefits)
	j.Skills = slices.Clone(j.Skills)
	if j.Salary != nil {
		s := *j.Salary
		j.Salary = &s
	}
	return j
}

// Salary is either a single Amount or a Min..Max range, in Currency.
type Salary struct {
	Amount   int64  `json:"amount,omitempty"`
	Min      int64  `json:"min,omitempty"`
	Max      int64  `json:"max,omitempty"`
	Currency string `json:"currency"`
}

func (s Salary) IsRange() bool {
	return s.Amount == 0 && (s.Min != 0 || s.Max != 0)
}

func (s Salary) String() string {
	if s.IsRange() {
		return fmt.Sprintf("%d-%d %s", s.Min, s.Max, s.Currency)
	}
	return fmt.Sprintf("%d %s", s.Amount, s.Currency)
}

// Filter narrows the public job listing. Empty fields are ignored.
type Filter struct {
	Search   string
	Location string
	Type     string
	Remote   *bool
}

// Matches applies the filter criteria (ANDed) without looking at Status.
func (f Filter) Matches(j *Job) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.Title), q) &&
			!strings.Contains(strings.ToLower(j.Company), q) &&
			!strings.Contains(strings.ToLower(j.Description), q) {
			return false
		}
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Type != "" && j.Type != f.Type {
		return false
	}
	if f.Remote != nil && j.Remote != *f.Remote {
		return false
	}
	return true
}

// Patch carries the fields to overwrite; nil means unchanged. Version, when
// non-zero, must equal the stored version.
type Patch struct {
	Title        *string   `json:"title,omitempty"`
	Company      *string   `json:"company,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Type         *string   `json:"type,omitempty"`
	Remote       *bool     `json:"remote,omitempty"`
	Salary       *Salary   `json:"salary,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Requirements *[]string `json:"requirements,omitempty"`
	Benefits     *[]string `json:"benefits,omitempty"`
	Status       *Status   `json:"status,omitempty"`
	Skills       *[]string `json:"skills,omitempty"`
	Experience   *string   `json:"experience,omitempty"`
	Version      int64     `json:"version,omitempty"`
}

// Apply merges the non-nil fields into j. Status is left to the caller,
// which validates the transition first.
func (p Patch) Apply(j *Job) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.Type != nil {
		j.Type = *p.Type
	}
	if p.Remote != nil {
		j.Remote = *p.Remote
	}
	if p.Salary != nil {
		s := *p.Salary
		j.Salary = &s
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Requirements != nil {
		j.Requirements = slices.Clone(*p.Requirements)
	}
	if p.Benefits != nil {
		j.Benefits = slices.Clone(*p.Benefits)
	}
	if p.Skills != nil {
		j.Skills = slices.Clone(*p.Skills)
	}
	if p.Experience != nil {
		j.Experience = *p.Experience
	}
}
