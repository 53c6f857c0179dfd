package entity

import "time"

// Application is a job seeker's submission against a job.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	JobSeekerID string    `json:"jobSeekerId"`
	Status      Status    `json:"status"`
	CoverLetter string    `json:"coverLetter,omitempty"`
	ResumeURL   string    `json:"resumeUrl,omitempty"`
	Version     int64     `json:"version"`
	AppliedAt   time.Time `json:"appliedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Filter narrows an application listing. EmployerID selects applications
// to any job owned by that employer.
type Filter struct {
	JobID       string
	JobSeekerID string
	EmployerID  string
}

// Patch carries the fields to overwrite; nil means unchanged.
type Patch struct {
	Status      *Status `json:"status,omitempty"`
	CoverLetter *string `json:"coverLetter,omitempty"`
	ResumeURL   *string `json:"resumeUrl,omitempty"`
	Version     int64   `json:"version,omitempty"`
}

// Apply merges the non-status fields into a.
func (p Patch) Apply(a *Application) {
	if p.CoverLetter != nil {
		a.CoverLetter = *p.CoverLetter
	}
	if p.ResumeURL != nil {
		a.ResumeURL = *p.ResumeURL
	}
}
