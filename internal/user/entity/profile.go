package entity

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Profile is the role-specific part of a user. The set of implementations is
// closed: *JobSeekerProfile, *EmployerProfile and *AdminProfile.
type Profile interface {
	Role() Role
	clone() Profile
}

type JobSeekerProfile struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Phone        string   `json:"phone,omitempty"`
	Location     string   `json:"location,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	Skills       []string `json:"skills"`
	Experience   string   `json:"experience"`
	Education    string   `json:"education"`
	ResumeURL    string   `json:"resumeUrl,omitempty"`
	LinkedInURL  string   `json:"linkedinUrl,omitempty"`
	PortfolioURL string   `json:"portfolioUrl,omitempty"`
}

func (*JobSeekerProfile) Role() Role { return RoleJobSeeker }

func (p *JobSeekerProfile) clone() Profile {
	c := *p
	c.Skills = slices.Clone(p.Skills)
	return &c
}

type EmployerProfile struct {
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone,omitempty"`
	Website       string `json:"website,omitempty"`
	Location      string `json:"location,omitempty"`
	Description   string `json:"description,omitempty"`
	Industry      string `json:"industry,omitempty"`
	CompanySize   string `json:"companySize,omitempty"`
}

func (*EmployerProfile) Role() Role { return RoleEmployer }

func (p *EmployerProfile) clone() Profile {
	c := *p
	return &c
}

type AdminProfile struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Permissions []string `json:"permissions"`
}

func (*AdminProfile) Role() Role { return RoleAdmin }

func (p *AdminProfile) clone() Profile {
	c := *p
	c.Permissions = slices.Clone(p.Permissions)
	return &c
}

// DecodeProfile decodes raw into the profile variant selected by role.
func DecodeProfile(role Role, raw json.RawMessage) (Profile, error) {
	var p Profile
	switch role {
	case RoleJobSeeker:
		p = &JobSeekerProfile{}
	case RoleEmployer:
		p = &EmployerProfile{}
	case RoleAdmin:
		p = &AdminProfile{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s profile: %w", role, err)
	}
	return p, nil
}
