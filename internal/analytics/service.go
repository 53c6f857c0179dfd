// Package analytics computes the per-role dashboard and the admin analytics
// page from the live data. Growth figures are fixed placeholders.
package analytics

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	appentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	userentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

const (
	userGrowth        = 12.5
	jobGrowth         = 8.3
	applicationGrowth = 15.7

	recentJobs         = 3
	recentApplications = 3
	recentUsers        = 5
	topLocations       = 5
	topSkills          = 10
)

type UserLister interface {
	List(ctx context.Context) ([]userentity.User, error)
}

type JobLister interface {
	List(ctx context.Context, f jobentity.Filter) ([]jobentity.Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]jobentity.Job, error)
	ListAll(ctx context.Context) ([]jobentity.Job, error)
}

type ApplicationLister interface {
	List(ctx context.Context, f appentity.Filter) ([]appentity.Application, error)
}

type Service struct {
	users UserLister
	jobs  JobLister
	apps  ApplicationLister
}

func NewService(users UserLister, jobs JobLister, apps ApplicationLister) *Service {
	return &Service{users: users, jobs: jobs, apps: apps}
}

// Dashboard is the landing page summary. Admin-only fields stay zero for
// other roles.
type Dashboard struct {
	TotalJobs          int                     `json:"totalJobs"`
	ActiveJobs         int                     `json:"activeJobs"`
	TotalApplications  int                     `json:"totalApplications"`
	TotalUsers         int                     `json:"totalUsers"`
	TotalJobSeekers    int                     `json:"totalJobSeekers"`
	TotalEmployers     int                     `json:"totalEmployers"`
	RecentJobs         []jobentity.Job         `json:"recentJobs"`
	RecentApplications []appentity.Application `json:"recentApplications"`
	RecentUsers        []userentity.User       `json:"recentUsers"`
}

func (s *Service) Dashboard(ctx context.Context, u *userentity.User) (*Dashboard, error) {
	var (
		jobs []jobentity.Job
		f    appentity.Filter
		err  error
	)
	switch u.Role {
	case userentity.RoleJobSeeker:
		jobs, err = s.jobs.List(ctx, jobentity.Filter{})
		f = appentity.Filter{JobSeekerID: u.ID}
	case userentity.RoleEmployer:
		jobs, err = s.jobs.ListByEmployer(ctx, u.ID)
		f = appentity.Filter{EmployerID: u.ID}
	case userentity.RoleAdmin:
		jobs, err = s.jobs.ListAll(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", userentity.ErrUnknownRole, u.Role)
	}
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.List(ctx, f)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalJobs:          len(jobs),
		ActiveJobs:         countActive(jobs),
		TotalApplications:  len(apps),
		RecentJobs:         newestJobs(jobs, recentJobs),
		RecentApplications: newestApplications(apps, recentApplications),
		RecentUsers:        []userentity.User{},
	}
	if u.Role == userentity.RoleAdmin {
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		d.TotalUsers = len(users)
		for _, x := range users {
			switch x.Role {
			case userentity.RoleJobSeeker:
				d.TotalJobSeekers++
			case userentity.RoleEmployer:
				d.TotalEmployers++
			}
		}
		d.RecentUsers = newestUsers(users, recentUsers)
	}
	return d, nil
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type Analytics struct {
	TotalUsers        int             `json:"totalUsers"`
	TotalJobs         int             `json:"totalJobs"`
	TotalApplications int             `json:"totalApplications"`
	ActiveJobs        int             `json:"activeJobs"`
	UserGrowth        float64         `json:"userGrowth"`
	JobGrowth         float64         `json:"jobGrowth"`
	ApplicationGrowth float64         `json:"applicationGrowth"`
	TopLocations      []LocationCount `json:"topLocations"`
	TopSkills         []SkillCount    `json:"topSkills"`
}

// Analytics is the admin overview across every record.
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.List(ctx, appentity.Filter{})
	if err != nil {
		return nil, err
	}

	locations := map[string]int{}
	skills := map[string]int{}
	for _, u := range users {
		p, ok := u.Profile.(*userentity.JobSeekerProfile)
		if !ok {
			continue
		}
		if p.Location != "" {
			locations[p.Location]++
		}
		for _, sk := range p.Skills {
			skills[sk]++
		}
	}

	out := &Analytics{
		TotalUsers:        len(users),
		TotalJobs:         len(jobs),
		TotalApplications: len(apps),
		ActiveJobs:        countActive(jobs),
		UserGrowth:        userGrowth,
		JobGrowth:         jobGrowth,
		ApplicationGrowth: applicationGrowth,
		TopLocations:      []LocationCount{},
		TopSkills:         []SkillCount{},
	}
	for name, n := range top(locations, topLocations) {
		out.TopLocations = append(out.TopLocations, LocationCount{Location: name, Count: n})
	}
	for name, n := range top(skills, topSkills) {
		out.TopSkills = append(out.TopSkills, SkillCount{Skill: name, Count: n})
	}
	return out, nil
}

func countActive(jobs []jobentity.Job) int {
	n := 0
	for i := range jobs {
		if jobs[i].Status == jobentity.StatusActive {
			n++
		}
	}
	return n
}

// top yields the n largest counts, ties broken by name.
func top(counts map[string]int, n int) func(yield func(string, int) bool) {
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(names) > n {
		names = names[:n]
	}
	return func(yield func(string, int) bool) {
		for _, k := range names {
			if !yield(k, counts[k]) {
				return
			}
		}
	}
}

func newestJobs(jobs []jobentity.Job, n int) []jobentity.Job {
	out := slices.Clone(jobs)
	slices.SortStableFunc(out, func(a, b jobentity.Job) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out[:min(n, len(out))]
}

func newestApplications(apps []appentity.Application, n int) []appentity.Application {
	out := slices.Clone(apps)
	slices.SortStableFunc(out, func(a, b appentity.Application) int { return b.AppliedAt.Compare(a.AppliedAt) })
	return out[:min(n, len(out))]
}

func newestUsers(users []userentity.User, n int) []userentity.User {
	out := slices.Clone(users)
	slices.SortStableFunc(out, func(a, b userentity.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out[:min(n, len(out))]
}
