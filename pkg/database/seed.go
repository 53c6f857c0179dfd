package database

import (
	"time"

	appentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	notificationentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/notification/entity"
	userentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleData returns a fresh copy of the fixed sample data set. Job
// applicationsCount values are derived from the sample applications.
func SampleData() *Tables {
	t := &Tables{
		Users: []userentity.User{
			{
				ID:    "1",
				Email: "john.doe@example.com",
				Role:  userentity.RoleJobSeeker,
				Profile: &userentity.JobSeekerProfile{
					FirstName:   "John",
					LastName:    "Doe",
					Phone:       "+1-555-0123",
					Location:    "San Francisco, CA",
					Bio:         "Experienced software developer with 5+ years in full-stack development.",
					Skills:      []string{"React", "Node.js", "TypeScript", "Python", "AWS"},
					Experience:  "5+ years",
					Education:   "BS Computer Science - Stanford University",
					LinkedInURL: "https://linkedin.com/in/johndoe",
				},
				Version:   1,
				CreatedAt: ts("2024-01-15T10:00:00Z"),
				UpdatedAt: ts("2024-01-15T10:00:00Z"),
			},
			{
				ID:    "2",
				Email: "hr@techcorp.com",
				Role:  userentity.RoleEmployer,
				Profile: &userentity.EmployerProfile{
					CompanyName:   "TechCorp Solutions",
					ContactPerson: "Sarah Johnson",
					Phone:         "+1-555-0456",
					Website:       "https://techcorp.com",
					Location:      "San Francisco, CA",
					Description:   "Leading technology solutions provider specializing in enterprise software.",
					Industry:      "Technology",
					CompanySize:   "100-500",
				},
				Version:   1,
				CreatedAt: ts("2024-01-10T09:00:00Z"),
				UpdatedAt: ts("2024-01-10T09:00:00Z"),
			},
			{
				ID:    "3",
				Email: "admin@jobportal.com",
				Role:  userentity.RoleAdmin,
				Profile: &userentity.AdminProfile{
					FirstName:   "Admin",
					LastName:    "User",
					Permissions: []string{"manage_users", "manage_jobs", "view_analytics"},
				},
				Version:   1,
				CreatedAt: ts("2024-01-01T00:00:00Z"),
				UpdatedAt: ts("2024-01-01T00:00:00Z"),
			},
		},
		Jobs: []jobentity.Job{
			{
				ID:          "1",
				Title:       "Senior Full Stack Developer",
				Company:     "TechCorp Solutions",
				Location:    "San Francisco, CA",
				Type:        "full-time",
				Remote:      true,
				Salary:      &jobentity.Salary{Min: 120000, Max: 180000, Currency: "USD"},
				Description: "We are looking for a Senior Full Stack Developer to join our growing team. You will be responsible for developing and maintaining web applications using modern technologies.",
				Requirements: []string{
					"5+ years of experience in full-stack development",
					"Proficiency in React, Node.js, and TypeScript",
					"Experience with cloud platforms (AWS/GCP)",
					"Strong problem-solving skills",
				},
				Benefits:   []string{"Health insurance", "Dental coverage", "Flexible PTO", "Remote work"},
				EmployerID: "2",
				Status:     jobentity.StatusActive,
				PostedDate: ts("2024-01-20T14:00:00Z"),
				Version:    1,
				CreatedAt:  ts("2024-01-20T14:00:00Z"),
				UpdatedAt:  ts("2024-01-20T14:00:00Z"),
			},
			{
				ID:          "2",
				Title:       "Frontend Developer",
				Company:     "StartupXYZ",
				Location:    "New York, NY",
				Type:        "full-time",
				Remote:      false,
				Salary:      &jobentity.Salary{Min: 80000, Max: 120000, Currency: "USD"},
				Description: "Join our dynamic startup as a Frontend Developer and help build the next generation of web applications.",
				Requirements: []string{
					"3+ years of React experience",
					"Strong CSS and JavaScript skills",
					"Experience with modern build tools",
					"Portfolio of previous work",
				},
				Benefits:   []string{"Equity package", "Health insurance", "Catered meals"},
				EmployerID: "2",
				Status:     jobentity.StatusActive,
				PostedDate: ts("2024-01-18T11:00:00Z"),
				Version:    1,
				CreatedAt:  ts("2024-01-18T11:00:00Z"),
				UpdatedAt:  ts("2024-01-18T11:00:00Z"),
			},
			{
				ID:          "3",
				Title:       "DevOps Engineer",
				Company:     "CloudTech Inc",
				Location:    "Austin, TX",
				Type:        "full-time",
				Remote:      true,
				Salary:      &jobentity.Salary{Min: 100000, Max: 150000, Currency: "USD"},
				Description: "We need a DevOps Engineer to help scale our infrastructure and improve our deployment processes.",
				Requirements: []string{
					"Experience with Docker and Kubernetes",
					"Knowledge of CI/CD pipelines",
					"AWS or Azure certification preferred",
					"Scripting skills (Python/Bash)",
				},
				Benefits:   []string{"Remote work", "Professional development budget", "Health insurance"},
				EmployerID: "2",
				Status:     jobentity.StatusActive,
				PostedDate: ts("2024-01-16T09:30:00Z"),
				Version:    1,
				CreatedAt:  ts("2024-01-16T09:30:00Z"),
				UpdatedAt:  ts("2024-01-16T09:30:00Z"),
			},
		},
		Applications: []appentity.Application{
			{
				ID:          "1",
				JobID:       "1",
				JobSeekerID: "1",
				Status:      appentity.StatusPending,
				CoverLetter: "I am very interested in this position and believe my experience aligns well with your requirements.",
				Version:     1,
				AppliedAt:   ts("2024-01-21T10:00:00Z"),
				UpdatedAt:   ts("2024-01-21T10:00:00Z"),
			},
		},
		Notifications: []notificationentity.Notification{
			{
				ID:        "1",
				UserID:    "1",
				Type:      notificationentity.TypeApplicationStatus,
				Title:     "Application Update",
				Message:   "Your application for Senior Full Stack Developer has been reviewed.",
				CreatedAt: ts("2024-01-22T09:00:00Z"),
			},
			{
				ID:        "2",
				UserID:    "1",
				Type:      notificationentity.TypeNewJob,
				Title:     "New Job Match",
				Message:   "A new job matching your skills has been posted: Frontend Developer at StartupXYZ.",
				CreatedAt: ts("2024-01-21T15:00:00Z"),
			},
		},
	}
	counts := make(map[string]int, len(t.Jobs))
	for _, a := range t.Applications {
		counts[a.JobID]++
	}
	for i := range t.Jobs {
		t.Jobs[i].ApplicationsCount = counts[t.Jobs[i].ID]
	}
	return t
}
