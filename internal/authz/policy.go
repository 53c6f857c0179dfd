package authz

import (
	"fmt"

	appentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

// ApplicationScope is the application filter u is limited to: a job seeker
// sees their own, an employer those on their jobs, an admin all.
func ApplicationScope(u *entity.User) appentity.Filter {
	switch u.Role {
	case entity.RoleJobSeeker:
		return appentity.Filter{JobSeekerID: u.ID}
	case entity.RoleEmployer:
		return appentity.Filter{EmployerID: u.ID}
	case entity.RoleAdmin:
		return appentity.Filter{}
	default:
		panic(fmt.Sprintf("authz: unhandled role %q", u.Role))
	}
}

// CanManageJob: the owning employer or an admin.
func CanManageJob(u *entity.User, j *jobentity.Job) bool {
	if u == nil {
		return false
	}
	return u.Role == entity.RoleAdmin || (u.Role == entity.RoleEmployer && j.EmployerID == u.ID)
}

// CanViewJob reports whether u may see j. Active jobs are public.
func CanViewJob(u *entity.User, j *jobentity.Job) bool {
	return j.Status == jobentity.StatusActive || CanManageJob(u, j)
}

func CanManageUser(u *entity.User, targetID string) bool {
	return u != nil && (u.Role == entity.RoleAdmin || u.ID == targetID)
}
