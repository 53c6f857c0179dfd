package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/application/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/events"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/events/eventstest"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/job"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	jobrepo "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/notification"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

type fixture struct {
	apps          *Service
	jobs          *job.Service
	notifications *notification.Service
	events        *eventstest.Recorder
	db            *database.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop().Sugar()
	ids := utilities.NewIDGenerator(2)
	rec := &eventstest.Recorder{}
	db := database.Open(database.Config{Seed: true})
	jobs := job.NewService(jobrepo.NewRepo(db), ids, rec, logger)
	notes := notification.NewService(db, ids, logger)
	apps := NewService(repo.NewRepo(db), jobs, notes, ids, rec, logger)
	apps.now = func() time.Time { return time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC) }
	return &fixture{apps: apps, jobs: jobs, notifications: notes, events: rec, db: db}
}

func appIDs(apps []entity.Application) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestCreateBumpsApplicationsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, err := f.jobs.GetByID(ctx, "2")
	require.NoError(t, err)

	a, err := f.apps.Create(ctx, &entity.Application{JobID: "2", JobSeekerID: "1", CoverLetter: "hi"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, a.Status)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, a.AppliedAt, a.UpdatedAt)

	after, err := f.jobs.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, before.ApplicationsCount+1, after.ApplicationsCount)

	msgs := f.events.Messages(events.SubjectApplicationCreated)
	require.Len(t, msgs, 1)
	assert.Equal(t, a.ID, msgs[0].Event.(events.ApplicationCreated).ApplicationID)
}

func TestCreateAllowsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.apps.Create(ctx, &entity.Application{JobID: "1", JobSeekerID: "1"})
	require.NoError(t, err)
	j, _ := f.jobs.GetByID(ctx, "1")
	assert.Equal(t, 2, j.ApplicationsCount)
}

func TestApplyRejectsSecondApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.apps.Apply(ctx, &entity.Application{JobID: "1", JobSeekerID: "1"})
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	j, _ := f.jobs.GetByID(ctx, "1")
	assert.Equal(t, 1, j.ApplicationsCount)
	assert.Empty(t, f.events.Messages(""))

	_, err = f.apps.Apply(ctx, &entity.Application{JobID: "2", JobSeekerID: "1"})
	assert.NoError(t, err)
}

func TestConcurrentApplyCreatesOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.apps.Apply(ctx, &entity.Application{JobID: "3", JobSeekerID: "7"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyApplied)
	}
	assert.Equal(t, 1, created)

	got, err := f.apps.List(ctx, entity.Filter{JobID: "3", JobSeekerID: "7"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	j, _ := f.jobs.GetByID(ctx, "3")
	assert.Equal(t, 1, j.ApplicationsCount)
}

func TestCreateForMissingJobWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.apps.Create(ctx, &entity.Application{JobID: "404", JobSeekerID: "1"})
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := f.apps.List(ctx, entity.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Empty(t, f.events.Messages(""))
}

func TestListByEmployerJoinsThroughJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.jobs.Create(ctx, &jobentity.Job{Title: "Elsewhere", EmployerID: "E2", Status: jobentity.StatusActive})
	require.NoError(t, err)

	var mine []string
	for i, jobID := range []string{"2", other.ID, "3", other.ID, "1"} {
		a, err := f.apps.Create(ctx, &entity.Application{JobID: jobID, JobSeekerID: "S" + string(rune('a'+i))})
		require.NoError(t, err)
		if jobID != other.ID {
			mine = append(mine, a.ID)
		}
	}
	mine = append([]string{"1"}, mine...)

	got, err := f.apps.List(ctx, entity.Filter{EmployerID: "2"})
	require.NoError(t, err)
	assert.Equal(t, mine, appIDs(got))

	theirs, err := f.apps.List(ctx, entity.Filter{EmployerID: "E2"})
	require.NoError(t, err)
	assert.Len(t, theirs, 2)

	none, err := f.apps.List(ctx, entity.Filter{EmployerID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListFiltersAreAnded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.apps.Create(ctx, &entity.Application{JobID: "2", JobSeekerID: "1"})
	require.NoError(t, err)

	got, err := f.apps.List(ctx, entity.Filter{JobSeekerID: "1", JobID: "2"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = f.apps.List(ctx, entity.Filter{JobSeekerID: "1", EmployerID: "2"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTransitionNotifiesJobSeeker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, _ := f.notifications.ListForUser(ctx, "1")

	a, err := f.apps.Transition(ctx, "1", entity.ActionShortlist)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusShortlisted, a.Status)
	assert.Equal(t, int64(2), a.Version)

	after, _ := f.notifications.ListForUser(ctx, "1")
	require.Len(t, after, len(before)+1)
	n := after[len(after)-1]
	assert.Equal(t, "Your application for Senior Full Stack Developer has been shortlisted.", n.Message)
	assert.False(t, n.Read)

	msgs := f.events.Messages(events.SubjectApplicationStatusChanged)
	require.Len(t, msgs, 1)
	ev := msgs[0].Event.(events.ApplicationStatusChanged)
	assert.Equal(t, "pending", ev.From)
	assert.Equal(t, "shortlisted", ev.To)
}

func TestInvalidTransitionLeavesApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.apps.Transition(ctx, "1", entity.ActionHire)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	a, _ := f.apps.GetByID(ctx, "1")
	assert.Equal(t, entity.StatusPending, a.Status)
	assert.Equal(t, int64(1), a.Version)
	assert.Empty(t, f.events.Messages(""))
}

func TestUpdateWritesAnyKnownStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hired := entity.StatusHired
	a, err := f.apps.Update(ctx, "1", entity.Patch{Status: &hired})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusHired, a.Status)

	_, err = f.apps.Transition(ctx, "1", entity.ActionReject)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	rejected, pending := entity.StatusRejected, entity.StatusPending
	_, err = f.apps.Update(ctx, "1", entity.Patch{Status: &rejected})
	require.NoError(t, err)
	a, err = f.apps.Update(ctx, "1", entity.Patch{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, a.Status)
	assert.Equal(t, int64(4), a.Version)

	msgs := f.events.Messages(events.SubjectApplicationStatusChanged)
	require.Len(t, msgs, 3)
	ev := msgs[0].Event.(events.ApplicationStatusChanged)
	assert.Equal(t, "pending", ev.From)
	assert.Equal(t, "hired", ev.To)

	notes, _ := f.notifications.ListForUser(ctx, "1")
	assert.Equal(t, "Your application for Senior Full Stack Developer has been hired.", notes[2].Message)

	ghosted := entity.Status("ghosted")
	_, err = f.apps.Update(ctx, "1", entity.Patch{Status: &ghosted})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestUpdateSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := entity.StatusPending
	letter := "updated"
	a, err := f.apps.Update(ctx, "1", entity.Patch{Status: &pending, CoverLetter: &letter})
	require.NoError(t, err)
	assert.Equal(t, "updated", a.CoverLetter)
	assert.Empty(t, f.events.Messages(events.SubjectApplicationStatusChanged))
}

func TestUpdateMissingAndVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := "x"
	_, err := f.apps.Update(ctx, "404", entity.Patch{CoverLetter: &letter})
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = f.apps.Update(ctx, "1", entity.Patch{CoverLetter: &letter, Version: 3})
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = f.apps.Transition(ctx, "404", entity.ActionReview)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

// Employer posts a draft, publishes it, a seeker applies and is shortlisted.
func TestHiringFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j, err := f.jobs.Create(ctx, &jobentity.Job{Title: "Rust Engineer", Company: "Ferris", EmployerID: "E"})
	require.NoError(t, err)
	visible, _ := f.jobs.List(ctx, jobentity.Filter{Search: "rust"})
	assert.Empty(t, visible)

	_, err = f.jobs.Transition(ctx, j.ID, jobentity.ActionPublish)
	require.NoError(t, err)
	visible, _ = f.jobs.List(ctx, jobentity.Filter{Search: "rust"})
	require.Len(t, visible, 1)

	a, err := f.apps.Create(ctx, &entity.Application{JobID: j.ID, JobSeekerID: "S"})
	require.NoError(t, err)
	got, _ := f.jobs.GetByID(ctx, j.ID)
	assert.Equal(t, 1, got.ApplicationsCount)

	_, err = f.apps.Transition(ctx, a.ID, entity.ActionShortlist)
	require.NoError(t, err)

	list, err := f.apps.List(ctx, entity.Filter{EmployerID: "E"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.StatusShortlisted, list[0].Status)
}
