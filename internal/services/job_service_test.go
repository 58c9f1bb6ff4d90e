package services_test

import (
	"context"
	"strings"
	"testing"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/internal/testutil"
	"jobnest_backend/pkg/apperrors"
	"jobnest_backend/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobRequest(title string) *dto.CreateJobRequest {
	return &dto.CreateJobRequest{
		Title:        title,
		Company:      "City Hospital",
		Location:     "Pune",
		Area:         "Kothrud",
		Description:  "Night shift ward duty",
		Requirements: []string{"BSc Nursing"},
		Skills:       []string{"ICU", "Triage"},
		JobCategory:  "Nursing",
		Department:   "ICU",
		Shift:        "Night",
	}
}

func follow(t *testing.T, e *testEnv, follower, following *models.User) {
	t.Helper()
	_, err := e.store.Follows().Create(context.Background(), &models.Follow{FollowerID: follower.ID, FollowingID: following.ID})
	require.NoError(t, err)
}

func TestJobService_CreateFansOutToFollowers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	poster := testutil.CreateUser(t, e.store, "hr", "secret1")
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")
	carol := testutil.CreateUser(t, e.store, "carol", "secret1")
	follow(t, e, alice, poster)
	follow(t, e, bob, poster)
	follow(t, e, poster, carol) // обратное направление не в аудитории
	follow(t, e, poster, poster)

	job, err := e.svc.JobService.Create(ctx, poster.ID, jobRequest("Staff Nurse"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(job.Slug, "staff-nurse-city-hospital-"), job.Slug)
	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Equal(t, []string{"English"}, job.Languages)
	require.NotNil(t, job.PostedBy)
	assert.Equal(t, poster.Email, job.PostedBy.Email)

	for _, u := range []*models.User{alice, bob} {
		inbox, err := e.store.Notifications().ListForRecipient(ctx, u.ID, repositories.NotificationFilter{})
		require.NoError(t, err)
		require.Len(t, inbox, 1, u.Username)
		assert.Equal(t, models.NotificationNewJob, inbox[0].Type)
		require.NotNil(t, inbox[0].JobID)
		assert.Equal(t, job.ID, *inbox[0].JobID)

		pushed := e.push.To(ws.UserRoom(u.ID), ws.EventNotification)
		require.Len(t, pushed, 1)
		payload := pushed[0].Payload.(services.NotificationPush)
		assert.Equal(t, job.ID, payload.JobID)
		assert.Equal(t, "Staff Nurse", payload.JobTitle)
		assert.Equal(t, "City Hospital", payload.Company)
		assert.Equal(t, inbox[0].ID, payload.NotificationID)
	}

	inbox, err := e.store.Notifications().ListForRecipient(ctx, carol.ID, repositories.NotificationFilter{})
	require.NoError(t, err)
	assert.Empty(t, inbox)
	assert.Empty(t, e.push.To(ws.UserRoom(poster.ID), ws.EventNotification))
	inbox, err = e.store.Notifications().ListForRecipient(ctx, poster.ID, repositories.NotificationFilter{})
	require.NoError(t, err)
	assert.Empty(t, inbox, "автор не получает NEW_JOB даже при подписке на себя")
}

func TestFanOut_JobPostedContinuesPastFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	poster := testutil.CreateUser(t, e.store, "hr", "secret1")
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")
	follow(t, e, alice, poster)
	follow(t, e, bob, poster)

	job := &models.Job{Title: "Ward Boy", Company: "Clinic", PostedByID: poster.ID}
	job.EnsureID()

	fanout := services.NewFanOut(failingStore{Store: e.store, failFor: alice.ID}, e.push)
	report := fanout.OnJobPosted(ctx, poster, job)

	assert.Equal(t, 2, report.Recipients)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, report.Failed)
	require.Error(t, report.Err)
	assert.Contains(t, report.Err.Error(), alice.ID)

	assert.Empty(t, e.push.To(ws.UserRoom(alice.ID), ws.EventNotification))
	assert.Len(t, e.push.To(ws.UserRoom(bob.ID), ws.EventNotification), 1)
}

func TestFanOut_JobPostedOutlivesCancelledRequest(t *testing.T) {
	e := newEnv(t)
	poster := testutil.CreateUser(t, e.store, "hr", "secret1")
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")
	follow(t, e, alice, poster)
	follow(t, e, bob, poster)

	job := &models.Job{Title: "Ward Boy", Company: "Clinic", PostedByID: poster.ID}
	job.EnsureID()

	// клиент отключился сразу после коммита вакансии
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := e.svc.FanOut.OnJobPosted(ctx, poster, job)
	require.NoError(t, report.Err)
	assert.Equal(t, 2, report.Delivered)

	for _, u := range []*models.User{alice, bob} {
		inbox, err := e.store.Notifications().ListForRecipient(context.Background(), u.ID, repositories.NotificationFilter{})
		require.NoError(t, err)
		require.Len(t, inbox, 1, u.Username)
		assert.Equal(t, models.NotificationNewJob, inbox[0].Type)
		assert.Len(t, e.push.To(ws.UserRoom(u.ID), ws.EventNotification), 1)
	}
}

func TestFanOut_SnapshotsOutliveCancelledRequest(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")
	follow(t, e, alice, bob)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.svc.FanOut.PushSnapshots(ctx, alice.ID, bob.ID)

	pushed := e.push.To(ws.UserRoom(alice.ID), ws.EventFollowStatusUpdate)
	require.Len(t, pushed, 1)
	assert.Equal(t, []string{bob.ID}, pushed[0].Payload.(models.FollowSnapshot).Following)
	assert.Len(t, e.push.To(ws.UserRoom(bob.ID), ws.EventFollowStatusUpdate), 1)
}

func TestJobService_SearchPagination(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	poster := testutil.CreateUser(t, e.store, "hr", "secret1")

	for _, title := range []string{"Staff Nurse", "ICU Nurse", "Head Nurse", "Pharmacist"} {
		_, err := e.svc.JobService.Create(ctx, poster.ID, jobRequest(title))
		require.NoError(t, err)
	}

	res, err := e.svc.JobService.Search(ctx, &dto.JobSearchQuery{Search: "nurse", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 1, res.CurrentPage)
	assert.Len(t, res.Jobs, 2)
	require.NotNil(t, res.Jobs[0].PostedBy)
	assert.Equal(t, poster.ID, res.Jobs[0].PostedBy.ID)

	res, err = e.svc.JobService.Search(ctx, &dto.JobSearchQuery{Search: "nurse", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Jobs, 1)

	res, err = e.svc.JobService.Search(ctx, &dto.JobSearchQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total)
	assert.Equal(t, 1, res.TotalPages)
}

func TestJobService_UpdateAndDeleteRequireOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	poster := testutil.CreateUser(t, e.store, "hr", "secret1")
	other := testutil.CreateUser(t, e.store, "other", "secret1")

	job, err := e.svc.JobService.Create(ctx, poster.ID, jobRequest("Staff Nurse"))
	require.NoError(t, err)

	title := "Senior Staff Nurse"
	_, err = e.svc.JobService.Update(ctx, job.ID, other.ID, &dto.UpdateJobRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	updated, err := e.svc.JobService.Update(ctx, job.ID, poster.ID, &dto.UpdateJobRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, strings.HasPrefix(updated.Slug, "senior-staff-nurse-"), updated.Slug)
	assert.Equal(t, "Night", updated.Shift, "непереданные поля не меняются")

	assert.ErrorIs(t, e.svc.JobService.Delete(ctx, job.ID, other.ID), apperrors.ErrNotJobOwner)
	require.NoError(t, e.svc.JobService.Delete(ctx, job.ID, poster.ID))

	_, err = e.svc.JobService.Get(ctx, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestJobService_ApplyOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	poster := testutil.CreateUser(t, e.store, "hr", "secret1")
	nurse := testutil.CreateUser(t, e.store, "nurse", "secret1")

	job, err := e.svc.JobService.Create(ctx, poster.ID, jobRequest("Staff Nurse"))
	require.NoError(t, err)

	require.NoError(t, e.svc.JobService.Apply(ctx, job.ID, nurse.ID))
	assert.ErrorIs(t, e.svc.JobService.Apply(ctx, job.ID, nurse.ID), apperrors.ErrAlreadyApplied)
	assert.ErrorIs(t, e.svc.JobService.Apply(ctx, models.NewID(), nurse.ID), apperrors.ErrJobNotFound)

	stored, err := e.svc.JobService.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{nurse.ID}, stored.Applicants)
}

func TestJobService_Filter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	poster := testutil.CreateUser(t, e.store, "hr", "secret1")

	icu := jobRequest("ICU Nurse")
	icu.Experience = &dto.ExperienceInput{Min: 2, Max: 4}
	_, err := e.svc.JobService.Create(ctx, poster.ID, icu)
	require.NoError(t, err)

	ot := jobRequest("OT Technician")
	ot.Skills = []string{"Sterilization"}
	ot.Experience = &dto.ExperienceInput{Min: 6, Max: 10}
	_, err = e.svc.JobService.Create(ctx, poster.ID, ot)
	require.NoError(t, err)

	jobs, err := e.svc.JobService.Filter(ctx, &dto.JobFilterRequest{Skills: []string{"ICU"}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "ICU Nurse", jobs[0].Title)

	jobs, err = e.svc.JobService.Filter(ctx, &dto.JobFilterRequest{Experience: &dto.IntRange{Min: 5, Max: 8}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "OT Technician", jobs[0].Title)
}
