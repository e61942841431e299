package services

import (
	"context"
	"net/http"
	"testing"

	"jobalert_backend/internal/models"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/internal/testutil"
	"jobalert_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateFansOutNotifications(t *testing.T) {
	f := newDomainFixture(t)
	ctx := context.Background()

	// 1. Подготовка: кандидат, работодатель, неактивный и админ
	employer := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	candidate := testutil.CreateUser(t, f.db, testutil.UserOpts{})
	idle := testutil.CreateUser(t, f.db, testutil.UserOpts{Inactive: true})
	admin := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleAdmin})

	// 2. Действие
	job, err := f.jobs.CreateJob(ctx, f.db, employer, &dto.CreateJobRequest{
		JobTitle:    "Go Developer",
		CompanyName: "Acme",
		SalaryMin:   ptr(1000.0),
		SalaryMax:   ptr(2000.0),
	})
	require.NoError(t, err)

	// 3. Проверка
	assert.Equal(t, models.JobStatusActive, job.JobStatus)
	assert.Equal(t, models.JobVisibilityPublic, job.Visibility)
	assert.True(t, job.IsActive)

	for _, u := range []*models.User{employer, candidate} {
		count, err := f.notifications.GetUnreadCount(f.db, u.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count, "уведомление для %s", u.Username)
	}
	for _, u := range []*models.User{idle, admin} {
		count, err := f.notifications.GetUnreadCount(f.db, u.ID)
		require.NoError(t, err)
		assert.Zero(t, count, "без уведомления для %s", u.Username)
	}

	list, err := f.notifications.GetUserNotifications(f.db, candidate.ID, &dto.NotificationListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	n := list.Items[0]
	assert.Equal(t, models.NotificationTypeJobPosted, n.Type)
	assert.Equal(t, "New Job Posted", n.Title)
	assert.Equal(t, "A new job 'Go Developer' has been posted by Acme. Check it out!", n.Message)
	require.NotNil(t, n.RelatedJobID)
	assert.Equal(t, job.ID, *n.RelatedJobID)
}

func TestJobService_SalaryRange(t *testing.T) {
	f := newDomainFixture(t)
	employer := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})

	_, err := f.jobs.CreateJob(context.Background(), f.db, employer, &dto.CreateJobRequest{
		JobTitle: "Go", CompanyName: "Acme", SalaryMin: ptr(5000.0), SalaryMax: ptr(100.0),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	_, err = f.jobs.ListJobs(f.db, &dto.JobListQuery{SalaryMin: ptr(10.0), SalaryMax: ptr(1.0)})
	assert.Error(t, err)

	// Обновление сверяется с уже сохраненной границей
	job := testutil.CreateJob(t, f.db, employer.ID, func(j *models.Job) { j.SalaryMax = ptr(2000.0) })
	_, err = f.jobs.UpdateJob(context.Background(), f.db, employer, job.ID, &dto.UpdateJobRequest{SalaryMin: ptr(3000.0)})
	assert.Error(t, err)
}

func TestJobService_OwnershipAndSoftDelete(t *testing.T) {
	f := newDomainFixture(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	stranger := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	root := testutil.CreateUser(t, f.db, testutil.UserOpts{IsSuperuser: true})
	job := testutil.CreateJob(t, f.db, owner.ID)

	_, err := f.jobs.UpdateJob(ctx, f.db, stranger, job.ID, &dto.UpdateJobRequest{JobTitle: ptr("Hijacked")})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)

	updated, err := f.jobs.UpdateJob(ctx, f.db, root, job.ID, &dto.UpdateJobRequest{JobTitle: ptr("Senior Go Developer")})
	require.NoError(t, err, "суперпользователь может менять чужие вакансии")
	assert.Equal(t, "Senior Go Developer", updated.JobTitle)

	admin := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleAdmin, Email: "moderator@b.com"})
	updated, err = f.jobs.UpdateJob(ctx, f.db, admin, job.ID, &dto.UpdateJobRequest{City: ptr("Astana")})
	require.NoError(t, err, "admin может менять чужие вакансии")
	assert.Equal(t, "Astana", updated.City)

	assert.Error(t, f.jobs.DeleteJob(ctx, f.db, stranger, job.ID))
	require.NoError(t, f.jobs.DeleteJob(ctx, f.db, owner, job.ID))

	_, err = f.jobs.GetJob(ctx, f.db, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	list, err := f.jobs.ListJobs(f.db, &dto.JobListQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Total, "удаленная вакансия не попадает в список")

	mine, err := f.jobs.GetMyJobs(f.db, owner.ID, dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1, "автор видит и неактивные вакансии")
	assert.False(t, mine.Items[0].IsActive)

	_, err = f.jobs.UpdateJob(ctx, f.db, owner, "missing", &dto.UpdateJobRequest{})
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestJobService_GetJobUsesCache(t *testing.T) {
	f := newDomainFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	job := testutil.CreateJob(t, f.db, owner.ID)

	got, err := f.jobs.GetJob(ctx, f.db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", got.JobTitle)
	assert.True(t, f.redis.Exists("test:job:"+job.ID), "вакансия попала в кэш")

	_, err = f.jobs.UpdateJob(ctx, f.db, owner, job.ID, &dto.UpdateJobRequest{JobTitle: ptr("Rust Developer")})
	require.NoError(t, err)
	assert.False(t, f.redis.Exists("test:job:"+job.ID), "обновление сбрасывает кэш")

	got, err = f.jobs.GetJob(ctx, f.db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rust Developer", got.JobTitle)
}

func TestJobService_ListFiltersAndDashboard(t *testing.T) {
	f := newDomainFixture(t)
	owner := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	admin := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleAdmin, Email: "admin@b.com"})

	testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) {
		j.JobTitle = "Backend Engineer"
		j.City = "Almaty"
	})
	testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) {
		j.JobTitle = "Designer"
		j.WorkMode = models.WorkModeOnSite
		j.City = "Astana"
	})
	testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) { j.IsActive = false })

	res, err := f.jobs.ListJobs(f.db, &dto.JobListQuery{Search: "backend"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Backend Engineer", res.Items[0].JobTitle)

	res, err = f.jobs.ListJobs(f.db, &dto.JobListQuery{Location: "astana", WorkMode: "on-site"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Designer", res.Items[0].JobTitle)

	res, err = f.jobs.ListJobs(f.db, &dto.JobListQuery{PageQuery: dto.PageQuery{Page: 1, Size: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Len(t, res.Items, 1)
	assert.True(t, res.HasMore)

	dash, err := f.jobs.GetDashboard(f.db, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, dash.DashboardData.TotalJobs)
	assert.EqualValues(t, 2, dash.DashboardData.ActiveJobs)
	assert.EqualValues(t, 1, dash.DashboardData.InactiveJobs)
	assert.Equal(t, "admin@b.com", dash.User.Email)
}
