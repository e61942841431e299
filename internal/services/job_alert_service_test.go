package services

import (
	"context"
	"testing"

	"jobalert_backend/internal/models"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/internal/testutil"
	"jobalert_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobAlertService_Matches(t *testing.T) {
	f := newDomainFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	user := testutil.CreateUser(t, f.db, testutil.UserOpts{})

	testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) {
		j.JobTitle = "Golang Engineer"
		j.City = "Almaty"
		j.SalaryMin, j.SalaryMax = ptr(1000.0), ptr(3000.0)
	})
	testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) {
		j.JobTitle = "Kubernetes SRE"
		j.City = "Almaty"
		j.SalaryMin, j.SalaryMax = ptr(2000.0), ptr(4000.0)
	})
	testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) {
		j.JobTitle = "Golang Intern"
		j.City = "Almaty"
		j.WorkMode = models.WorkModeOnSite
	})
	testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) {
		j.JobTitle = "Java Developer"
		j.City = "Almaty"
	})

	alert, err := f.alerts.CreateAlert(ctx, f.db, user.ID, &dto.CreateJobAlertRequest{
		Name:     "Backend",
		Keywords: []string{"golang", "kubernetes"},
		Location: "almaty",
		IsRemote: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AlertFrequencyDaily, alert.Frequency)
	assert.True(t, alert.IsActive)

	matches, err := f.alerts.FindMatches(f.db, user.ID, alert.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, matches.Total, "любое ключевое слово, только remote")

	_, err = f.alerts.UpdateAlert(ctx, f.db, user.ID, alert.ID, &dto.UpdateJobAlertRequest{SalaryMin: ptr(3500.0)})
	require.NoError(t, err)
	matches, err = f.alerts.FindMatches(f.db, user.ID, alert.ID, dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, matches.Items, 1)
	assert.Equal(t, "Kubernetes SRE", matches.Items[0].JobTitle)
}

func TestJobAlertService_OwnerScoping(t *testing.T) {
	f := newDomainFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, testutil.UserOpts{})
	bob := testutil.CreateUser(t, f.db, testutil.UserOpts{})

	empty, err := f.alerts.ListAlerts(f.db, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	alert, err := f.alerts.CreateAlert(ctx, f.db, alice.ID, &dto.CreateJobAlertRequest{Name: "Go", Frequency: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, models.AlertFrequencyWeekly, alert.Frequency)

	_, err = f.alerts.UpdateAlert(ctx, f.db, bob.ID, alert.ID, &dto.UpdateJobAlertRequest{Name: ptr("Mine now")})
	assert.ErrorIs(t, err, apperrors.ErrJobAlertNotFound)
	assert.ErrorIs(t, f.alerts.DeleteAlert(ctx, f.db, bob.ID, alert.ID), apperrors.ErrJobAlertNotFound)

	_, err = f.alerts.CreateAlert(ctx, f.db, alice.ID, &dto.CreateJobAlertRequest{
		Name: "Broken", SalaryMin: ptr(10.0), SalaryMax: ptr(1.0),
	})
	assert.Error(t, err)

	require.NoError(t, f.alerts.DeleteAlert(ctx, f.db, alice.ID, alert.ID))
	list, err := f.alerts.ListAlerts(f.db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAlertFilter(t *testing.T) {
	alert := &models.JobAlert{
		Keywords:        dto.KeywordsJSON([]string{"go"}),
		Location:        "Almaty",
		JobType:         models.EmploymentFullTime,
		ExperienceLevel: "3+",
	}
	filter := AlertFilter(alert)
	assert.Equal(t, []string{"go"}, filter.Keywords)
	assert.Equal(t, "full-time", filter.EmploymentType)
	assert.Empty(t, filter.WorkMode)

	alert.IsRemote = true
	assert.Equal(t, "remote", AlertFilter(alert).WorkMode)
}
