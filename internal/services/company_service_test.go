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

func TestCompanyService_CRUD(t *testing.T) {
	f := newDomainFixture(t)
	ctx := context.Background()

	acme, err := f.companies.CreateCompany(ctx, f.db, &dto.CreateCompanyRequest{Name: "  Acme  ", Industry: "IT"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", acme.Name)
	assert.True(t, acme.IsActive)

	_, err = f.companies.CreateCompany(ctx, f.db, &dto.CreateCompanyRequest{Name: "Acme"})
	assert.ErrorIs(t, err, apperrors.ErrCompanyExists)

	globex, err := f.companies.CreateCompany(ctx, f.db, &dto.CreateCompanyRequest{Name: "Globex"})
	require.NoError(t, err)

	_, err = f.companies.UpdateCompany(ctx, f.db, globex.ID, &dto.UpdateCompanyRequest{Name: ptr("Acme")})
	assert.ErrorIs(t, err, apperrors.ErrCompanyExists)

	// Своё имя можно сохранить повторно
	updated, err := f.companies.UpdateCompany(ctx, f.db, globex.ID, &dto.UpdateCompanyRequest{
		Name:     ptr("Globex"),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	list, err := f.companies.ListCompanies(f.db, &dto.CompanyListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1, "неактивные компании скрыты")
	assert.Equal(t, "Acme", list.Items[0].Name)

	// Удаление отвязывает вакансии
	owner := testutil.CreateUser(t, f.db, testutil.UserOpts{Role: models.UserRoleEmployer})
	job := testutil.CreateJob(t, f.db, owner.ID, func(j *models.Job) { j.CompanyID = &acme.ID })

	require.NoError(t, f.companies.DeleteCompany(ctx, f.db, acme.ID))
	_, err = f.companies.GetCompany(f.db, acme.ID)
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotFound)
	assert.ErrorIs(t, f.companies.DeleteCompany(ctx, f.db, acme.ID), apperrors.ErrCompanyNotFound)

	var reloaded models.Job
	require.NoError(t, f.db.First(&reloaded, "id = ?", job.ID).Error)
	assert.Nil(t, reloaded.CompanyID)
}
