package database

import (
	"errors"
	"fmt"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

// SeedFirstAdmin создает суперпользователя-админа, если его еще нет
func SeedFirstAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", email)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			Username:     "admin",
			Email:        &email,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
			IsActive:     true,
			IsSuperuser:  true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("Created first admin user", "email", email)
		return nil
	})
}

// SeedSampleData наполняет пустую базу демонстрационными данными (флаг -sample-data)
func SeedSampleData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Job{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logger.Info("Sample data skipped: jobs table is not empty", "rows", count)
			return nil
		}

		hash, err := auth.HashPassword("password123")
		if err != nil {
			return err
		}
		employerEmail := "employer@example.com"
		candidateEmail := "candidate@example.com"

		employer := &models.User{
			Username: "acme_hr", Email: &employerEmail, PasswordHash: hash,
			FirstName: "Acme", LastName: "HR", Role: models.UserRoleEmployer, IsActive: true,
		}
		candidate := &models.User{
			Username: "jane", Email: &candidateEmail, PasswordHash: hash,
			FirstName: "Jane", LastName: "Doe", Role: models.UserRoleCandidate, IsActive: true,
		}
		if err := tx.Create(employer).Error; err != nil {
			return err
		}
		if err := tx.Create(candidate).Error; err != nil {
			return err
		}

		company := &models.Company{Name: "Acme Corp", Industry: "Software", Location: "Berlin", IsActive: true}
		if err := tx.Create(company).Error; err != nil {
			return err
		}

		minSalary, maxSalary := 60000.0, 90000.0
		jobs := []models.Job{
			{
				PostedBy: employer.ID, CompanyID: &company.ID, JobTitle: "Backend Engineer", CompanyName: company.Name,
				Industry: "Software", EmploymentType: models.EmploymentFullTime, WorkMode: models.WorkModeHybrid,
				City: "Berlin", Country: "Germany", ExperienceRequired: "2-5 years", SkillsRequired: "Go, PostgreSQL",
				SalaryType: "yearly", SalaryMin: &minSalary, SalaryMax: &maxSalary, NumberOfOpenings: 2,
				JobSummary: "Build and operate our job matching APIs.",
				JobStatus:  models.JobStatusActive, Visibility: models.JobVisibilityPublic, IsActive: true,
			},
			{
				PostedBy: employer.ID, CompanyID: &company.ID, JobTitle: "Frontend Intern", CompanyName: company.Name,
				Industry: "Software", EmploymentType: models.EmploymentInternship, WorkMode: models.WorkModeRemote,
				Country: "Germany", ExperienceRequired: "fresher", SkillsRequired: "React, TypeScript", NumberOfOpenings: 1,
				JobStatus: models.JobStatusActive, Visibility: models.JobVisibilityPublic, IsActive: true,
			},
		}
		if err := tx.Create(&jobs).Error; err != nil {
			return err
		}

		profile := &models.Profile{
			UserID: candidate.ID, FullName: "Jane Doe", Email: candidateEmail, City: "Berlin",
			Headline: "Junior Go developer", IsActive: true, IsApproved: true,
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		logger.Info("Sample data inserted", "jobs", len(jobs))
		return nil
	})
}
