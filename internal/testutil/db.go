// Package testutil содержит общие хелперы для тестов: in-memory sqlite и фабрики пользователей.
package testutil

import (
	"fmt"
	"testing"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/database"
	"jobalert_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB открывает отдельную in-memory базу и прогоняет миграции
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "не удалось открыть sqlite")

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

// UserOpts - параметры тестового пользователя
type UserOpts struct {
	Username    string
	Email       string
	Mobile      string
	Password    string
	Role        models.UserRole
	Inactive    bool
	IsSuperuser bool
}

// CreateUser создает пользователя с захешированным паролем. По умолчанию активный кандидат.
func CreateUser(t *testing.T, db *gorm.DB, opts UserOpts) *models.User {
	t.Helper()

	if opts.Username == "" {
		opts.Username = "user_" + uuid.NewString()[:8]
	}
	if opts.Password == "" {
		opts.Password = "password123"
	}
	if opts.Role == "" {
		opts.Role = models.UserRoleCandidate
	}

	hash, err := auth.HashPassword(opts.Password)
	require.NoError(t, err)

	u := &models.User{
		Username:     opts.Username,
		PasswordHash: hash,
		Role:         opts.Role,
		IsActive:     !opts.Inactive,
		IsSuperuser:  opts.IsSuperuser,
	}
	if opts.Email != "" {
		u.Email = &opts.Email
	}
	if opts.Mobile != "" {
		u.MobileNumber = &opts.Mobile
	}
	require.NoError(t, db.Create(u).Error, "не удалось создать пользователя %s", opts.Username)
	return u
}

// CreateApprovedProfile создает одобренный профиль для пользователя
func CreateApprovedProfile(t *testing.T, db *gorm.DB, userID string) *models.Profile {
	t.Helper()
	p := &models.Profile{UserID: userID, FullName: "Test Candidate", IsActive: true, IsApproved: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateJob создает активную вакансию
func CreateJob(t *testing.T, db *gorm.DB, postedBy string, mutate ...func(j *models.Job)) *models.Job {
	t.Helper()
	j := &models.Job{
		PostedBy:       postedBy,
		JobTitle:       "Go Developer",
		CompanyName:    "Acme",
		EmploymentType: models.EmploymentFullTime,
		WorkMode:       models.WorkModeRemote,
		JobStatus:      models.JobStatusActive,
		Visibility:     models.JobVisibilityPublic,
		IsActive:       true,
	}
	for _, m := range mutate {
		m(j)
	}
	require.NoError(t, db.Create(j).Error)
	return j
}
