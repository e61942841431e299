package services

import (
	"testing"
	"time"

	"jobalert_backend/internal/cache"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// domainFixture - сервисы поверх одной sqlite-базы и miniredis
type domainFixture struct {
	db    *gorm.DB
	redis *miniredis.Miniredis

	notifications NotificationService
	jobs          JobService
	applications  ApplicationService
	profiles      ProfileService
	users         UserService
	companies     CompanyService
	alerts        JobAlertService
}

func newDomainFixture(t *testing.T) *domainFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	profileRepo := repositories.NewProfileRepository()

	f := &domainFixture{db: testutil.NewTestDB(t), redis: mr}
	f.notifications = NewNotificationService(repositories.NewNotificationRepository(), userRepo, nil)
	f.jobs = NewJobService(jobRepo, f.notifications, cache.New(client, "test:", time.Minute))
	f.applications = NewApplicationService(repositories.NewApplicationRepository(), jobRepo, profileRepo, f.notifications, nil)
	f.profiles = NewProfileService(profileRepo, userRepo, f.notifications)
	f.users = NewUserService(userRepo)
	f.companies = NewCompanyService(repositories.NewCompanyRepository())
	f.alerts = NewJobAlertService(repositories.NewJobAlertRepository(), f.jobs)
	return f
}

func ptr[T any](v T) *T { return &v }
