package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ProfileService      ProfileService
	JobService          JobService
	ApplicationService  ApplicationService
	NotificationService NotificationService
	CompanyService      CompanyService
	JobAlertService     JobAlertService
}
