package models

type UserRole string
type JobStatus string
type JobVisibility string
type EmploymentType string
type WorkMode string
type ApplicationStatus string
type AlertFrequency string
type NotificationType string

const (
	UserRoleCandidate UserRole = "candidate"
	UserRoleEmployer  UserRole = "employer"
	UserRoleAdmin     UserRole = "admin"

	JobStatusActive   JobStatus = "active"
	JobStatusInactive JobStatus = "inactive"
	JobStatusDraft    JobStatus = "draft"
	JobStatusClosed   JobStatus = "closed"

	JobVisibilityPublic      JobVisibility = "public"
	JobVisibilityPrivate     JobVisibility = "private"
	JobVisibilityCompanyOnly JobVisibility = "company_only"

	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"

	WorkModeOnSite WorkMode = "on-site"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"

	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"

	AlertFrequencyDaily  AlertFrequency = "daily"
	AlertFrequencyWeekly AlertFrequency = "weekly"

	NotificationTypeJobPosted         NotificationType = "job_posted"
	NotificationTypeApplicationUpdate NotificationType = "application_update"
	NotificationTypeProfileStatus     NotificationType = "profile_status"
)

// Valid - роли образуют закрытое множество
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleCandidate, UserRoleEmployer, UserRoleAdmin:
		return true
	}
	return false
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusApplied, ApplicationStatusUnderReview, ApplicationStatusShortlisted,
		ApplicationStatusInterviewed, ApplicationStatusRejected, ApplicationStatusHired:
		return true
	}
	return false
}

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return true
	}
	return false
}

func (w WorkMode) Valid() bool {
	switch w {
	case WorkModeOnSite, WorkModeRemote, WorkModeHybrid:
		return true
	}
	return false
}
