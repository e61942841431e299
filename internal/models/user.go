package models

import "time"

// OTPCode - пара "код + срок действия". Пустой Code означает состояние none.
type OTPCode struct {
	Code      *string    `gorm:"type:varchar(6)" json:"-"`
	ExpiresAt *time.Time `json:"-"`
}

// Pending - код выдан (возможно, уже просрочен)
func (o OTPCode) Pending() bool {
	return o.Code != nil && *o.Code != "" && o.ExpiresAt != nil
}

type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        *string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	MobileNumber *string    `gorm:"type:varchar(20);uniqueIndex" json:"mobile_number"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	IsSuperuser  bool       `gorm:"not null" json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	// Независимые OTP по каналам
	EmailOTP       OTPCode `gorm:"embedded;embeddedPrefix:email_otp_" json:"-"`
	MobileOTP      OTPCode `gorm:"embedded;embeddedPrefix:mobile_otp_" json:"-"`
	ResetOTP       OTPCode `gorm:"embedded;embeddedPrefix:reset_otp_" json:"-"`
	MobileResetOTP OTPCode `gorm:"embedded;embeddedPrefix:mobile_reset_otp_" json:"-"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName склеивает имя и фамилию
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// EmailValue возвращает email или пустую строку
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u *User) MobileValue() string {
	if u.MobileNumber == nil {
		return ""
	}
	return *u.MobileNumber
}
