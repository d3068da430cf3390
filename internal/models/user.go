package models

// User owns contacts. RefreshToken and PasswordResetToken hold the single
// live token of each kind; issuing a new one overwrites the old value.
// Secrets are excluded from JSON so cached copies never carry them.
type User struct {
	BaseModel
	Username           string   `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email              string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string   `gorm:"column:password;not null" json:"-"`
	EmailVerified      bool     `gorm:"not null;default:false" json:"email_verified"`
	Role               UserRole `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	RefreshToken       *string  `gorm:"size:512" json:"-"`
	PasswordResetToken *string  `gorm:"size:512" json:"-"`
	Avatar             string   `gorm:"size:512" json:"avatar"`

	Contacts []Contact `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// HasRefreshToken reports whether token is the user's current refresh token.
func (u *User) HasRefreshToken(token string) bool {
	return u.RefreshToken != nil && token != "" && *u.RefreshToken == token
}

// HasPasswordResetToken reports whether token is the user's current reset token.
func (u *User) HasPasswordResetToken(token string) bool {
	return u.PasswordResetToken != nil && token != "" && *u.PasswordResetToken == token
}
