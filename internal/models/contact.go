package models

import (
	"time"

	"gorm.io/datatypes"
)

// MaxDayOfYear is the upper bound of BirthdayOfTheYear. Dec 31 of a leap
// year is clamped to it.
const MaxDayOfYear = 365

type Contact struct {
	BaseModel
	UserID            uint            `gorm:"not null;index;uniqueIndex:idx_contacts_user_email"`
	FirstName         string          `gorm:"size:255;not null;index"`
	LastName          string          `gorm:"size:255;not null;index"`
	Email             string          `gorm:"size:255;not null;uniqueIndex:idx_contacts_user_email"`
	Phone             string          `gorm:"size:255;not null"`
	Birthday          *datatypes.Date `gorm:"index"`
	BirthdayOfTheYear *int            `gorm:"index"`
	AdditionalInfo    *string         `gorm:"size:255"`
}

// ContactFields are the user-editable attributes of a contact.
type ContactFields struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Birthday       *time.Time
	AdditionalInfo *string
}

// NewContact builds a contact owned by ownerID with the derived
// day-of-year already computed.
func NewContact(ownerID uint, f ContactFields) *Contact {
	c := &Contact{
		UserID:         ownerID,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Email:          f.Email,
		Phone:          f.Phone,
		AdditionalInfo: f.AdditionalInfo,
	}
	c.SetBirthday(f.Birthday)
	return c
}

// SetBirthday sets Birthday and BirthdayOfTheYear together. nil clears both.
func (c *Contact) SetBirthday(birthday *time.Time) {
	c.Birthday, c.BirthdayOfTheYear = BirthdayFields(birthday)
}

// BirthdayFields returns the stored date and its day of year for birthday.
func BirthdayFields(birthday *time.Time) (*datatypes.Date, *int) {
	if birthday == nil {
		return nil, nil
	}
	y, m, d := birthday.Date()
	date := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	doy := DayOfYear(*birthday)
	return &date, &doy
}

// DayOfYear is t's ordinal day in 1..365.
func DayOfYear(t time.Time) int {
	doy := t.YearDay()
	if doy > MaxDayOfYear {
		return MaxDayOfYear
	}
	return doy
}

// BirthdayTime returns the birthday as a time, or nil.
func (c *Contact) BirthdayTime() *time.Time {
	if c.Birthday == nil {
		return nil
	}
	t := time.Time(*c.Birthday)
	return &t
}
