package dto

import (
	"time"

	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
)

type CreateContactRequest struct {
	FirstName      string  `json:"first_name" validate:"required,min=1,max=255"`
	LastName       string  `json:"last_name" validate:"required,min=1,max=255"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	Phone          string  `json:"phone" validate:"required,min=1,max=255"`
	Birthday       *Date   `json:"birthday,omitempty"`
	AdditionalInfo *string `json:"additional_info,omitempty" validate:"omitempty,max=255"`
}

func (r *CreateContactRequest) Fields() models.ContactFields {
	return models.ContactFields{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Birthday:       r.Birthday.Ptr(),
		AdditionalInfo: r.AdditionalInfo,
	}
}

// UpdateContactRequest is partial: absent fields keep their value, and an
// explicit null clears birthday or additional_info.
type UpdateContactRequest struct {
	FirstName      *string          `json:"first_name,omitempty" validate:"omitempty,min=1,max=255"`
	LastName       *string          `json:"last_name,omitempty" validate:"omitempty,min=1,max=255"`
	Email          *string          `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone          *string          `json:"phone,omitempty" validate:"omitempty,min=1,max=255"`
	Birthday       Optional[Date]   `json:"birthday"`
	AdditionalInfo Optional[string] `json:"additional_info" validate:"omitempty,max=255"`
}

// Apply copies the present fields onto c.
func (r *UpdateContactRequest) Apply(c *models.Contact) {
	if r.FirstName != nil {
		c.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		c.LastName = *r.LastName
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Birthday.Set {
		c.SetBirthday(r.Birthday.Value.Ptr())
	}
	if r.AdditionalInfo.Set {
		c.AdditionalInfo = r.AdditionalInfo.Value
	}
}

// ContactQuery is bound from the query string of GET /contacts.
type ContactQuery struct {
	Limit                 int     `form:"limit,default=10" validate:"min=1,max=100"`
	Offset                int     `form:"offset,default=0" validate:"min=0"`
	Search                *string `form:"search" validate:"omitempty,max=255"`
	FirstName             *string `form:"first_name" validate:"omitempty,max=255"`
	LastName              *string `form:"last_name" validate:"omitempty,max=255"`
	Email                 *string `form:"email" validate:"omitempty,email,max=255"`
	Phone                 *string `form:"phone" validate:"omitempty,max=255"`
	BirthdayFrom          *string `form:"birthday_from" validate:"omitempty,datetime=2006-01-02"`
	BirthdayTo            *string `form:"birthday_to" validate:"omitempty,datetime=2006-01-02"`
	BirthdayOfTheYearFrom *int    `form:"birthday_of_the_year_from" validate:"omitempty,day-of-year"`
	BirthdayOfTheYearTo   *int    `form:"birthday_of_the_year_to" validate:"omitempty,day-of-year"`
	BirthdayInNextDays    *int    `form:"birthday_in_next_days" validate:"omitempty,day-of-year"`
}

// Filter converts the query into a repository filter. Dates are expected
// to have passed validation already.
func (q *ContactQuery) Filter() repositories.ContactFilter {
	return repositories.ContactFilter{
		Limit:                 q.Limit,
		Offset:                q.Offset,
		Search:                q.Search,
		FirstName:             q.FirstName,
		LastName:              q.LastName,
		Email:                 q.Email,
		Phone:                 q.Phone,
		BirthdayFrom:          parseOptionalDate(q.BirthdayFrom),
		BirthdayTo:            parseOptionalDate(q.BirthdayTo),
		BirthdayOfTheYearFrom: q.BirthdayOfTheYearFrom,
		BirthdayOfTheYearTo:   q.BirthdayOfTheYearTo,
		BirthdayInNextDays:    q.BirthdayInNextDays,
	}
}

// PageQuery is the limit/offset pair of listing endpoints without filters.
type PageQuery struct {
	Limit  int `form:"limit,default=10" validate:"min=1,max=100"`
	Offset int `form:"offset,default=0" validate:"min=0"`
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil
	}
	return d.Ptr()
}

type ContactResponse struct {
	ID                uint      `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Birthday          *Date     `json:"birthday"`
	BirthdayOfTheYear *int      `json:"birthday_of_the_year"`
	AdditionalInfo    *string   `json:"additional_info"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewContactResponse(c *models.Contact) *ContactResponse {
	resp := &ContactResponse{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		BirthdayOfTheYear: c.BirthdayOfTheYear,
		AdditionalInfo:    c.AdditionalInfo,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if t := c.BirthdayTime(); t != nil {
		resp.Birthday = &Date{*t}
	}
	return resp
}

func NewContactListResponse(contacts []models.Contact) []*ContactResponse {
	out := make([]*ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, NewContactResponse(&contacts[i]))
	}
	return out
}
