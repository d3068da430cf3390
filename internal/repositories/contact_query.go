package repositories

import (
	"strings"
	"time"

	"contacts_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultContactLimit = 10
	MaxContactLimit     = 100
)

// ContactFilter narrows a contact listing. Every non-nil field adds one
// predicate and predicates are ANDed; nil fields and empty strings impose
// nothing.
type ContactFilter struct {
	Limit  int
	Offset int

	Search    *string // substring of first_name, last_name or email, case-insensitive
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string

	BirthdayFrom *time.Time // inclusive
	BirthdayTo   *time.Time // inclusive

	BirthdayOfTheYearFrom *int // inclusive, 1..365
	BirthdayOfTheYearTo   *int // inclusive, 1..365

	BirthdayInNextDays *int // 1..365, window starts today and may wrap past Dec 31

	// OwnerID is set by the service, never from user input.
	OwnerID *uint

	// Now is the clock for BirthdayInNextDays; nil means time.Now.
	Now func() time.Time
}

// BirthdayWindow describes the day-of-year range for "birthday in the next
// n days" starting at today. When Wraps is set the range is
// doy >= From OR doy <= To; otherwise From <= doy <= To.
type BirthdayWindow struct {
	From  int
	To    int
	Wraps bool
}

// NewBirthdayWindow computes the window for today (day of year) and n days.
func NewBirthdayWindow(today, n int) BirthdayWindow {
	target := today + n
	if target <= models.MaxDayOfYear {
		return BirthdayWindow{From: today, To: target}
	}
	return BirthdayWindow{From: today, To: target - models.MaxDayOfYear, Wraps: true}
}

// Contains reports whether a day of year falls inside the window.
func (w BirthdayWindow) Contains(doy int) bool {
	if w.Wraps {
		return doy >= w.From || doy <= w.To
	}
	return doy >= w.From && doy <= w.To
}

// Scope returns the predicate for the window.
func (w BirthdayWindow) Scope() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if w.Wraps {
			return tx.Where("(birthday_of_the_year >= ? OR birthday_of_the_year <= ?)", w.From, w.To)
		}
		return tx.Where("birthday_of_the_year BETWEEN ? AND ?", w.From, w.To)
	}
}

// Scopes translates the filter into gorm scopes, pagination included.
func (f ContactFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	if f.OwnerID != nil {
		scopes = append(scopes, OwnedBy(*f.OwnerID))
	}
	if f.Search != nil && *f.Search != "" {
		scopes = append(scopes, searchScope(*f.Search))
	}

	scopes = appendEquals(scopes, "first_name", f.FirstName)
	scopes = appendEquals(scopes, "last_name", f.LastName)
	scopes = appendEquals(scopes, "email", f.Email)
	scopes = appendEquals(scopes, "phone", f.Phone)

	if f.BirthdayFrom != nil {
		from := datatypes.Date(truncateDate(*f.BirthdayFrom))
		scopes = append(scopes, where("birthday >= ?", from))
	}
	if f.BirthdayTo != nil {
		to := datatypes.Date(truncateDate(*f.BirthdayTo))
		scopes = append(scopes, where("birthday <= ?", to))
	}

	if f.BirthdayOfTheYearFrom != nil {
		scopes = append(scopes, where("birthday_of_the_year >= ?", *f.BirthdayOfTheYearFrom))
	}
	if f.BirthdayOfTheYearTo != nil {
		scopes = append(scopes, where("birthday_of_the_year <= ?", *f.BirthdayOfTheYearTo))
	}

	if f.BirthdayInNextDays != nil {
		today := models.DayOfYear(f.now())
		scopes = append(scopes, NewBirthdayWindow(today, *f.BirthdayInNextDays).Scope())
	}

	scopes = append(scopes, paginate(f.Limit, f.Offset))
	return scopes
}

func (f ContactFilter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// OwnedBy restricts rows to one user's contacts.
func OwnedBy(ownerID uint) func(*gorm.DB) *gorm.DB {
	return where("user_id = ?", ownerID)
}

func searchScope(term string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"(LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}
}

func appendEquals(scopes []func(*gorm.DB) *gorm.DB, column string, value *string) []func(*gorm.DB) *gorm.DB {
	if value == nil || *value == "" {
		return scopes
	}
	return append(scopes, where(column+" = ?", *value))
}

func where(query string, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	}
}

func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	if limit <= 0 {
		limit = DefaultContactLimit
	}
	if limit > MaxContactLimit {
		limit = MaxContactLimit
	}
	if offset < 0 {
		offset = 0
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC").Limit(limit).Offset(offset)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
