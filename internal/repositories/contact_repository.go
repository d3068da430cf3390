package repositories

import (
	"errors"

	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

// ContactRepository is the storage port for contacts.
type ContactRepository interface {
	// Create inserts contact; ErrContactAlreadyExists when the owner already
	// has a contact with that email.
	Create(db *gorm.DB, contact *models.Contact) error

	// FindByID loads a contact owned by ownerID.
	FindByID(db *gorm.DB, id, ownerID uint) (*models.Contact, error)

	// FindByEmail loads the owner's contact with the given email.
	FindByEmail(db *gorm.DB, ownerID uint, email string) (*models.Contact, error)

	// Query runs a filtered, paginated listing.
	Query(db *gorm.DB, filter ContactFilter) ([]models.Contact, error)

	// Update writes every column of contact.
	Update(db *gorm.DB, contact *models.Contact) error

	// Delete removes the owner's contact; ErrContactNotFound if nothing matched.
	Delete(db *gorm.DB, id, ownerID uint) error
}

type contactRepository struct{}

func NewContactRepository() ContactRepository {
	return &contactRepository{}
}

func (r *contactRepository) Create(db *gorm.DB, contact *models.Contact) error {
	if err := db.Create(contact).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrContactAlreadyExists
		}
		return err
	}
	return nil
}

func (r *contactRepository) FindByID(db *gorm.DB, id, ownerID uint) (*models.Contact, error) {
	var contact models.Contact
	err := db.Scopes(OwnedBy(ownerID)).Where("id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) FindByEmail(db *gorm.DB, ownerID uint, email string) (*models.Contact, error) {
	var contact models.Contact
	err := db.Scopes(OwnedBy(ownerID)).Where("email = ?", email).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) Query(db *gorm.DB, filter ContactFilter) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0)
	if err := db.Model(&models.Contact{}).Scopes(filter.Scopes()...).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) Update(db *gorm.DB, contact *models.Contact) error {
	if err := db.Save(contact).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrContactAlreadyExists
		}
		return err
	}
	return nil
}

func (r *contactRepository) Delete(db *gorm.DB, id, ownerID uint) error {
	result := db.Scopes(OwnedBy(ownerID)).Where("id = ?", id).Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
