package services

import (
	"context"
	"errors"
	"time"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ClosestBirthdayDays is the window of the closest-birthday listing.
const ClosestBirthdayDays = 7

// ContactService manages the contacts of a single owner; every method is
// scoped by ownerID.
type ContactService interface {
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateContactRequest) (*models.Contact, error)
	Get(ctx context.Context, db *gorm.DB, ownerID, id uint) (*models.Contact, error)
	Query(ctx context.Context, db *gorm.DB, ownerID uint, filter repositories.ContactFilter) ([]models.Contact, error)
	ClosestBirthday(ctx context.Context, db *gorm.DB, ownerID uint, limit, offset int) ([]models.Contact, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateContactRequest) (*models.Contact, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error
}

type contactService struct {
	contactRepo repositories.ContactRepository
	now         func() time.Time
}

func NewContactService(contactRepo repositories.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo, now: time.Now}
}

func (s *contactService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateContactRequest) (*models.Contact, error) {
	if err := s.ensureEmailFree(db, ownerID, req.Email, 0); err != nil {
		return nil, err
	}

	contact := models.NewContact(ownerID, req.Fields())
	if err := s.contactRepo.Create(db, contact); err != nil {
		if errors.Is(err, repositories.ErrContactAlreadyExists) {
			return nil, apperrors.ErrContactEmailExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "contact created", "contact_id", contact.ID, "owner_id", ownerID)
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, db *gorm.DB, ownerID, id uint) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(db, id, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrContactNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return contact, nil
}

func (s *contactService) Query(ctx context.Context, db *gorm.DB, ownerID uint, filter repositories.ContactFilter) ([]models.Contact, error) {
	filter.OwnerID = &ownerID
	if filter.Now == nil {
		filter.Now = s.now
	}

	contacts, err := s.contactRepo.Query(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contacts, nil
}

func (s *contactService) ClosestBirthday(ctx context.Context, db *gorm.DB, ownerID uint, limit, offset int) ([]models.Contact, error) {
	days := ClosestBirthdayDays
	return s.Query(ctx, db, ownerID, repositories.ContactFilter{
		Limit:              limit,
		Offset:             offset,
		BirthdayInNextDays: &days,
	})
}

func (s *contactService) Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.Get(ctx, db, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != contact.Email {
		if err := s.ensureEmailFree(db, ownerID, *req.Email, contact.ID); err != nil {
			return nil, err
		}
	}

	req.Apply(contact)
	if err := s.contactRepo.Update(db, contact); err != nil {
		if errors.Is(err, repositories.ErrContactAlreadyExists) {
			return nil, apperrors.ErrContactEmailExists
		}
		return nil, apperrors.InternalError(err)
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error {
	if err := s.contactRepo.Delete(db, id, ownerID); err != nil {
		if errors.Is(err, repositories.ErrContactNotFound) {
			return apperrors.ErrContactNotFound
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "contact deleted", "contact_id", id, "owner_id", ownerID)
	return nil
}

// ensureEmailFree fails when another contact of ownerID (not exceptID) uses email.
func (s *contactService) ensureEmailFree(db *gorm.DB, ownerID uint, email string, exceptID uint) error {
	existing, err := s.contactRepo.FindByEmail(db, ownerID, email)
	switch {
	case err == nil && existing.ID != exceptID:
		return apperrors.ErrContactEmailExists
	case err == nil, errors.Is(err, repositories.ErrContactNotFound):
		return nil
	default:
		return apperrors.InternalError(err)
	}
}
