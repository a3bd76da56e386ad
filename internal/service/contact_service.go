package service

import (
	"backend/internal/model"
	"backend/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// BirthdayWindowDays is the lookahead used by the upcoming-birthdays search.
const BirthdayWindowDays = 7

// DTOs for Request validation
type CreateContactRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	Birthday       string `json:"birthday" binding:"required"` // YYYY-MM-DD
	AdditionalInfo string `json:"additional_info"`
}

// UpdateContactRequest uses pointer fields so absent keys are distinguishable
// from zero values: only provided fields are written.
type UpdateContactRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	PhoneNumber    *string `json:"phone_number"`
	Birthday       *string `json:"birthday"` // YYYY-MM-DD
	AdditionalInfo *string `json:"additional_info"`
}

type ContactResponse struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       string `json:"birthday"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// ContactService defines the business logic for owner-scoped contact
// operations. Every method takes the owner's user id; no unscoped path exists.
type ContactService interface {
	Create(ctx context.Context, ownerID uint, req CreateContactRequest) (*ContactResponse, error)
	Get(ctx context.Context, ownerID, id uint) (*ContactResponse, error)
	List(ctx context.Context, ownerID uint, page, limit int) (*ContactListResponse, error)
	Update(ctx context.Context, ownerID, id uint, req UpdateContactRequest) (*ContactResponse, error)
	Delete(ctx context.Context, ownerID, id uint) (*ContactResponse, error)
	Search(ctx context.Context, ownerID uint, name, surname, email string) ([]ContactResponse, error)
	UpcomingBirthdays(ctx context.Context, ownerID uint) ([]ContactResponse, error)
}

type contactService struct {
	contacts repository.ContactRepository
}

// NewContactService returns a new instance of ContactService
func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

func mapContactToResponse(contact *model.Contact) ContactResponse {
	return ContactResponse{
		ID:             contact.ID,
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		Email:          contact.Email,
		PhoneNumber:    contact.PhoneNumber,
		Birthday:       contact.Birthday.Format("2006-01-02"),
		AdditionalInfo: contact.AdditionalInfo,
	}
}

func mapContactsToResponse(contacts []model.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, mapContactToResponse(&contacts[i]))
	}
	return out
}

func parseBirthday(value string) (time.Time, error) {
	birthday, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidBirthday
	}
	return birthday, nil
}

func (s *contactService) Create(ctx context.Context, ownerID uint, req CreateContactRequest) (*ContactResponse, error) {
	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		return nil, err
	}

	contact := &model.Contact{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       birthday,
		AdditionalInfo: req.AdditionalInfo,
	}

	if err := s.contacts.ForOwner(ownerID).Create(ctx, contact); err != nil {
		return nil, err
	}

	resp := mapContactToResponse(contact)
	return &resp, nil
}

func (s *contactService) Get(ctx context.Context, ownerID, id uint) (*ContactResponse, error) {
	contact, err := s.contacts.ForOwner(ownerID).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := mapContactToResponse(contact)
	return &resp, nil
}

func (s *contactService) List(ctx context.Context, ownerID uint, page, limit int) (*ContactListResponse, error) {
	offset := (page - 1) * limit
	contacts, total, err := s.contacts.ForOwner(ownerID).List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ContactListResponse{
		Contacts: mapContactsToResponse(contacts),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *contactService) Update(ctx context.Context, ownerID, id uint, req UpdateContactRequest) (*ContactResponse, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			return nil, err
		}
		fields["birthday"] = birthday
	}
	if req.AdditionalInfo != nil {
		fields["additional_info"] = *req.AdditionalInfo
	}

	contact, err := s.contacts.ForOwner(ownerID).Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := mapContactToResponse(contact)
	return &resp, nil
}

func (s *contactService) Delete(ctx context.Context, ownerID, id uint) (*ContactResponse, error) {
	contact, err := s.contacts.ForOwner(ownerID).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := mapContactToResponse(contact)
	return &resp, nil
}

func (s *contactService) Search(ctx context.Context, ownerID uint, name, surname, email string) ([]ContactResponse, error) {
	contacts, err := s.contacts.ForOwner(ownerID).Search(ctx, name, surname, email)
	if err != nil {
		return nil, err
	}
	return mapContactsToResponse(contacts), nil
}

func (s *contactService) UpcomingBirthdays(ctx context.Context, ownerID uint) ([]ContactResponse, error) {
	contacts, err := s.contacts.ForOwner(ownerID).UpcomingBirthdays(ctx, BirthdayWindowDays)
	if err != nil {
		return nil, err
	}
	return mapContactsToResponse(contacts), nil
}
