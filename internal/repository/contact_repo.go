package repository

import (
	"backend/internal/model"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ContactRepository hands out owner-scoped contact stores. Handlers never
// touch contacts directly; they construct an OwnedContacts from the
// authenticated principal's id, so the user_id filter cannot be forgotten.
type ContactRepository interface {
	ForOwner(ownerID uint) OwnedContacts
}

// OwnedContacts is the contact store of a single user. Every operation is
// implicitly filtered by the owner's id; a contact belonging to another user
// behaves exactly like a missing one (gorm.ErrRecordNotFound), so existence
// of other users' contacts is never revealed.
type OwnedContacts interface {
	Create(ctx context.Context, contact *model.Contact) error
	GetByID(ctx context.Context, id uint) (*model.Contact, error)
	List(ctx context.Context, offset, limit int) ([]model.Contact, int64, error)
	Search(ctx context.Context, name, surname, email string) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, days int) ([]model.Contact, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Contact, error)
	Delete(ctx context.Context, id uint) (*model.Contact, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository returns a new instance of ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) ForOwner(ownerID uint) OwnedContacts {
	return &ownedContacts{db: r.db, ownerID: ownerID}
}

type ownedContacts struct {
	db      *gorm.DB
	ownerID uint
}

// scoped returns a query already filtered by the owning user id.
func (s *ownedContacts) scoped(ctx context.Context) *gorm.DB {
	return GetDB(ctx, s.db).Where("user_id = ?", s.ownerID)
}

func (s *ownedContacts) Create(ctx context.Context, contact *model.Contact) error {
	contact.UserID = s.ownerID
	return GetDB(ctx, s.db).Create(contact).Error
}

func (s *ownedContacts) GetByID(ctx context.Context, id uint) (*model.Contact, error) {
	var contact model.Contact
	if err := s.scoped(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *ownedContacts) List(ctx context.Context, offset, limit int) ([]model.Contact, int64, error) {
	var contacts []model.Contact
	var total int64

	if err := s.scoped(ctx).Model(&model.Contact{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Ordered by id so consecutive pages are disjoint
	if err := s.scoped(ctx).Order("id").Offset(offset).Limit(limit).Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (s *ownedContacts) Search(ctx context.Context, name, surname, email string) ([]model.Contact, error) {
	query := s.scoped(ctx).Model(&model.Contact{})

	if name != "" {
		query = query.Where("first_name ILIKE ?", "%"+name+"%")
	}
	if surname != "" {
		query = query.Where("last_name ILIKE ?", "%"+surname+"%")
	}
	if email != "" {
		query = query.Where("email ILIKE ?", "%"+email+"%")
	}

	var contacts []model.Contact
	if err := query.Order("id").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *ownedContacts) UpcomingBirthdays(ctx context.Context, days int) ([]model.Contact, error) {
	// Match on month/day so birthdays recur every year, including across the
	// year boundary.
	dates := make([]string, 0, days)
	now := time.Now()
	for i := 0; i < days; i++ {
		d := now.AddDate(0, 0, i)
		dates = append(dates, fmt.Sprintf("%02d-%02d", d.Month(), d.Day()))
	}

	var contacts []model.Contact
	if err := s.scoped(ctx).
		Where("to_char(birthday, 'MM-DD') IN ?", dates).
		Order("id").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *ownedContacts) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Contact, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.scoped(ctx).Model(&model.Contact{}).
			Where("id = ?", id).
			Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *ownedContacts) Delete(ctx context.Context, id uint) (*model.Contact, error) {
	contact, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.scoped(ctx).Delete(&model.Contact{}, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return contact, nil
}
