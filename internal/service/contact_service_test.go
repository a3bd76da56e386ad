package service

import (
	"backend/internal/model"
	"backend/internal/repository"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeContactRepo mirrors the owner-scoping contract of the gorm
// implementation: a contact of another owner is indistinguishable from a
// missing one.
type fakeContactRepo struct {
	mu       sync.Mutex
	nextID   uint
	contacts map[uint]*model.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[uint]*model.Contact{}}
}

func (r *fakeContactRepo) ForOwner(ownerID uint) repository.OwnedContacts {
	return &fakeOwnedContacts{repo: r, ownerID: ownerID}
}

type fakeOwnedContacts struct {
	repo    *fakeContactRepo
	ownerID uint
}

func (s *fakeOwnedContacts) owned() []*model.Contact {
	var out []*model.Contact
	for _, c := range s.repo.contacts {
		if c.UserID == s.ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeOwnedContacts) Create(_ context.Context, contact *model.Contact) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	s.repo.nextID++
	contact.ID = s.repo.nextID
	contact.UserID = s.ownerID
	clone := *contact
	s.repo.contacts[contact.ID] = &clone
	return nil
}

func (s *fakeOwnedContacts) GetByID(_ context.Context, id uint) (*model.Contact, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	c, ok := s.repo.contacts[id]
	if !ok || c.UserID != s.ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *fakeOwnedContacts) List(_ context.Context, offset, limit int) ([]model.Contact, int64, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	owned := s.owned()
	total := int64(len(owned))

	if offset > len(owned) {
		offset = len(owned)
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}

	out := make([]model.Contact, 0, end-offset)
	for _, c := range owned[offset:end] {
		out = append(out, *c)
	}
	return out, total, nil
}

func (s *fakeOwnedContacts) Search(_ context.Context, name, surname, email string) ([]model.Contact, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	matches := func(haystack, needle string) bool {
		return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}

	var out []model.Contact
	for _, c := range s.owned() {
		if matches(c.FirstName, name) && matches(c.LastName, surname) && matches(c.Email, email) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeOwnedContacts) UpcomingBirthdays(_ context.Context, days int) ([]model.Contact, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	window := map[string]bool{}
	now := time.Now()
	for i := 0; i < days; i++ {
		d := now.AddDate(0, 0, i)
		window[fmt.Sprintf("%02d-%02d", d.Month(), d.Day())] = true
	}

	var out []model.Contact
	for _, c := range s.owned() {
		key := fmt.Sprintf("%02d-%02d", c.Birthday.Month(), c.Birthday.Day())
		if window[key] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeOwnedContacts) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Contact, error) {
	s.repo.mu.Lock()
	c, ok := s.repo.contacts[id]
	if !ok || c.UserID != s.ownerID {
		s.repo.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}

	for key, value := range fields {
		switch key {
		case "first_name":
			c.FirstName = value.(string)
		case "last_name":
			c.LastName = value.(string)
		case "email":
			c.Email = value.(string)
		case "phone_number":
			c.PhoneNumber = value.(string)
		case "birthday":
			c.Birthday = value.(time.Time)
		case "additional_info":
			c.AdditionalInfo = value.(string)
		}
	}
	s.repo.mu.Unlock()

	return s.GetByID(ctx, id)
}

func (s *fakeOwnedContacts) Delete(ctx context.Context, id uint) (*model.Contact, error) {
	prior, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.repo.mu.Lock()
	delete(s.repo.contacts, id)
	s.repo.mu.Unlock()
	return prior, nil
}

// --- tests ---

const (
	ownerAlice uint = 1
	ownerBob   uint = 2
)

func newContactFixture() (ContactService, *fakeContactRepo) {
	repo := newFakeContactRepo()
	return NewContactService(repo), repo
}

func createBobLee(t *testing.T, svc ContactService, ownerID uint) *ContactResponse {
	t.Helper()
	contact, err := svc.Create(context.Background(), ownerID, CreateContactRequest{
		FirstName:   "Bob",
		LastName:    "Lee",
		Email:       "bob@y.com",
		PhoneNumber: "5551234567",
		Birthday:    "1990-01-01",
	})
	require.NoError(t, err)
	return contact
}

func TestContactCreateAndGet(t *testing.T) {
	svc, _ := newContactFixture()

	created := createBobLee(t, svc, ownerAlice)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "1990-01-01", created.Birthday)

	got, err := svc.Get(context.Background(), ownerAlice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestContactCreateRejectsBadBirthday(t *testing.T) {
	svc, _ := newContactFixture()

	_, err := svc.Create(context.Background(), ownerAlice, CreateContactRequest{
		FirstName:   "Bob",
		LastName:    "Lee",
		Email:       "bob@y.com",
		PhoneNumber: "5551234567",
		Birthday:    "01/01/1990",
	})
	assert.ErrorIs(t, err, ErrInvalidBirthday)
}

func TestContactOwnerIsolation(t *testing.T) {
	svc, _ := newContactFixture()

	created := createBobLee(t, svc, ownerAlice)

	// Another user can neither read, update, nor delete the contact; the
	// response is identical to the contact not existing at all.
	_, err := svc.Get(context.Background(), ownerBob, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	lastName := "Hacked"
	_, err = svc.Update(context.Background(), ownerBob, created.ID, UpdateContactRequest{LastName: &lastName})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(context.Background(), ownerBob, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Still intact for its owner.
	got, err := svc.Get(context.Background(), ownerAlice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lee", got.LastName)
}

func TestContactPartialUpdate(t *testing.T) {
	svc, _ := newContactFixture()

	created := createBobLee(t, svc, ownerAlice)

	lastName := "X"
	updated, err := svc.Update(context.Background(), ownerAlice, created.ID, UpdateContactRequest{LastName: &lastName})
	require.NoError(t, err)

	assert.Equal(t, "X", updated.LastName)
	// Everything else untouched.
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.PhoneNumber, updated.PhoneNumber)
	assert.Equal(t, created.Birthday, updated.Birthday)
}

func TestContactUpdateUnknownID(t *testing.T) {
	svc, _ := newContactFixture()

	lastName := "X"
	_, err := svc.Update(context.Background(), ownerAlice, 42, UpdateContactRequest{LastName: &lastName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactDeleteReturnsPriorState(t *testing.T) {
	svc, _ := newContactFixture()

	created := createBobLee(t, svc, ownerAlice)

	deleted, err := svc.Delete(context.Background(), ownerAlice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = svc.Get(context.Background(), ownerAlice, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Delete(context.Background(), ownerAlice, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactListPagination(t *testing.T) {
	svc, _ := newContactFixture()

	for i := 0; i < 15; i++ {
		_, err := svc.Create(context.Background(), ownerAlice, CreateContactRequest{
			FirstName:   fmt.Sprintf("First%02d", i),
			LastName:    fmt.Sprintf("Last%02d", i),
			Email:       fmt.Sprintf("c%02d@y.com", i),
			PhoneNumber: "5550000000",
			Birthday:    "1990-01-01",
		})
		require.NoError(t, err)
	}
	// Another owner's contacts never leak into the listing.
	createBobLee(t, svc, ownerBob)

	page1, err := svc.List(context.Background(), ownerAlice, 1, 10)
	require.NoError(t, err)
	page2, err := svc.List(context.Background(), ownerAlice, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(15), page1.Total)
	assert.Len(t, page1.Contacts, 10)
	assert.Len(t, page2.Contacts, 5)

	seen := map[uint]bool{}
	for _, c := range append(page1.Contacts, page2.Contacts...) {
		assert.False(t, seen[c.ID], "contact %d appeared on both pages", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 15)
}

func TestContactSearch(t *testing.T) {
	svc, _ := newContactFixture()

	createBobLee(t, svc, ownerAlice)
	_, err := svc.Create(context.Background(), ownerAlice, CreateContactRequest{
		FirstName:   "Alice",
		LastName:    "Smith",
		Email:       "alice.smith@z.org",
		PhoneNumber: "5559999999",
		Birthday:    "1985-06-15",
	})
	require.NoError(t, err)
	createBobLee(t, svc, ownerBob)

	t.Run("case-insensitive substring", func(t *testing.T) {
		results, err := svc.Search(context.Background(), ownerAlice, "bOb", "", "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Bob", results[0].FirstName)
	})

	t.Run("filters combine", func(t *testing.T) {
		results, err := svc.Search(context.Background(), ownerAlice, "", "smith", "z.org")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Alice", results[0].FirstName)

		results, err = svc.Search(context.Background(), ownerAlice, "bob", "smith", "")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty query returns all owned", func(t *testing.T) {
		results, err := svc.Search(context.Background(), ownerAlice, "", "", "")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestContactUpcomingBirthdays(t *testing.T) {
	svc, _ := newContactFixture()

	birthday := func(offsetDays int) string {
		d := time.Now().AddDate(0, 0, offsetDays)
		// Old (leap) birth year: matching is by month/day.
		return fmt.Sprintf("1992-%02d-%02d", d.Month(), d.Day())
	}

	create := func(first, bday string, owner uint) {
		_, err := svc.Create(context.Background(), owner, CreateContactRequest{
			FirstName:   first,
			LastName:    "Test",
			Email:       strings.ToLower(first) + "@y.com",
			PhoneNumber: "5550000000",
			Birthday:    bday,
		})
		require.NoError(t, err)
	}

	create("Today", birthday(0), ownerAlice)
	create("Soon", birthday(3), ownerAlice)
	create("Edge", birthday(6), ownerAlice)
	create("TooLate", birthday(10), ownerAlice)
	create("OtherOwner", birthday(1), ownerBob)

	results, err := svc.UpcomingBirthdays(context.Background(), ownerAlice)
	require.NoError(t, err)

	names := make([]string, 0, len(results))
	for _, c := range results {
		names = append(names, c.FirstName)
	}
	assert.ElementsMatch(t, []string{"Today", "Soon", "Edge"}, names)
}
