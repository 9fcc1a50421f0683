package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/white/crm-backend/internal/models"
	"github.com/white/crm-backend/internal/repositories"
)

// -------- in-memory gateway fakes --------

type fakeAccountStore struct {
	accounts []*models.Account
	seq      int
}

func (s *fakeAccountStore) nextID() string {
	s.seq++
	return fmt.Sprintf("acc-%03d", s.seq)
}

func (s *fakeAccountStore) Create(_ context.Context, in *models.AccountInput) (*models.Account, error) {
	now := time.Now().UTC()
	account := &models.Account{ID: s.nextID(), CreatedAt: now, UpdatedAt: now}
	in.Apply(account)
	s.accounts = append(s.accounts, account)
	return account, nil
}

func (s *fakeAccountStore) GetByID(_ context.Context, id string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repositories.WrapNotFound(repositories.ErrNotFound, repositories.ErrAccountNotFound)
}

func (s *fakeAccountStore) List(_ context.Context, skip, limit int) ([]*models.Account, error) {
	if skip >= len(s.accounts) {
		return []*models.Account{}, nil
	}
	end := skip + limit
	if end > len(s.accounts) {
		end = len(s.accounts)
	}
	return s.accounts[skip:end], nil
}

func (s *fakeAccountStore) ListAll(_ context.Context) ([]*models.Account, error) {
	return s.accounts, nil
}

func (s *fakeAccountStore) Update(ctx context.Context, id string, in *models.AccountInput) (*models.Account, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(account)
	account.UpdatedAt = time.Now().UTC()
	return account, nil
}

func (s *fakeAccountStore) Delete(_ context.Context, id string) error {
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return repositories.WrapNotFound(repositories.ErrNotFound, repositories.ErrAccountNotFound)
}

func (s *fakeAccountStore) SearchByName(_ context.Context, term string) ([]*models.Account, error) {
	matched := []*models.Account{}
	for _, a := range s.accounts {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(term)) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (s *fakeAccountStore) FilterByStatus(_ context.Context, status models.Status) ([]*models.Account, error) {
	matched := []*models.Account{}
	for _, a := range s.accounts {
		if status == "" || a.Status == status {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (s *fakeAccountStore) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, a := range s.accounts {
		counts[string(a.Status)]++
	}
	return counts, nil
}

type fakeContactStore struct {
	accounts *fakeAccountStore
	contacts []*models.Contact
	seq      int
}

func (s *fakeContactStore) nextID() string {
	s.seq++
	return fmt.Sprintf("con-%03d", s.seq)
}

func (s *fakeContactStore) checkAccountRef(ctx context.Context, accountID string) error {
	if s.accounts == nil {
		return nil
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return fmt.Errorf("%w: account_id %q references nothing", repositories.ErrInvalidReference, accountID)
	}
	return nil
}

func (s *fakeContactStore) Create(ctx context.Context, in *models.ContactInput) (*models.Contact, error) {
	if err := s.checkAccountRef(ctx, in.AccountID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	contact := &models.Contact{ID: s.nextID(), CreatedAt: now, UpdatedAt: now}
	in.Apply(contact)
	s.contacts = append(s.contacts, contact)
	return contact, nil
}

func (s *fakeContactStore) GetByID(_ context.Context, id string) (*models.Contact, error) {
	for _, c := range s.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repositories.WrapNotFound(repositories.ErrNotFound, repositories.ErrContactNotFound)
}

func (s *fakeContactStore) List(_ context.Context, skip, limit int) ([]*models.Contact, error) {
	if skip >= len(s.contacts) {
		return []*models.Contact{}, nil
	}
	end := skip + limit
	if end > len(s.contacts) {
		end = len(s.contacts)
	}
	return s.contacts[skip:end], nil
}

func (s *fakeContactStore) ListAll(_ context.Context) ([]*models.Contact, error) {
	return s.contacts, nil
}

func (s *fakeContactStore) Update(ctx context.Context, id string, in *models.ContactInput) (*models.Contact, error) {
	contact, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccountRef(ctx, in.AccountID); err != nil {
		return nil, err
	}
	in.Apply(contact)
	contact.UpdatedAt = time.Now().UTC()
	return contact, nil
}

func (s *fakeContactStore) Delete(_ context.Context, id string) error {
	for i, c := range s.contacts {
		if c.ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return repositories.WrapNotFound(repositories.ErrNotFound, repositories.ErrContactNotFound)
}

func (s *fakeContactStore) SearchByName(_ context.Context, term string) ([]*models.Contact, error) {
	matched := []*models.Contact{}
	for _, c := range s.contacts {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (s *fakeContactStore) Filter(_ context.Context, status models.Status, role string) ([]*models.Contact, error) {
	matched := []*models.Contact{}
	for _, c := range s.contacts {
		if status != "" && c.Status != status {
			continue
		}
		if role != "" && !strings.Contains(strings.ToLower(c.RoleTitle), strings.ToLower(role)) {
			continue
		}
		matched = append(matched, c)
	}
	return matched, nil
}

func (s *fakeContactStore) ListForFollowUp(_ context.Context, ids []string, excluded []models.Status) ([]*models.Contact, error) {
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	matched := []*models.Contact{}
	for _, c := range s.contacts {
		if !wanted[c.ID] {
			continue
		}
		skip := false
		for _, status := range excluded {
			if c.Status == status {
				skip = true
				break
			}
		}
		if !skip {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (s *fakeContactStore) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, c := range s.contacts {
		counts[string(c.Status)]++
	}
	return counts, nil
}

type fakeActivityStore struct {
	accounts   *fakeAccountStore
	contacts   *fakeContactStore
	activities []*models.Activity
	seq        int
}

func (s *fakeActivityStore) nextID() string {
	s.seq++
	return fmt.Sprintf("act-%03d", s.seq)
}

func (s *fakeActivityStore) checkRefs(ctx context.Context, in *models.ActivityInput) error {
	if s.accounts != nil {
		if _, err := s.accounts.GetByID(ctx, in.AccountID); err != nil {
			return fmt.Errorf("%w: account_id %q references nothing", repositories.ErrInvalidReference, in.AccountID)
		}
	}
	if in.ContactID != "" && s.contacts != nil {
		if _, err := s.contacts.GetByID(ctx, in.ContactID); err != nil {
			return fmt.Errorf("%w: contact_id %q references nothing", repositories.ErrInvalidReference, in.ContactID)
		}
	}
	return nil
}

func (s *fakeActivityStore) Create(ctx context.Context, in *models.ActivityInput) (*models.Activity, error) {
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	activity := &models.Activity{ID: s.nextID(), CreatedAt: now}
	in.Apply(activity)
	s.activities = append(s.activities, activity)

	if s.accounts != nil {
		if account, err := s.accounts.GetByID(ctx, activity.AccountID); err == nil {
			stamped := now
			account.LastActivityAt = &stamped
		}
	}
	return activity, nil
}

func (s *fakeActivityStore) GetByID(_ context.Context, id string) (*models.Activity, error) {
	for _, a := range s.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repositories.WrapNotFound(repositories.ErrNotFound, repositories.ErrActivityNotFound)
}

func (s *fakeActivityStore) List(_ context.Context, skip, limit int) ([]*models.Activity, error) {
	if skip >= len(s.activities) {
		return []*models.Activity{}, nil
	}
	end := skip + limit
	if end > len(s.activities) {
		end = len(s.activities)
	}
	return s.activities[skip:end], nil
}

func (s *fakeActivityStore) ListAll(_ context.Context) ([]*models.Activity, error) {
	return s.activities, nil
}

func (s *fakeActivityStore) Update(ctx context.Context, id string, in *models.ActivityInput) (*models.Activity, error) {
	activity, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	in.Apply(activity)
	return activity, nil
}

func (s *fakeActivityStore) Delete(_ context.Context, id string) error {
	for i, a := range s.activities {
		if a.ID == id {
			s.activities = append(s.activities[:i], s.activities[i+1:]...)
			return nil
		}
	}
	return repositories.WrapNotFound(repositories.ErrNotFound, repositories.ErrActivityNotFound)
}

func (s *fakeActivityStore) CountCreatedBetween(_ context.Context, since, until time.Time) (int64, error) {
	var count int64
	for _, a := range s.activities {
		if !a.CreatedAt.Before(since) && a.CreatedAt.Before(until) {
			count++
		}
	}
	return count, nil
}

func (s *fakeActivityStore) ContactIDsWithFollowUpDue(_ context.Context, until time.Time) ([]string, error) {
	seen := map[string]bool{}
	ids := []string{}
	for _, a := range s.activities {
		if a.ContactID == "" || a.FollowUpAt == nil {
			continue
		}
		if a.FollowUpAt.After(until) {
			continue
		}
		if !seen[a.ContactID] {
			seen[a.ContactID] = true
			ids = append(ids, a.ContactID)
		}
	}
	return ids, nil
}
