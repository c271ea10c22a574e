package transfer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/repository"
)

// --- モック ---

// memoryAccountStore はlower(email)の一意インデックスを模したインメモリストア。
type memoryAccountStore struct {
	mu          sync.Mutex
	accounts    map[string]*model.Account
	updateCalls int
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{accounts: make(map[string]*model.Account)}
}

func (s *memoryAccountStore) emailTaken(email, exceptID string) bool {
	for id, a := range s.accounts {
		if id != exceptID && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (s *memoryAccountStore) Insert(ctx context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(a.Email, "") {
		return repository.ErrDuplicateEmail
	}
	stored := *a
	s.accounts[a.ID] = &stored
	return nil
}

func (s *memoryAccountStore) FindByID(ctx context.Context, id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	found := *a
	return &found, nil
}

func (s *memoryAccountStore) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return nil, nil
}

func (s *memoryAccountStore) List(ctx context.Context, search string) ([]*model.Account, error) {
	return nil, nil
}

func (s *memoryAccountStore) Update(ctx context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if _, ok := s.accounts[a.ID]; !ok {
		return repository.ErrNotFound
	}
	if s.emailTaken(a.Email, a.ID) {
		return repository.ErrDuplicateEmail
	}
	stored := *a
	s.accounts[a.ID] = &stored
	return nil
}

func (s *memoryAccountStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return nil
}

func (s *memoryAccountStore) DeleteByID(ctx context.Context, id string) error {
	return nil
}

func (s *memoryAccountStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

type mockFeedItemRepo struct {
	created  []*model.FeedItem
	createFn func(ctx context.Context, item *model.FeedItem) error
}

func (m *mockFeedItemRepo) Create(ctx context.Context, item *model.FeedItem) error {
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	m.created = append(m.created, item)
	return nil
}

func (m *mockFeedItemRepo) FindByID(ctx context.Context, id string) (*model.FeedItem, error) {
	return nil, nil
}

func (m *mockFeedItemRepo) List(ctx context.Context) ([]*model.FeedItem, error) {
	return nil, nil
}

func (m *mockFeedItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.FeedItem, error) {
	return nil, nil
}

func (m *mockFeedItemRepo) DeleteByID(ctx context.Context, id string) error {
	return nil
}

func strPtr(s string) *string {
	return &s
}
