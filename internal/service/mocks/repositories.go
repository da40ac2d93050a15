package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/SergeiKhy/url-shortener/internal/repository"
)

// MockLinkRepository implements repository.LinkRepository for testing.
// Мьютекс даёт те же гарантии атомарности, что уникальный индекс
// и атомарный UPDATE в Postgres.
type MockLinkRepository struct {
	mu     sync.Mutex
	links  map[string]*models.Link
	nextID int64
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		links:  make(map[string]*models.Link),
		nextID: 1,
	}
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.Slug]; exists {
		return repository.ErrSlugExists
	}

	link.ID = m.nextID
	m.nextID++
	stored := *link
	m.links[link.Slug] = &stored
	return nil
}

func (m *MockLinkRepository) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[slug]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (m *MockLinkRepository) ResolveAndCount(ctx context.Context, slug string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[slug]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	link.Clicks++
	copied := *link
	return &copied, nil
}

func (m *MockLinkRepository) FindByOwner(ctx context.Context, ownerID int64) ([]models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var links []models.Link
	for _, link := range m.links {
		if link.OwnerID == ownerID {
			links = append(links, *link)
		}
	}
	return links, nil
}

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Email]; exists {
		return repository.ErrEmailExists
	}

	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// MockInviteRepository implements repository.InviteRepository for testing
type MockInviteRepository struct {
	mu    sync.Mutex
	codes map[string]bool // code -> is_used
}

func NewMockInviteRepository(codes ...string) *MockInviteRepository {
	m := &MockInviteRepository{codes: make(map[string]bool)}
	for _, code := range codes {
		m.codes[code] = false
	}
	return m
}

func (m *MockInviteRepository) Claim(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used, exists := m.codes[code]
	if !exists || used {
		return repository.ErrInviteInvalid
	}
	m.codes[code] = true
	return nil
}

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu    sync.RWMutex
	cache map[string]*models.Link
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		cache: make(map[string]*models.Link),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, slug string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.cache[slug]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, slug string, link *models.Link, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *link
	m.cache[slug] = &stored
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, slug)
	return nil
}
