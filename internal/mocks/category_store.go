package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing
type MockCategoryStore struct {
	ListFn      func(ctx context.Context) ([]domain.Category, error)
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetBySlugFn func(ctx context.Context, slug string) (*domain.Category, error)
	UpsertFn    func(ctx context.Context, category *domain.Category) (*domain.Category, error)

	// Categories holds the default implementation's rows.
	Categories map[uuid.UUID]*domain.Category

	// WithTxCalls counts WithTx invocations.
	WithTxCalls int

	mu sync.Mutex
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// NewMockCategoryStore creates a store pre-populated with categories.
func NewMockCategoryStore(categories ...domain.Category) *MockCategoryStore {
	m := &MockCategoryStore{Categories: make(map[uuid.UUID]*domain.Category)}
	for i := range categories {
		c := categories[i]
		m.Categories[c.ID] = &c
	}
	return m
}

// List implements store.CategoryStore
func (m *MockCategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// GetByID implements store.CategoryStore
func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	found := *c
	return &found, nil
}

// GetBySlug implements store.CategoryStore
func (m *MockCategoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if m.GetBySlugFn != nil {
		return m.GetBySlugFn(ctx, slug)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Categories {
		if c.Slug == slug {
			found := *c
			return &found, nil
		}
	}
	return nil, store.ErrCategoryNotFound
}

// Upsert implements store.CategoryStore
func (m *MockCategoryStore) Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Categories {
		if c.Slug == category.Slug {
			c.Name = category.Name
			stored := *c
			return &stored, nil
		}
	}
	stored := *category
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.Categories[stored.ID] = &stored
	result := stored
	return &result, nil
}

// WithTx implements store.CategoryStore. The mock has no transactions and
// returns itself.
func (m *MockCategoryStore) WithTx(tx store.DBTX) store.CategoryStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}

func (m *MockCategoryStore) has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Categories[id]
	return ok
}
