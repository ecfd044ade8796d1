package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/poi-crawler/internal/domain"
)

// MockRegionAPI is a mock of RegionAPI
type MockRegionAPI struct {
	mock.Mock
}

func (m *MockRegionAPI) SearchRegion(ctx context.Context, query domain.RegionQuery) (*domain.RegionResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegionResponse), args.Error(1)
}

// MockPlaceAPI is a mock of PlaceAPI
type MockPlaceAPI struct {
	mock.Mock
}

func (m *MockPlaceAPI) SearchPlace(ctx context.Context, query domain.PlaceQuery) (*domain.PlaceResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceResponse), args.Error(1)
}

// MockRegionCacheRepository is a mock of RegionCacheRepository
type MockRegionCacheRepository struct {
	mock.Mock
}

func (m *MockRegionCacheRepository) Load(ctx context.Context) (*domain.RegionMap, error) {
	args := m.Called(ctx)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case func(context.Context) *domain.RegionMap:
		return v(ctx), args.Error(1)
	default:
		return args.Get(0).(*domain.RegionMap), args.Error(1)
	}
}

func (m *MockRegionCacheRepository) Save(ctx context.Context, regions *domain.RegionMap) error {
	args := m.Called(ctx, regions)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

func (m *MockCacheRepository) SetCategories(ctx context.Context, counts []domain.CategoryCount, ttl time.Duration) error {
	args := m.Called(ctx, counts, ttl)
	return args.Error(0)
}

// MockPOIRepository is a mock of POIRepository
type MockPOIRepository struct {
	mock.Mock
}

func (m *MockPOIRepository) Upsert(ctx context.Context, records []*domain.POIRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockPOIRepository) Query(ctx context.Context, filter domain.POIFilter) ([]*domain.POIRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.POIRecord), args.Error(1)
}

func (m *MockPOIRepository) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

func (m *MockPOIRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// memoryPOIStore - потокобезопасное хранилище для тестов обхода, upsert по uid
type memoryPOIStore struct {
	mu    sync.Mutex
	order []string
	rows  map[string]*domain.POIRecord
	calls int
}

func newMemoryPOIStore() *memoryPOIStore {
	return &memoryPOIStore{rows: make(map[string]*domain.POIRecord)}
}

func (s *memoryPOIStore) Upsert(_ context.Context, records []*domain.POIRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	n := 0
	for _, r := range records {
		if r.UID == "" {
			continue
		}
		if _, ok := s.rows[r.UID]; !ok {
			s.order = append(s.order, r.UID)
		}
		cp := *r
		s.rows[r.UID] = &cp
		n++
	}
	return n, nil
}

func (s *memoryPOIStore) Query(_ context.Context, filter domain.POIFilter) ([]*domain.POIRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.POIRecord
	for _, uid := range s.order {
		r := s.rows[uid]
		if filter.SourceQuery != "" && r.SourceQuery != filter.SourceQuery {
			continue
		}
		if filter.WithCoordinates && !r.HasCoordinates() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memoryPOIStore) CategoryCounts(context.Context) ([]domain.CategoryCount, error) {
	return nil, nil
}

func (s *memoryPOIStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func ptrFloat64(v float64) *float64 {
	return &v
}
