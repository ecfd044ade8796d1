package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	"github.com/poi-crawler/internal/repository/postgres/testhelpers"
	"github.com/poi-crawler/internal/repository/sqldb"
)

// POIRepositorySuite tests the POI repository with real database
type POIRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.POIRepository
	ctx    context.Context
}

// SetupSuite runs once before all tests
func (s *POIRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	err := sqldb.Migrate(context.Background(), s.testDB.DB)
	s.Require().NoError(err, "Failed to apply schema")

	// Create repository using test helper that wraps DB with logger
	s.repo = testhelpers.NewPOIRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

// TearDownSuite runs once after all tests
func (s *POIRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest runs before each test
func (s *POIRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func ptr(f float64) *float64 { return &f }

// ============================================================================
// Test Upsert
// ============================================================================

func (s *POIRepositorySuite) TestUpsert_Idempotent() {
	rec := &domain.POIRecord{
		UID: "u1", Name: "牛肉面", City: "兰州市", Area: "城关区",
		Lat: ptr(36.0611), Lng: ptr(103.8343), SourceQuery: "美食",
	}

	n, err := s.repo.Upsert(s.ctx, []*domain.POIRecord{rec})
	s.NoError(err)
	s.Equal(1, n)

	n, err = s.repo.Upsert(s.ctx, []*domain.POIRecord{rec})
	s.NoError(err)
	s.Equal(1, n)

	count, err := s.repo.Count(s.ctx)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *POIRepositorySuite) TestUpsert_LastWriteWins() {
	_, err := s.repo.Upsert(s.ctx, []*domain.POIRecord{
		{UID: "u1", Name: "old", SourceQuery: "美食"},
	})
	s.NoError(err)

	_, err = s.repo.Upsert(s.ctx, []*domain.POIRecord{
		{UID: "u1", Name: "new", SourceQuery: "酒店", Lat: ptr(1), Lng: ptr(2)},
	})
	s.NoError(err)

	records, err := s.repo.Query(s.ctx, domain.POIFilter{})
	s.NoError(err)
	s.Require().Len(records, 1)
	s.Equal("new", records[0].Name)
	s.Equal("酒店", records[0].SourceQuery)
	s.Require().NotNil(records[0].Lat)
	s.Equal(1.0, *records[0].Lat)
}

// ============================================================================
// Test Query / CategoryCounts
// ============================================================================

func (s *POIRepositorySuite) TestQuery_Filters() {
	_, err := s.repo.Upsert(s.ctx, []*domain.POIRecord{
		{UID: "a", SourceQuery: "美食", Lat: ptr(36), Lng: ptr(103)},
		{UID: "b", SourceQuery: "美食"},
		{UID: "c", SourceQuery: "酒店", Lat: ptr(36), Lng: ptr(103)},
	})
	s.NoError(err)

	food, err := s.repo.Query(s.ctx, domain.POIFilter{SourceQuery: "美食"})
	s.NoError(err)
	s.Len(food, 2)

	located, err := s.repo.Query(s.ctx, domain.POIFilter{WithCoordinates: true})
	s.NoError(err)
	s.Len(located, 2)

	counts, err := s.repo.CategoryCounts(s.ctx)
	s.NoError(err)
	s.Equal([]domain.CategoryCount{
		{SourceQuery: "美食", Count: 2},
		{SourceQuery: "酒店", Count: 1},
	}, counts)
}

// TestPOIRepositorySuite runs the test suite
func TestPOIRepositorySuite(t *testing.T) {
	suite.Run(t, new(POIRepositorySuite))
}
