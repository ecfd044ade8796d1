package postgres

import (
	"github.com/poi-crawler/internal/domain/repository"
	"github.com/poi-crawler/internal/repository/sqldb"
)

// NewPOIRepository создает хранилище POI на PostgreSQL
func NewPOIRepository(db *DB) repository.POIRepository {
	return sqldb.NewPOIRepository(db.DB, db.logger)
}
