package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Columns - порядок колонок таблицы poi; совпадает с порядком CSV-экспорта
var Columns = []string{
	"uid", "name", "address", "province", "city", "area", "adcode",
	"lat", "lng", "type", "tag", "classified_poi_tag", "telephone", "detail",
	"overall_rating", "price", "shop_hours", "brand", "content_tag", "source_query",
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS poi (
	uid TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	province TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	area TEXT NOT NULL DEFAULT '',
	adcode TEXT NOT NULL DEFAULT '',
	lat REAL,
	lng REAL,
	type TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL DEFAULT '',
	classified_poi_tag TEXT NOT NULL DEFAULT '',
	telephone TEXT NOT NULL DEFAULT '',
	detail INTEGER NOT NULL DEFAULT 0,
	overall_rating TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '',
	shop_hours TEXT NOT NULL DEFAULT '',
	brand TEXT NOT NULL DEFAULT '',
	content_tag TEXT NOT NULL DEFAULT '',
	source_query TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_poi_source_query ON poi (source_query);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS poi (
	seq BIGSERIAL,
	uid TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	province TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	area TEXT NOT NULL DEFAULT '',
	adcode TEXT NOT NULL DEFAULT '',
	lat DOUBLE PRECISION,
	lng DOUBLE PRECISION,
	type TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL DEFAULT '',
	classified_poi_tag TEXT NOT NULL DEFAULT '',
	telephone TEXT NOT NULL DEFAULT '',
	detail INTEGER NOT NULL DEFAULT 0,
	overall_rating TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '',
	shop_hours TEXT NOT NULL DEFAULT '',
	brand TEXT NOT NULL DEFAULT '',
	content_tag TEXT NOT NULL DEFAULT '',
	source_query TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_poi_source_query ON poi (source_query);
`

// IsPostgres определяет диалект по имени драйвера sqlx
func IsPostgres(db *sqlx.DB) bool {
	switch db.DriverName() {
	case "pgx", "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// Migrate создает таблицу poi, если ее еще нет
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if IsPostgres(db) {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate poi schema: %w", err)
	}
	return nil
}

// orderColumn - колонка порядка вставки для каждого диалекта
func orderColumn(db *sqlx.DB) string {
	if IsPostgres(db) {
		return "seq"
	}
	return "rowid"
}
