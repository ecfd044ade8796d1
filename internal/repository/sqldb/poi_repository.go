package sqldb

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	"github.com/poi-crawler/internal/pkg/metrics"
	"go.uber.org/zap"
)

type poiRepository struct {
	db        *sqlx.DB
	logger    *zap.Logger
	upsertSQL string
	selectSQL string
}

// NewPOIRepository создает хранилище POI поверх любого sqlx-подключения (sqlite или postgres).
// Схема должна быть создана через Migrate.
func NewPOIRepository(db *sqlx.DB, logger *zap.Logger) repository.POIRepository {
	return &poiRepository{
		db:        db,
		logger:    logger,
		upsertSQL: buildUpsertSQL(),
		selectSQL: fmt.Sprintf("SELECT %s FROM poi", strings.Join(Columns, ", ")),
	}
}

func buildUpsertSQL() string {
	named := make([]string, len(Columns))
	updates := make([]string, 0, len(Columns)-1)
	for i, col := range Columns {
		named[i] = ":" + col
		if col != "uid" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
		}
	}
	return fmt.Sprintf(
		"INSERT INTO poi (%s) VALUES (%s) ON CONFLICT(uid) DO UPDATE SET %s",
		strings.Join(Columns, ", "),
		strings.Join(named, ", "),
		strings.Join(updates, ", "),
	)
}

// Upsert пишет страницу результатов одной транзакцией. Повторная запись того же uid
// перезаписывает все поля последней версией.
func (r *poiRepository) Upsert(ctx context.Context, records []*domain.POIRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, r.upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, rec := range records {
		if rec == nil || rec.UID == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			r.logger.Error("Failed to upsert POI", zap.String("uid", rec.UID), zap.Error(err))
			return 0, fmt.Errorf("failed to upsert poi %s: %w", rec.UID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}

	metrics.StoreUpsertedRowsTotal.Add(float64(written))
	r.logger.Debug("POIs upserted", zap.Int("count", written))

	return written, nil
}

func (r *poiRepository) Query(ctx context.Context, filter domain.POIFilter) ([]*domain.POIRecord, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.SourceQuery != "" {
		conds = append(conds, "source_query = ?")
		args = append(args, filter.SourceQuery)
	}
	if filter.WithCoordinates {
		conds = append(conds, "lat IS NOT NULL AND lng IS NOT NULL")
	}

	query := r.selectSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + orderColumn(r.db)

	var records []*domain.POIRecord
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("Failed to query POIs", zap.Error(err))
		return nil, fmt.Errorf("failed to query pois: %w", err)
	}

	return records, nil
}

func (r *poiRepository) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
		SELECT source_query, COUNT(*) AS count
		FROM poi
		GROUP BY source_query
		ORDER BY COUNT(*) DESC, source_query ASC
	`

	var counts []domain.CategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		r.logger.Error("Failed to count categories", zap.Error(err))
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	if counts == nil {
		counts = []domain.CategoryCount{}
	}

	return counts, nil
}

func (r *poiRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM poi"); err != nil {
		return 0, fmt.Errorf("failed to count pois: %w", err)
	}
	return n, nil
}
