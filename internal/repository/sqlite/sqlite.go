package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/poi-crawler/internal/config"
	"github.com/poi-crawler/internal/domain/repository"
	"github.com/poi-crawler/internal/repository/sqldb"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DriverName - имя, под которым регистрируется драйвер modernc.org/sqlite
const DriverName = "sqlite"

func init() {
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("SQLite opened", zap.String("path", cfg.SQLitePath))

	return &DB{DB: db, logger: logger}, nil
}

// Open открывает файл базы (":memory:" для тестов). Одно соединение на запись:
// SQLite сериализует писателей, а WAL позволяет читать параллельно.
func Open(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

// Migrate создает схему хранилища POI
func (db *DB) Migrate(ctx context.Context) error {
	return sqldb.Migrate(ctx, db.DB)
}

// NewPOIRepository создает хранилище POI на SQLite
func NewPOIRepository(db *DB) repository.POIRepository {
	return sqldb.NewPOIRepository(db.DB, db.logger)
}

func (db *DB) Close() error {
	db.logger.Info("Closing SQLite database")
	return db.DB.Close()
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
