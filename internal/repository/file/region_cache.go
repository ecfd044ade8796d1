package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	"go.uber.org/zap"
)

type regionCacheRepository struct {
	path   string
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewRegionCacheRepository хранит иерархию регионов в JSON-файле с сохранением порядка ключей
func NewRegionCacheRepository(path string, logger *zap.Logger) repository.RegionCacheRepository {
	return &regionCacheRepository{path: path, logger: logger}
}

func (r *regionCacheRepository) Load(_ context.Context) (*domain.RegionMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read region cache: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		r.logger.Warn("Region cache file is empty, ignoring", zap.String("path", r.path))
		return nil, nil
	}

	var regions domain.RegionMap
	if err := json.Unmarshal(data, &regions); err != nil {
		r.logger.Warn("Region cache file is corrupt, ignoring",
			zap.String("path", r.path),
			zap.Error(err))
		return nil, nil
	}
	if regions.IsEmpty() {
		return nil, nil
	}

	return &regions, nil
}

// Save пишет во временный файл рядом с целевым и переименовывает его,
// поэтому читатель никогда не увидит половину файла.
func (r *regionCacheRepository) Save(_ context.Context, regions *domain.RegionMap) error {
	if regions == nil {
		return fmt.Errorf("region map is nil")
	}

	data, err := json.MarshalIndent(regions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode region map: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write region cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close region cache: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace region cache: %w", err)
	}

	r.logger.Info("Region cache saved",
		zap.String("path", r.path),
		zap.Int("provinces", len(regions.Provinces)))

	return nil
}
