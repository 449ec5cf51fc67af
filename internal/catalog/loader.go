package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"kassenbon/internal/model"

	"github.com/rs/zerolog"
)

// Loader loads a catalogue from an external source.
type Loader interface {
	// Load reads and validates a catalogue from the given path.
	Load(ctx context.Context, filePath string) (Catalog, error)
}

// fileLoader implements Loader for JSON catalogue files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader. The file is a
// JSON array of items: [{"name": "...", "price": 1.29, "taxRate": 7}, ...].
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a JSON catalogue file and returns a validated Catalog.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading catalogue file")

	data, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalogue file")
		return Catalog{}, fmt.Errorf("failed to read catalogue file %s: %w", filePath, err)
	}

	var items []model.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to parse catalogue file")
		return Catalog{}, fmt.Errorf("failed to parse catalogue file %s: %w", filePath, err)
	}

	cat, err := New(items)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("catalogue file failed validation")
		return Catalog{}, fmt.Errorf("invalid catalogue file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("items_loaded", cat.Len()).
		Msg("catalogue file loaded successfully")

	return cat, nil
}
