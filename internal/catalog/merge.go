package catalog

import (
	"context"
	"fmt"
	"sync"

	"weblarek/internal/model"

	"github.com/rs/zerolog"
)

// LoadAll loads every file concurrently and merges the results in file order.
// Products without an id are dropped and a repeated id keeps its first occurrence.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) ([]model.Product, error) {
	logger = logger.With().Str("component", "catalog-seed").Logger()

	type loadResult struct {
		index    int
		products []model.Product
		err      error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			products, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, products: products, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := make([]model.Product, 0)
	seen := make(map[string]struct{})
	skipped := 0

	for i, result := range results {
		if result.err != nil {
			logger.Error().Err(result.err).Str("file", paths[i]).Msg("failed to load catalogue file")
			return nil, fmt.Errorf("failed to load catalogue file %s: %w", paths[i], result.err)
		}

		for _, p := range result.products {
			if p.ID == "" {
				skipped++
				continue
			}
			if _, dup := seen[p.ID]; dup {
				skipped++
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}

	logger.Info().
		Int("file_count", len(paths)).
		Int("products", len(merged)).
		Int("skipped", skipped).
		Msg("catalogue seed loaded")

	return merged, nil
}
