package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Artef-ca/mobily-vrm-uc/internal/app"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/connector"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Default flag values shared by the command groups
const (
	defaultPortalRoot = "data/portal"
	defaultOCRRoot    = "data/ocr_docs"
	defaultMasterRoot = "data/master_data"
	defaultWorkers    = 4
)

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: "info",
		LogType:  "console",
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

func loadEngine(rulesPath string) (validation.RuleEngine, error) {
	cfg, err := app.LoadValidationConfig(rulesPath)
	if err != nil {
		return nil, err
	}
	return app.NewValidationEngine(cfg)
}

// resolveVendorIDs returns vendorID alone when set, else every vendor with a portal file
func resolveVendorIDs(ctx context.Context, source *connector.LocalDocumentConnector, vendorID string) ([]string, error) {
	if vendorID != "" {
		return []string{vendorID}, nil
	}
	return source.ListVendorIDs(ctx)
}

// runBatch calls fn for every id on at most workers goroutines. The first
// error cancels the remaining calls and is returned.
func runBatch(ctx context.Context, ids []string, workers int, fn func(ctx context.Context, id string) error) error {
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, id)
		})
	}
	return g.Wait()
}

// writeJSON writes v as indented JSON to outputRoot/name, creating outputRoot
func writeJSON(outputRoot, name string, v any) (string, error) {
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", outputRoot, err)
	}

	data, err := connector.MarshalDocument(v)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(outputRoot, name)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return outPath, nil
}
