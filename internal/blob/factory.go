package blob

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	appcfg "github.com/fdg312/diet-planner/internal/config"
)

// NewBlobStore builds a blob store using mode local|s3|auto.
// Local mode returns a nil Store: export bytes live in the database row.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger *zap.Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}
	log := logger.With(zap.String("component", "blob"))

	switch mode {
	case appcfg.BlobModeLocal:
		log.Info("mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			log.Info("mode=local (auto, S3 not configured)",
				zap.Strings("missing", cfg.S3.MissingRequired()),
				zap.String("s3", cfg.S3.DiagnosticsSummary()),
			)
			return nil, appcfg.BlobModeLocal, nil
		}

		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			log.Warn("s3 init failed, fallback=local", zap.Error(err))
			return nil, appcfg.BlobModeLocal, nil
		}

		log.Info("mode=s3 (auto, configured)", zap.String("s3", cfg.S3.DiagnosticsSummary()))
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		log.Info("mode=s3 (forced)", zap.String("s3", cfg.S3.DiagnosticsSummary()))
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}
