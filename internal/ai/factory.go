package ai

import (
	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/config"
)

func NewProvider(cfg *config.Config, logger *zap.Logger) Provider {
	switch cfg.AIMode {
	case config.AIModeGemini:
		logger.Info("ai provider: gemini", zap.String("model", cfg.GeminiModel))
		return NewGeminiProvider(cfg)
	default:
		logger.Info("ai provider: mock")
		return NewMockProvider()
	}
}
