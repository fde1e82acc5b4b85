// Package responder selects and configures the upstream conversational
// responder implementation.
package responder

import (
	"fmt"
	"log/slog"

	"leadgate/internal/config"
	leadSvc "leadgate/internal/domain/services/lead"
	"leadgate/internal/service/lead/responder/anthropic"
	"leadgate/internal/service/lead/responder/lorem"
)

// Setup creates the responder named by the configuration.
func Setup(cfg *config.Config, logger *slog.Logger) (leadSvc.Responder, error) {
	switch cfg.ResponderProvider {
	case "anthropic":
		provider, err := anthropic.NewProvider(cfg.AnthropicAPIKey, cfg.ResponderModel, logger)
		if err != nil {
			return nil, fmt.Errorf("setup anthropic responder: %w", err)
		}
		logger.Info("responder configured", "provider", "anthropic", "model", cfg.ResponderModel)
		return provider, nil

	case "lorem":
		logger.Warn("responder configured with generated text - development only", "provider", "lorem")
		return lorem.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unknown responder provider %q", cfg.ResponderProvider)
	}
}
