package webhook

import (
	"go.uber.org/zap"

	"github.com/wattlens/wattlens/internal/config"
)

func NewFromConfig(cfg config.Config, log *zap.Logger) *Trigger {
	if cfg.UploadWebhookURL == "" {
		log.Warn("UPLOAD_WEBHOOK_URL not set, upload trigger disabled")
	}
	return New(cfg.UploadWebhookURL, log)
}
