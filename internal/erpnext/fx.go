package erpnext

import (
	"github.com/wattlens/wattlens/internal/config"
	"github.com/wattlens/wattlens/internal/erpnext/client"
	"github.com/wattlens/wattlens/internal/erpnext/domain"
	"github.com/wattlens/wattlens/internal/erpnext/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("erpnext",
	fx.Provide(NewClientFromConfig),
	fx.Provide(service.New),
)

func NewClientFromConfig(cfg config.Config, log *zap.Logger) (domain.Client, error) {
	if cfg.ERPNextURL == "" {
		log.Warn("ERPNEXT_URL not set, record publishing disabled")
		return client.Disabled{}, nil
	}
	return client.New(client.Config{
		BaseURL:   cfg.ERPNextURL,
		APIKey:    cfg.ERPNextAPIKey,
		APISecret: cfg.ERPNextAPISecret,
	}, log)
}
