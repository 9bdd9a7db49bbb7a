package db

import (
	"github.com/wattlens/wattlens/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open builds the gorm handle for the configured engine. Transactional scope
// is always acquired per operation through gorm.DB.Transaction; the handle
// itself carries only the pool.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialect, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	log.Info("database connected", zap.String("type", cfg.DBType))
	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(Open),
)
