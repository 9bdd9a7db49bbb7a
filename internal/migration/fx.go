package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	billdomain "github.com/wattlens/wattlens/internal/bill/domain"
	"github.com/wattlens/wattlens/internal/config"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}
		return conn.AutoMigrate(&billdomain.Bill{}, &billdomain.Insight{})
	}),
)
