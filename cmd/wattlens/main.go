package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/wattlens/wattlens/internal/analysis"
	"github.com/wattlens/wattlens/internal/bill"
	"github.com/wattlens/wattlens/internal/clock"
	"github.com/wattlens/wattlens/internal/config"
	"github.com/wattlens/wattlens/internal/erpnext"
	"github.com/wattlens/wattlens/internal/logger"
	"github.com/wattlens/wattlens/internal/migration"
	"github.com/wattlens/wattlens/internal/providers/openai"
	"github.com/wattlens/wattlens/internal/server"
	"github.com/wattlens/wattlens/internal/webhook"
	"github.com/wattlens/wattlens/pkg/db"
)

func main() {
	app := fx.New(
		// core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// functional domains
		analysis.Module,
		openai.Module,
		bill.Module,
		erpnext.Module,
		webhook.Module,

		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
