package bill

import (
	"github.com/wattlens/wattlens/internal/bill/repository"
	"github.com/wattlens/wattlens/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
