package fx

import (
	"played-together/internal/api"
	"played-together/internal/config"
	"played-together/internal/logger"
	"played-together/internal/metrics"
	"played-together/internal/server"
	"played-together/internal/service"

	"go.uber.org/fx"
)

// Module builds the correlation engine. The caller supplies *config.Config.
var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Invoke((*config.Config).LogFields),
	fx.Provide(metrics.New),
	// api client
	fx.Provide(fx.Annotate(api.NewRiotClient, fx.As(fx.Self()), fx.As(new(service.RiotAPI)))),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewMatchDetailService),
	fx.Provide(service.NewEngine),
)

var ServerModule = fx.Options(
	Module,
	fx.Provide(server.NewQueryServer),
)
