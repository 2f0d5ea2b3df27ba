package bootstrap

import (
	"log/slog"

	"gearbook/internal/infra/gateway"
	"gearbook/internal/pkg/config"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewSigner,
		NewGatewayClient,
	),
)

func NewSigner(cfg config.Config) *gateway.Signer {
	return gateway.NewSigner(cfg.Gateway.Secret)
}

// NewGatewayClient picks the implementation once at startup so business
// logic never branches on the environment.
func NewGatewayClient(cfg config.Config) gateway.Client {
	if cfg.Gateway.Simulated {
		slog.Info("using simulated payment gateway")
		return gateway.NewSimulated()
	}
	return gateway.NewHTTPClient(cfg.Gateway)
}
