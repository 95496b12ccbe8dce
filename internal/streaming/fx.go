package streaming

import (
	"github.com/dakshina-arts/boxoffice/internal/clock"
	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/streaming/domain"
	"github.com/dakshina-arts/boxoffice/internal/streaming/mux"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("streaming",
	fx.Provide(func(cfg config.Config, clk clock.Clock, log *zap.Logger) (domain.Provisioner, error) {
		if cfg.Mux.SigningKeyID == "" || cfg.Mux.SigningPrivateKey == "" {
			log.Warn("mux signing key not configured, playback links disabled")
			return domain.NoOpProvisioner{}, nil
		}
		return mux.NewProvisioner(mux.Config{
			SigningKeyID:      cfg.Mux.SigningKeyID,
			SigningPrivateKey: cfg.Mux.SigningPrivateKey,
			WatchBaseURL:      cfg.Mux.WatchBaseURL,
		}, clk, log)
	}),
)
