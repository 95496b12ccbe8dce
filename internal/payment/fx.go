package payment

import (
	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/payment/domain"
	"github.com/dakshina-arts/boxoffice/internal/payment/razorpay"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("payment",
	fx.Provide(func(cfg config.Config, log *zap.Logger) domain.Gateway {
		return razorpay.NewClient(razorpay.Config{
			KeyID:     cfg.Razorpay.KeyID,
			KeySecret: cfg.Razorpay.KeySecret,
			BaseURL:   cfg.Razorpay.BaseURL,
		}, log)
	}),
)
