package email

import (
	"github.com/dakshina-arts/boxoffice/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.Brevo.APIKey == "" {
		log.Warn("email provider api key not configured, mail delivery disabled")
		return NoOpProvider{}
	}

	return NewBrevo(Config{
		APIKey:      cfg.Brevo.APIKey,
		BaseURL:     cfg.Brevo.BaseURL,
		SenderEmail: cfg.Brevo.SenderEmail,
		SenderName:  cfg.Brevo.SenderName,
	}, log)
}
