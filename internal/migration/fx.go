package migration

import (
	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/dakshina-arts/boxoffice/internal/config"
	orderdomain "github.com/dakshina-arts/boxoffice/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType != "postgres" {
			// Versioned migrations are postgres-only; other dialects are for
			// local development and get the schema straight from the models.
			log.Warn("non-postgres database, applying schema via AutoMigrate", zap.String("db_type", cfg.DBType))
			return conn.AutoMigrate(
				&catalogdomain.Production{},
				&catalogdomain.Solo{},
				&catalogdomain.Event{},
				&catalogdomain.Workshop{},
				&catalogdomain.SessionDetail{},
				&catalogdomain.TicketTier{},
				&orderdomain.Order{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)
