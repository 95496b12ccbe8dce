package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dakshina-arts/boxoffice/internal/catalog"
	"github.com/dakshina-arts/boxoffice/internal/clock"
	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/inquiry"
	"github.com/dakshina-arts/boxoffice/internal/inventory"
	"github.com/dakshina-arts/boxoffice/internal/logger"
	"github.com/dakshina-arts/boxoffice/internal/metrics"
	"github.com/dakshina-arts/boxoffice/internal/migration"
	"github.com/dakshina-arts/boxoffice/internal/notification"
	"github.com/dakshina-arts/boxoffice/internal/order"
	"github.com/dakshina-arts/boxoffice/internal/payment"
	"github.com/dakshina-arts/boxoffice/internal/providers/email"
	"github.com/dakshina-arts/boxoffice/internal/providers/pdf"
	"github.com/dakshina-arts/boxoffice/internal/seed"
	"github.com/dakshina-arts/boxoffice/internal/server"
	"github.com/dakshina-arts/boxoffice/internal/streaming"
	"github.com/dakshina-arts/boxoffice/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
		metrics.Module,

		catalog.Module,
		inventory.Module,
		payment.Module,
		streaming.Module,
		email.Module,
		pdf.Module,
		notification.Module,
		order.Module,
		inquiry.Module,

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
