package order

import (
	"github.com/dakshina-arts/boxoffice/internal/order/repository"
	"github.com/dakshina-arts/boxoffice/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order",
	fx.Provide(
		repository.New,
		service.NewService,
	),
)
