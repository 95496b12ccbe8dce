package inventory

import (
	"github.com/dakshina-arts/boxoffice/internal/inventory/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory",
	fx.Provide(repository.New),
)
