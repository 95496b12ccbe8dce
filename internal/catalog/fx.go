package catalog

import (
	"github.com/dakshina-arts/boxoffice/internal/catalog/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(repository.Provide),
)
