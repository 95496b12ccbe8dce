package inquiry

import "go.uber.org/fx"

var Module = fx.Module("inquiry",
	fx.Provide(NewService),
)
