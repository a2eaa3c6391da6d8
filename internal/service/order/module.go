package order

import (
	"go.uber.org/fx"

	repo "github.com/bmjaya/printworks/internal/repository/order"
)

// Module provides the order service to Fx.
var Module = fx.Options(
	fx.Provide(
		NewService,
		func(r *repo.Repository) Repository { return r },
	),
)
