package employee

import (
	"go.uber.org/fx"

	repo "github.com/bmjaya/printworks/internal/repository/employee"
)

// Module provides the employee service to Fx.
var Module = fx.Options(
	fx.Provide(
		NewService,
		func(r *repo.Repository) Repository { return r },
	),
)
