package production

import (
	"go.uber.org/fx"

	repo "github.com/bmjaya/printworks/internal/repository/production"
)

// Module provides the production service to the fx graph.
var Module = fx.Provide(
	NewService,
	func(r *repo.Repository) Repository { return r },
)
