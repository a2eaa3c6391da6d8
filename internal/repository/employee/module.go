package employee

import "go.uber.org/fx"

// Module provides the employee repository to Fx.
var Module = fx.Provide(NewRepository)
