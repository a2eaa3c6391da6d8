package auth

import (
	"go.uber.org/fx"

	employeerepo "github.com/bmjaya/printworks/internal/repository/employee"
	userrepo "github.com/bmjaya/printworks/internal/repository/user"
)

// Module provides the auth service and token manager to Fx.
var Module = fx.Options(
	fx.Provide(
		NewTokenManager,
		NewService,
		func(r *userrepo.Repository) AdminRepository { return r },
		func(r *employeerepo.Repository) EmployeeRepository { return r },
	),
)
