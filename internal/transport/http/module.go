package http

import (
	"go.uber.org/fx"

	authtransport "github.com/bmjaya/printworks/internal/transport/http/auth"
	dashboardtransport "github.com/bmjaya/printworks/internal/transport/http/dashboard"
	employeetransport "github.com/bmjaya/printworks/internal/transport/http/employee"
	ordertransport "github.com/bmjaya/printworks/internal/transport/http/order"
	productiontransport "github.com/bmjaya/printworks/internal/transport/http/production"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	authtransport.Module,
	ordertransport.Module,
	employeetransport.Module,
	productiontransport.Module,
	dashboardtransport.Module,
)
