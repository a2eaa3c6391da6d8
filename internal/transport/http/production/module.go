package production

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	"github.com/bmjaya/printworks/internal/service/auth"
)

// Module wires HTTP production handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(func(e *echo.Echo, h *Handler, tokens *auth.TokenManager) {
		Register(e, h, tokens)
	}),
)
