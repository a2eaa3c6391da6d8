package dashboard

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/bmjaya/printworks/internal/presentation/http/response"
	"github.com/bmjaya/printworks/internal/service/auth"
	service "github.com/bmjaya/printworks/internal/service/order"
	"github.com/bmjaya/printworks/internal/transport/http/middleware"
)

var httpTracer = otel.Tracer("github.com/bmjaya/printworks/transport/http/dashboard")

// Handler exposes the dashboard statistics endpoint.
type Handler struct {
	orders *service.Service
}

// NewHandler constructs a dashboard Handler.
func NewHandler(orders *service.Service) *Handler {
	return &Handler{orders: orders}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, tokens *auth.TokenManager) {
	g := e.Group("/dashboard", middleware.Bearer(tokens))
	g.GET("/stats", h.stats)
}

func (h *Handler) stats(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "dashboard.stats")
	defer span.End()

	stats, err := h.orders.Stats(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(stats).Build()
}
