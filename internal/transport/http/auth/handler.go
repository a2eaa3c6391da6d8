package auth

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/presentation/http/response"
	service "github.com/bmjaya/printworks/internal/service/auth"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/bmjaya/printworks/transport/http/auth")

// Handler exposes authentication endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. Login stays outside the
// bearer middleware; it is the door, not a room.
func Register(e *echo.Echo, h *Handler) {
	e.POST("/login", h.login)
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if req.Username == "" || req.Password == "" {
		return b.WithError(errorbank.BadRequest("username and password are required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.login")
	defer span.End()

	result, err := h.svc.Login(ctx, req)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("login berhasil").WithData(result).Build()
}
