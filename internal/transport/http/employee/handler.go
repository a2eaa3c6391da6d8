package employee

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/presentation/http/response"
	"github.com/bmjaya/printworks/internal/service/auth"
	service "github.com/bmjaya/printworks/internal/service/employee"
	"github.com/bmjaya/printworks/internal/transport/http/middleware"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/bmjaya/printworks/transport/http/employee")

// Handler exposes employee endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an employee Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. All employee routes
// require a bearer token.
func Register(e *echo.Echo, h *Handler, tokens *auth.TokenManager) {
	g := e.Group("/employees", middleware.Bearer(tokens))
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var req dto.EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "employees.create")
	defer span.End()

	employee, err := h.svc.Create(ctx, req)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithMessage("karyawan berhasil ditambahkan").
		WithData(dto.NewEmployeeResponse(employee)).
		Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	search := c.QueryParam("search")

	ctx, span := httpTracer.Start(c.Request().Context(), "employees.list", trace.WithAttributes(attribute.Int("page", page)))
	defer span.End()

	employees, pagination, err := h.svc.List(ctx, search, page)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewEmployeeResponses(employees)).
		WithMeta("pagination", pagination).
		Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "employees.getByID", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	employee, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewEmployeeResponse(employee)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var req dto.EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "employees.update", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	employee, err := h.svc.Update(ctx, id, req)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("karyawan berhasil diperbarui").
		WithData(dto.NewEmployeeResponse(employee)).
		Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "employees.delete", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("karyawan berhasil dihapus").Build()
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}
