package order

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/presentation/http/response"
	"github.com/bmjaya/printworks/internal/service/auth"
	service "github.com/bmjaya/printworks/internal/service/order"
	"github.com/bmjaya/printworks/internal/transport/http/middleware"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/bmjaya/printworks/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. All order routes require
// a bearer token.
func Register(e *echo.Echo, h *Handler, tokens *auth.TokenManager) {
	g := e.Group("/orders", middleware.Bearer(tokens))
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	req, err := bindOrderForm(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	designFile, patternFile := formFile(c, "desain_file"), formFile(c, "pola_file")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	span.SetAttributes(attribute.String("order.customer", req.CustomerName))
	defer span.End()

	order, err := h.svc.Create(ctx, req, designFile, patternFile)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithMessage("order berhasil dibuat").
		WithData(dto.NewOrderResponse(order)).
		Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	search := c.QueryParam("search")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list", trace.WithAttributes(attribute.Int("page", page)))
	defer span.End()

	orders, pagination, err := h.svc.List(ctx, search, page)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewOrderResponses(orders)).
		WithMeta("pagination", pagination).
		Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	req, err := bindOrderForm(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	designFile, patternFile := formFile(c, "desain_file"), formFile(c, "pola_file")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Update(ctx, id, req, designFile, patternFile)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("order berhasil diperbarui").
		WithData(dto.NewOrderResponse(order)).
		Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("order berhasil dihapus").Build()
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}

// bindOrderForm reads the multipart form fields of a create/update call.
// Dates use the YYYY-MM-DD layout; empty values stay nil.
func bindOrderForm(c echo.Context) (dto.OrderRequest, error) {
	var req dto.OrderRequest

	req.CustomerName = c.FormValue("nama_pemesan")
	req.CollarModel = c.FormValue("model_kerah")
	req.Fabric = c.FormValue("bahan")
	req.Stitching = c.FormValue("jaitan")
	req.Note = c.FormValue("catatan")
	req.Description = c.FormValue("deskripsi")

	var err error
	if req.OrderDate, err = parseDate(c.FormValue("tanggal_order")); err != nil {
		return req, err
	}
	if req.ProofDate, err = parseDate(c.FormValue("tanggal_proof")); err != nil {
		return req, err
	}
	if req.CompletionDate, err = parseDate(c.FormValue("tanggal_selesai")); err != nil {
		return req, err
	}

	req.SizeXS = formInt(c, "jumlah_xs")
	req.SizeS = formInt(c, "jumlah_s")
	req.SizeM = formInt(c, "jumlah_m")
	req.SizeL = formInt(c, "jumlah_l")
	req.SizeXL = formInt(c, "jumlah_xl")
	req.SizeXXL = formInt(c, "jumlah_xxl")
	req.SizeXXXL = formInt(c, "jumlah_xxxl")
	req.TotalOrder = formInt(c, "total_order")

	return req, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, errorbank.BadRequest("invalid date, expected YYYY-MM-DD", errorbank.WithCause(err))
	}
	return &t, nil
}

func formInt(c echo.Context, field string) int {
	n, _ := strconv.Atoi(c.FormValue(field))
	return n
}

func formFile(c echo.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}
