package production

import (
	"encoding/json"
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
	service "github.com/bmjaya/printworks/internal/service/production"
	"github.com/bmjaya/printworks/internal/transport/http/middleware"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/bmjaya/printworks/transport/http/production")

// Handler exposes production pipeline endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a production Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. All production routes
// require a bearer token.
func Register(e *echo.Echo, h *Handler, tokens *auth.TokenManager) {
	g := e.Group("/orders/:orderId/production", middleware.Bearer(tokens))
	g.POST("/init", h.init)
	g.GET("", h.list)
	g.GET("/:stepNumber", h.getStep)
	g.PUT("/:stepNumber", h.updateStep)
	g.DELETE("/:stepNumber/photo/:name", h.deletePhoto)
}

func (h *Handler) init(c echo.Context) error {
	b := response.New(c)

	orderID, err := parseOrderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "production.init", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	if err := h.svc.Init(ctx, orderID); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithMessage("tahapan produksi berhasil dibuat").
		Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	orderID, err := parseOrderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "production.list", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	steps, err := h.svc.List(ctx, orderID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewStepResponses(steps)).Build()
}

func (h *Handler) getStep(c echo.Context) error {
	b := response.New(c)

	orderID, stepNumber, err := parseStepRef(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "production.getStep", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int("step.number", stepNumber),
	))
	defer span.End()

	step, err := h.svc.Get(ctx, orderID, stepNumber)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewStepResponse(step)).Build()
}

func (h *Handler) updateStep(c echo.Context) error {
	b := response.New(c)

	orderID, stepNumber, err := parseStepRef(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	req, err := bindStepForm(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	photos := formFiles(c, "photos")

	ctx, span := httpTracer.Start(c.Request().Context(), "production.updateStep", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int("step.number", stepNumber),
	))
	defer span.End()

	step, err := h.svc.Update(ctx, orderID, stepNumber, req, photos)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("tahapan produksi berhasil diperbarui").
		WithData(dto.NewStepResponse(step)).
		Build()
}

func (h *Handler) deletePhoto(c echo.Context) error {
	b := response.New(c)

	orderID, stepNumber, err := parseStepRef(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	name := c.Param("name")
	if name == "" {
		return b.WithError(errorbank.BadRequest("photo name is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "production.deletePhoto", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int("step.number", stepNumber),
	))
	defer span.End()

	if err := h.svc.DeletePhoto(ctx, orderID, stepNumber, name); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("foto berhasil dihapus").Build()
}

func parseOrderID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid order id", errorbank.WithCause(err))
	}
	return id, nil
}

func parseStepRef(c echo.Context) (int64, int, error) {
	orderID, err := parseOrderID(c)
	if err != nil {
		return 0, 0, err
	}
	stepNumber, err := strconv.Atoi(c.Param("stepNumber"))
	if err != nil {
		return 0, 0, errorbank.BadRequest("invalid step number", errorbank.WithCause(err))
	}
	return orderID, stepNumber, nil
}

// bindStepForm reads the multipart form fields of a step update. Array
// fields arrive as JSON-encoded strings inside the form; an absent
// employee_ids field means assignments are left as they are.
func bindStepForm(c echo.Context) (dto.StepUpdateRequest, error) {
	var req dto.StepUpdateRequest

	req.Status = c.FormValue("status")
	req.Note = c.FormValue("catatan")
	req.StitchType = c.FormValue("jenis_jahit")

	var err error
	if req.WorkDate, err = parseDate(c.FormValue("tanggal")); err != nil {
		return req, err
	}
	if req.WeightBefore, err = parseFloat(c.FormValue("berat_sebelum")); err != nil {
		return req, err
	}
	if req.WeightAfter, err = parseFloat(c.FormValue("berat_sesudah")); err != nil {
		return req, err
	}
	if req.StitchPrice, err = parseFloat(c.FormValue("harga_jahit")); err != nil {
		return req, err
	}

	if raw := c.FormValue("employee_ids"); hasFormValue(c, "employee_ids") {
		ids := []int64{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &ids); err != nil {
				return req, errorbank.BadRequest("employee_ids must be a JSON array of ids", errorbank.WithCause(err))
			}
		}
		req.EmployeeIDs = ids
	}
	if raw := c.FormValue("deletePhotos"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.DeletePhotos); err != nil {
			return req, errorbank.BadRequest("deletePhotos must be a JSON array of names", errorbank.WithCause(err))
		}
	}

	return req, nil
}

func hasFormValue(c echo.Context, field string) bool {
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		if _, ok := form.Value[field]; ok {
			return true
		}
		return false
	}
	params, err := c.FormParams()
	if err != nil {
		return false
	}
	_, ok := params[field]
	return ok
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

func parseFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errorbank.BadRequest("invalid number", errorbank.WithCause(err))
	}
	return &f, nil
}

func formFiles(c echo.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
