package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/cache"
	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	"github.com/bmjaya/printworks/internal/messaging"
	repo "github.com/bmjaya/printworks/internal/repository/order"
	"github.com/bmjaya/printworks/internal/storage"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/bmjaya/printworks/service/order")

// Order numbers are "BM-" plus the counter zero-padded to five digits.
const numberPrefix = "BM-"

// PageSize is the fixed page size for order listings.
const PageSize = 10

const statsCacheKey = "dashboard:stats"

// Repository is the order persistence the service depends on.
type Repository interface {
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context, search string, limit, offset int) ([]entity.Order, int, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (dto.DashboardStats, error)
}

// Service encapsulates business logic around orders.
type Service struct {
	repo      Repository
	files     storage.Store
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Files      storage.Store
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		files:     p.Files,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// FormatNumber renders a counter value as an order number.
func FormatNumber(n int64) string {
	return fmt.Sprintf("%s%05d", numberPrefix, n)
}

// Create validates the request, assigns the next order number, stores the
// optional design/pattern files, and persists the order. The total is always
// recomputed from the size buckets; a client-supplied total that disagrees is
// rejected.
func (s *Service) Create(ctx context.Context, req dto.OrderRequest, designFile, patternFile *multipart.FileHeader) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create")
	defer span.End()

	if req.CustomerName == "" {
		return nil, errorbank.BadRequest("nama pemesan harus diisi")
	}
	sizeTotal := req.SizeTotal()
	if req.TotalOrder != 0 && req.TotalOrder != sizeTotal {
		return nil, errorbank.Unprocessable("total_order does not match size quantities")
	}

	counter, err := s.repo.NextNumber(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "counter error")
		return nil, errorbank.Internal("failed to generate order number", errorbank.WithCause(err))
	}

	design, err := s.saveUpload(designFile)
	if err != nil {
		return nil, err
	}
	pattern, err := s.saveUpload(patternFile)
	if err != nil {
		// The design file was stored already; drop it so nothing leaks.
		s.files.Remove(design)
		return nil, err
	}

	now := time.Now().UTC()
	order := &entity.Order{
		Number:         FormatNumber(counter),
		CustomerName:   req.CustomerName,
		OrderDate:      req.OrderDate,
		ProofDate:      req.ProofDate,
		CompletionDate: req.CompletionDate,
		CollarModel:    req.CollarModel,
		Fabric:         req.Fabric,
		Stitching:      req.Stitching,
		SizeXS:         req.SizeXS,
		SizeS:          req.SizeS,
		SizeM:          req.SizeM,
		SizeL:          req.SizeL,
		SizeXL:         req.SizeXL,
		SizeXXL:        req.SizeXXL,
		SizeXXXL:       req.SizeXXXL,
		TotalOrder:     sizeTotal,
		DesignFile:     design,
		PatternFile:    pattern,
		Note:           req.Note,
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		s.files.Remove(design)
		s.files.Remove(pattern)
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.invalidateStats(ctx)
	s.publishEvent(ctx, OrderCreatedEvent{
		Type:         EventOrderCreated,
		ID:           order.ID,
		Number:       order.Number,
		CustomerName: order.CustomerName,
		CreatedAt:    order.CreatedAt,
	}, fmt.Sprintf("order-%d", order.ID))

	return order, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
	}

	return order, nil
}

// List returns one page of orders with pagination metadata. Pages out of
// range come back empty, not as an error.
func (s *Service) List(ctx context.Context, search string, page int) ([]entity.Order, dto.Pagination, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List", trace.WithAttributes(attribute.Int("page", page)))
	defer span.End()

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	orders, total, err := s.repo.List(ctx, search, PageSize, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, dto.Pagination{}, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, dto.NewPagination(page, PageSize, total), nil
}

// Update replaces an order's mutable fields. New design/pattern uploads
// replace the stored files; the previous file is unlinked after the row
// update and unlink failures never fail the request.
func (s *Service) Update(ctx context.Context, id int64, req dto.OrderRequest, designFile, patternFile *multipart.FileHeader) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if req.CustomerName == "" {
		return nil, errorbank.BadRequest("nama pemesan harus diisi")
	}
	sizeTotal := req.SizeTotal()
	if req.TotalOrder != 0 && req.TotalOrder != sizeTotal {
		return nil, errorbank.Unprocessable("total_order does not match size quantities")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	oldDesign, oldPattern := order.DesignFile, order.PatternFile

	design, err := s.saveUpload(designFile)
	if err != nil {
		return nil, err
	}
	pattern, err := s.saveUpload(patternFile)
	if err != nil {
		s.files.Remove(design)
		return nil, err
	}

	order.CustomerName = req.CustomerName
	order.OrderDate = req.OrderDate
	order.ProofDate = req.ProofDate
	order.CompletionDate = req.CompletionDate
	order.CollarModel = req.CollarModel
	order.Fabric = req.Fabric
	order.Stitching = req.Stitching
	order.SizeXS = req.SizeXS
	order.SizeS = req.SizeS
	order.SizeM = req.SizeM
	order.SizeL = req.SizeL
	order.SizeXL = req.SizeXL
	order.SizeXXL = req.SizeXXL
	order.SizeXXXL = req.SizeXXXL
	order.TotalOrder = sizeTotal
	order.Note = req.Note
	order.Description = req.Description
	if design != "" {
		order.DesignFile = design
	}
	if pattern != "" {
		order.PatternFile = pattern
	}

	if err := s.repo.Update(ctx, order); err != nil {
		s.files.Remove(design)
		s.files.Remove(pattern)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	// Replaced files are unlinked only after the row update committed.
	if design != "" && oldDesign != "" {
		s.files.Remove(oldDesign)
	}
	if pattern != "" && oldPattern != "" {
		s.files.Remove(oldPattern)
	}

	s.invalidateCaches(ctx, id)
	return order, nil
}

// Delete removes an order; steps and assignments cascade in the database and
// the two reference files are unlinked afterwards.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("order not found")
		}
		return errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	s.files.Remove(order.DesignFile)
	s.files.Remove(order.PatternFile)
	s.invalidateCaches(ctx, id)
	return nil
}

// Stats returns dashboard aggregates, cached briefly.
func (s *Service) Stats(ctx context.Context) (dto.DashboardStats, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Stats")
	defer span.End()

	if raw, err := s.cache.Get(ctx, statsCacheKey); err == nil {
		var stats dto.DashboardStats
		if json.Unmarshal(raw, &stats) == nil {
			return stats, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.DashboardStats{}, errorbank.Internal("failed to load stats", errorbank.WithCause(err))
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// saveUpload stores an optional multipart file, mapping validation failures
// to request errors.
func (s *Service) saveUpload(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}
	name, err := s.files.Save(file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotAnImage), errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrBadName):
			return "", errorbank.BadRequest(err.Error())
		default:
			return "", errorbank.Internal("failed to store file", errorbank.WithCause(err))
		}
	}
	return name, nil
}

func (s *Service) invalidateCaches(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
	s.invalidateStats(ctx)
}

func (s *Service) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

func (s *Service) publishEvent(ctx context.Context, event any, key string) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(key), payload); err != nil {
		s.logger.Error("publish event", zap.Error(err))
	}
}
