package production

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

	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	"github.com/bmjaya/printworks/internal/messaging"
	repo "github.com/bmjaya/printworks/internal/repository/production"
	"github.com/bmjaya/printworks/internal/storage"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/bmjaya/printworks/service/production")

// Repository is the production persistence the service depends on.
type Repository interface {
	OrderExists(ctx context.Context, orderID int64) (bool, error)
	Init(ctx context.Context, steps []entity.ProductionStep) error
	ListByOrder(ctx context.Context, orderID int64) ([]entity.ProductionStep, error)
	GetStep(ctx context.Context, orderID int64, stepNumber int) (*entity.ProductionStep, error)
	UpdateStep(ctx context.Context, step *entity.ProductionStep) error
	UpdatePhotos(ctx context.Context, stepID int64, photos []string) error
	ReplaceAssignments(ctx context.Context, stepID int64, employeeIDs []int64) error
}

// Service encapsulates the nine-stage production pipeline workflow.
type Service struct {
	repo      Repository
	files     storage.Store
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Files      storage.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		files:     p.Files,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Init creates the nine fixed steps for an order. It is idempotent: steps
// already present are left untouched, so running it twice never yields
// eighteen rows.
func (s *Service) Init(ctx context.Context, orderID int64) error {
	ctx, span := serviceTracer.Start(ctx, "ProductionService.Init", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	exists, err := s.repo.OrderExists(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to check order", errorbank.WithCause(err))
	}
	if !exists {
		return errorbank.NotFound("order not found")
	}

	now := time.Now().UTC()
	steps := make([]entity.ProductionStep, 0, entity.StepCount)
	for _, def := range entity.StepCatalog {
		steps = append(steps, entity.ProductionStep{
			OrderID:    orderID,
			StepNumber: def.Number,
			StepName:   def.Name,
			Status:     entity.StepStatusPending,
			Photos:     []string{},
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	if err := s.repo.Init(ctx, steps); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to initialize production steps", errorbank.WithCause(err))
	}
	return nil
}

// List returns all steps of an order with assigned employees.
func (s *Service) List(ctx context.Context, orderID int64) ([]entity.ProductionStep, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductionService.List", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	steps, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list production steps", errorbank.WithCause(err))
	}
	return steps, nil
}

// Get fetches a single step by order and step number.
func (s *Service) Get(ctx context.Context, orderID int64, stepNumber int) (*entity.ProductionStep, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductionService.Get", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int("step.number", stepNumber),
	))
	defer span.End()

	step, err := s.repo.GetStep(ctx, orderID, stepNumber)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("production step not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load production step", errorbank.WithCause(err))
	}
	return step, nil
}

// Update replaces a step's mutable fields wholesale, appends uploaded photos,
// removes requested photos from list and disk, and — when an employee list is
// supplied — swaps the full assignment set.
func (s *Service) Update(ctx context.Context, orderID int64, stepNumber int, req dto.StepUpdateRequest, photos []*multipart.FileHeader) (*entity.ProductionStep, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductionService.Update", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int("step.number", stepNumber),
	))
	defer span.End()

	status := req.Status
	if status == "" {
		status = entity.StepStatusPending
	}
	if status != entity.StepStatusPending && status != entity.StepStatusSelesai {
		return nil, errorbank.BadRequest("status must be pending or selesai")
	}

	step, err := s.repo.GetStep(ctx, orderID, stepNumber)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("production step not found")
		}
		return nil, errorbank.Internal("failed to load production step", errorbank.WithCause(err))
	}

	list := append([]string{}, step.Photos...)
	saved := make([]string, 0, len(photos))
	for _, photo := range photos {
		name, err := s.saveUpload(photo)
		if err != nil {
			for _, n := range saved {
				s.files.Remove(n)
			}
			return nil, err
		}
		saved = append(saved, name)
		list = append(list, name)
	}

	list = s.removePhotos(list, req.DeletePhotos)

	step.WorkDate = req.WorkDate
	step.Status = status
	step.Note = req.Note
	step.WeightBefore = req.WeightBefore
	step.WeightAfter = req.WeightAfter
	step.StitchType = req.StitchType
	step.StitchPrice = req.StitchPrice
	step.Photos = list
	step.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateStep(ctx, step); err != nil {
		for _, n := range saved {
			s.files.Remove(n)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("production step not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update production step", errorbank.WithCause(err))
	}

	if req.EmployeeIDs != nil {
		if err := s.repo.ReplaceAssignments(ctx, step.ID, req.EmployeeIDs); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to assign employees", errorbank.WithCause(err))
		}
	}

	s.publishStepUpdated(ctx, step)

	// Re-read so the response reflects the stored assignment set.
	updated, err := s.repo.GetStep(ctx, orderID, stepNumber)
	if err != nil {
		return step, nil
	}
	return updated, nil
}

// DeletePhoto removes one named photo from a step's list and unlinks the
// file. A name not present in the list is a silent no-op for the list.
func (s *Service) DeletePhoto(ctx context.Context, orderID int64, stepNumber int, name string) error {
	ctx, span := serviceTracer.Start(ctx, "ProductionService.DeletePhoto", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int("step.number", stepNumber),
	))
	defer span.End()

	step, err := s.repo.GetStep(ctx, orderID, stepNumber)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("production step not found")
		}
		return errorbank.Internal("failed to load production step", errorbank.WithCause(err))
	}

	remaining := s.removePhotos(step.Photos, []string{name})
	if err := s.repo.UpdatePhotos(ctx, step.ID, remaining); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update photo list", errorbank.WithCause(err))
	}
	return nil
}

// removePhotos filters targets out of the list and unlinks them, preserving
// the order of the remaining entries.
func (s *Service) removePhotos(list, targets []string) []string {
	if len(targets) == 0 {
		if list == nil {
			return []string{}
		}
		return list
	}
	drop := make(map[string]bool, len(targets))
	for _, t := range targets {
		if t == "" {
			continue
		}
		drop[t] = true
		s.files.Remove(t)
	}
	remaining := make([]string, 0, len(list))
	for _, p := range list {
		if !drop[p] {
			remaining = append(remaining, p)
		}
	}
	return remaining
}

func (s *Service) saveUpload(file *multipart.FileHeader) (string, error) {
	name, err := s.files.Save(file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotAnImage), errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrBadName):
			return "", errorbank.BadRequest(err.Error())
		default:
			return "", errorbank.Internal("failed to store photo", errorbank.WithCause(err))
		}
	}
	return name, nil
}

func (s *Service) publishStepUpdated(ctx context.Context, step *entity.ProductionStep) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := StepUpdatedEvent{
		Type:       EventStepUpdated,
		OrderID:    step.OrderID,
		StepNumber: step.StepNumber,
		StepName:   step.StepName,
		Status:     step.Status,
		UpdatedAt:  step.UpdatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal step event", zap.Error(err))
		return
	}
	key := fmt.Sprintf("order-%d-step-%d", step.OrderID, step.StepNumber)
	if err := s.publisher.Publish(ctx, []byte(key), payload); err != nil {
		s.logger.Error("publish step event", zap.Error(err))
	}
}

// EventStepUpdated discriminates step update payloads on the shared topic.
const EventStepUpdated = "production.step.updated"

// StepUpdatedEvent is emitted after a production step update commits.
type StepUpdatedEvent struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	StepNumber int       `json:"step_number"`
	StepName   string    `json:"step_name"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}
