package events

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/messaging"
	ordersvc "github.com/bmjaya/printworks/internal/service/order"
	productionsvc "github.com/bmjaya/printworks/internal/service/production"
	"github.com/bmjaya/printworks/internal/worker"
)

var workerTracer = otel.Tracer("github.com/bmjaya/printworks/worker/events")

// Module registers the domain event worker handler.
var Module = fx.Module("worker_events",
	fx.Provide(
		fx.Annotate(
			NewEventHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// envelope peeks at the shared type discriminator before full decoding.
type envelope struct {
	Type string `json:"type"`
}

// NewEventHandler sets up a worker handler that consumes order and
// production events from the shared topic and logs them.
func NewEventHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.events.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var env envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			logger.Error("failed to decode event envelope", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(attribute.String("event.type", env.Type))

		switch env.Type {
		case ordersvc.EventOrderCreated:
			var event ordersvc.OrderCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Error("failed to decode order created", zap.Error(err))

				span.RecordError(err)
				span.SetStatus(codes.Error, "decode error")
				return err
			}
			logger.Info("order created event processed",
				zap.Int64("id", event.ID),
				zap.String("no_order", event.Number),
				zap.String("nama_pemesan", event.CustomerName),
			)
		case productionsvc.EventStepUpdated:
			var event productionsvc.StepUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Error("failed to decode step updated", zap.Error(err))

				span.RecordError(err)
				span.SetStatus(codes.Error, "decode error")
				return err
			}
			logger.Info("production step event processed",
				zap.Int64("order_id", event.OrderID),
				zap.Int("step_number", event.StepNumber),
				zap.String("status", event.Status),
			)
		default:
			logger.Warn("unknown event type", zap.String("type", env.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
