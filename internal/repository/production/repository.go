package production

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bmjaya/printworks/internal/database"
	"github.com/bmjaya/printworks/internal/entity"
)

var repoTracer = otel.Tracer("github.com/bmjaya/printworks/repository/production")

// ErrNotFound is returned when a production step is missing.
var ErrNotFound = errors.New("production step not found")

// Repository encapsulates read/write access for production steps and their
// employee assignments.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// OrderExists reports whether an order row exists.
func (r *Repository) OrderExists(ctx context.Context, orderID int64) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "ProductionRepository.OrderExists", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	exists, err := r.reader.NewSelect().Model((*entity.Order)(nil)).Where("id = ?", orderID).Exists(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exists failed")
		return false, err
	}
	return exists, nil
}

// Init inserts the given steps with insert-if-absent semantics keyed on
// (order_id, step_number). Re-running it never duplicates rows.
func (r *Repository) Init(ctx context.Context, steps []entity.ProductionStep) error {
	ctx, span := repoTracer.Start(ctx, "ProductionRepository.Init", trace.WithAttributes(attribute.Int("steps", len(steps))))
	defer span.End()

	for i := range steps {
		step := steps[i]
		_, err := r.writer.NewInsert().Model(&step).
			On("CONFLICT (order_id, step_number) DO NOTHING").
			Exec(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert failed")
			return err
		}
	}
	return nil
}

// ListByOrder returns all steps of an order with assigned employees, ordered
// by step number.
func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]entity.ProductionStep, error) {
	ctx, span := repoTracer.Start(ctx, "ProductionRepository.ListByOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	var steps []entity.ProductionStep
	err := r.reader.NewSelect().Model(&steps).
		Relation("Employees").
		Where("order_id = ?", orderID).
		Order("step_number ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return steps, nil
}

// GetStep fetches one step of an order by step number, with employees.
func (r *Repository) GetStep(ctx context.Context, orderID int64, stepNumber int) (*entity.ProductionStep, error) {
	ctx, span := repoTracer.Start(ctx, "ProductionRepository.GetStep", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int("step.number", stepNumber),
	))
	defer span.End()

	step := new(entity.ProductionStep)
	err := r.reader.NewSelect().Model(step).
		Relation("Employees").
		Where("order_id = ?", orderID).
		Where("step_number = ?", stepNumber).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return step, nil
}

// UpdateStep replaces the mutable columns of a step in place. Step name and
// number are immutable once initialized.
func (r *Repository) UpdateStep(ctx context.Context, step *entity.ProductionStep) error {
	if step == nil {
		return errors.New("nil step")
	}
	ctx, span := repoTracer.Start(ctx, "ProductionRepository.UpdateStep", trace.WithAttributes(attribute.Int64("step.id", step.ID)))
	defer span.End()

	step.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().
		Model(step).
		Column("tanggal", "status", "catatan", "berat_sebelum", "berat_sesudah", "jenis_jahit", "harga_jahit", "photos", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePhotos replaces only the serialized photo list of a step.
func (r *Repository) UpdatePhotos(ctx context.Context, stepID int64, photos []string) error {
	ctx, span := repoTracer.Start(ctx, "ProductionRepository.UpdatePhotos", trace.WithAttributes(attribute.Int64("step.id", stepID)))
	defer span.End()

	if photos == nil {
		photos = []string{}
	}
	res, err := r.writer.NewUpdate().
		Model(&entity.ProductionStep{ID: stepID, Photos: photos}).
		Column("photos").
		Set("updated_at = ?", time.Now().UTC()).
		WherePK().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAssignments swaps the full employee assignment set of a step:
// delete-all then insert-selected, never diffed.
func (r *Repository) ReplaceAssignments(ctx context.Context, stepID int64, employeeIDs []int64) error {
	ctx, span := repoTracer.Start(ctx, "ProductionRepository.ReplaceAssignments", trace.WithAttributes(
		attribute.Int64("step.id", stepID),
		attribute.Int("employees", len(employeeIDs)),
	))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*entity.ProductionStepEmployee)(nil)).
			Where("production_step_id = ?", stepID).
			Exec(ctx); err != nil {
			return err
		}
		if len(employeeIDs) == 0 {
			return nil
		}
		assignments := make([]entity.ProductionStepEmployee, 0, len(employeeIDs))
		for _, id := range employeeIDs {
			if id == 0 {
				continue
			}
			assignments = append(assignments, entity.ProductionStepEmployee{StepID: stepID, EmployeeID: id})
		}
		if len(assignments) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&assignments).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace failed")
	}
	return err
}
