package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bmjaya/printworks/internal/database"
	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
)

var repoTracer = otel.Tracer("github.com/bmjaya/printworks/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Repository encapsulates read/write access for orders and the order counter.
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

// NextNumber atomically increments the shared counter and returns the new
// value. On postgres/sqlite this is a single UPDATE ... RETURNING; mysql
// lacks RETURNING so the row is locked inside a transaction instead.
func (r *Repository) NextNumber(ctx context.Context) (int64, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.NextNumber")
	defer span.End()

	if r.writer.Dialect().Name() == dialect.MySQL {
		return r.nextNumberLocked(ctx)
	}

	var current int64
	_, err := r.writer.NewUpdate().
		Model((*entity.OrderCounter)(nil)).
		Set("current_number = current_number + 1").
		Where("id = ?", 1).
		Returning("current_number").
		Exec(ctx, &current)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "counter update failed")
		return 0, err
	}
	return current, nil
}

func (r *Repository) nextNumberLocked(ctx context.Context) (int64, error) {
	var current int64
	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		counter := new(entity.OrderCounter)
		if err := tx.NewSelect().Model(counter).Where("id = ?", 1).For("UPDATE").Scan(ctx); err != nil {
			return err
		}
		counter.CurrentNumber++
		current = counter.CurrentNumber
		_, err := tx.NewUpdate().Model(counter).Column("current_number").WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return current, nil
}

// Create persists a new order using the write connection.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an order by primary key using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns one page of orders plus the filtered total count. The search
// term matches order number and customer name case-insensitively.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]entity.Order, int, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List", trace.WithAttributes(attribute.String("search", search)))
	defer span.End()

	var orders []entity.Order
	q := r.reader.NewSelect().Model(&orders)

	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(no_order) LIKE ?", pattern).
				WhereOr("LOWER(nama_pemesan) LIKE ?", pattern)
		})
	}

	total, err := q.Order("created_at DESC").Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, 0, err
	}
	return orders, total, nil
}

// Update replaces the mutable columns of an order.
func (r *Repository) Update(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Update", trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	order.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().
		Model(order).
		ExcludeColumn("no_order", "created_at").
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

// Delete removes an order. Production steps and assignments cascade via
// foreign keys.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates dashboard counts. Pending means no completion date.
func (r *Repository) Stats(ctx context.Context) (dto.DashboardStats, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Stats")
	defer span.End()

	var stats dto.DashboardStats
	var err error

	if stats.TotalOrders, err = r.reader.NewSelect().Model((*entity.Order)(nil)).Count(ctx); err != nil {
		return stats, fmt.Errorf("count total: %w", err)
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if stats.TodayOrders, err = r.reader.NewSelect().Model((*entity.Order)(nil)).
		Where("created_at >= ?", startOfDay).Count(ctx); err != nil {
		return stats, fmt.Errorf("count today: %w", err)
	}

	if stats.PendingOrders, err = r.reader.NewSelect().Model((*entity.Order)(nil)).
		Where("tanggal_selesai IS NULL").Count(ctx); err != nil {
		return stats, fmt.Errorf("count pending: %w", err)
	}

	if stats.CompletedOrders, err = r.reader.NewSelect().Model((*entity.Order)(nil)).
		Where("tanggal_selesai IS NOT NULL").Count(ctx); err != nil {
		return stats, fmt.Errorf("count completed: %w", err)
	}

	return stats, nil
}
