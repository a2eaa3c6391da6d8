package employee

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bmjaya/printworks/internal/database"
	"github.com/bmjaya/printworks/internal/entity"
)

var repoTracer = otel.Tracer("github.com/bmjaya/printworks/repository/employee")

// Sentinel errors surfaced to the service layer.
var (
	ErrNotFound  = errors.New("employee not found")
	ErrDuplicate = errors.New("employee already exists")
)

// Repository encapsulates read/write access for employees.
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

// Create persists a new employee. Duplicate names map to ErrDuplicate.
func (r *Repository) Create(ctx context.Context, employee *entity.Employee) error {
	if employee == nil {
		return errors.New("nil employee")
	}
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.Create", trace.WithAttributes(attribute.String("employee.name", employee.Name)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(employee).Exec(ctx)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

// GetByID fetches an employee by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Employee, error) {
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.GetByID", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	employee := new(entity.Employee)
	err := r.reader.NewSelect().Model(employee).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return employee, nil
}

// GetByUsername fetches an employee holding the given login username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.GetByUsername")
	defer span.End()

	employee := new(entity.Employee)
	err := r.reader.NewSelect().Model(employee).Where("username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return employee, nil
}

// List returns one page of employees plus the filtered total count. The
// search term matches name, phone, and email case-insensitively.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]entity.Employee, int, error) {
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.List", trace.WithAttributes(attribute.String("search", search)))
	defer span.End()

	var employees []entity.Employee
	q := r.reader.NewSelect().Model(&employees)

	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(nama) LIKE ?", pattern).
				WhereOr("LOWER(no_telpon) LIKE ?", pattern).
				WhereOr("LOWER(email) LIKE ?", pattern)
		})
	}

	total, err := q.Order("nama ASC").Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, 0, err
	}
	return employees, total, nil
}

// Update replaces the mutable profile columns of an employee. Credentials are
// managed separately via SetCredentials.
func (r *Repository) Update(ctx context.Context, employee *entity.Employee) error {
	if employee == nil {
		return errors.New("nil employee")
	}
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.Update", trace.WithAttributes(attribute.Int64("employee.id", employee.ID)))
	defer span.End()

	employee.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().
		Model(employee).
		Column("nama", "no_telpon", "email", "alamat", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an employee; step assignments cascade via foreign keys.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.Delete", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Employee)(nil)).Where("id = ?", id).Exec(ctx)
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

// ListWithoutCredentials returns employees that cannot log in yet.
func (r *Repository) ListWithoutCredentials(ctx context.Context) ([]entity.Employee, error) {
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.ListWithoutCredentials")
	defer span.End()

	var employees []entity.Employee
	err := r.reader.NewSelect().Model(&employees).
		Where("username IS NULL OR username = ''").
		Order("nama ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return employees, nil
}

// SetCredentials stores login credentials for an employee.
func (r *Repository) SetCredentials(ctx context.Context, id int64, username, passwordHash, role string) error {
	ctx, span := repoTracer.Start(ctx, "EmployeeRepository.SetCredentials", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Employee)(nil)).
		Set("username = ?", username).
		Set("password = ?", passwordHash).
		Set("role = ?", role).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateErr recognises unique constraint violations across the
// supported drivers.
func isDuplicateErr(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
