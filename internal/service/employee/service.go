package employee

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	repo "github.com/bmjaya/printworks/internal/repository/employee"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/bmjaya/printworks/service/employee")

// PageSize is the fixed page size for employee listings.
const PageSize = 10

// Repository is the employee persistence the service depends on.
type Repository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id int64) (*entity.Employee, error)
	List(ctx context.Context, search string, limit, offset int) ([]entity.Employee, int, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id int64) error
}

// Service encapsulates business logic around employees.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{repo: p.Repository, logger: p.Logger}
}

// Create adds a new employee. Name is required and unique.
func (s *Service) Create(ctx context.Context, req dto.EmployeeRequest) (*entity.Employee, error) {
	ctx, span := serviceTracer.Start(ctx, "EmployeeService.Create")
	defer span.End()

	if req.Name == "" {
		return nil, errorbank.BadRequest("nama karyawan harus diisi")
	}

	employee := &entity.Employee{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Status:  normalizeStatus(req.Status),
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, errorbank.Conflict("nama karyawan sudah terdaftar")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create employee", errorbank.WithCause(err))
	}
	return employee, nil
}

// Get fetches a single employee.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Employee, error) {
	ctx, span := serviceTracer.Start(ctx, "EmployeeService.Get", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("karyawan tidak ditemukan")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load employee", errorbank.WithCause(err))
	}
	return employee, nil
}

// List returns one page of employees with pagination metadata.
func (s *Service) List(ctx context.Context, search string, page int) ([]entity.Employee, dto.Pagination, error) {
	ctx, span := serviceTracer.Start(ctx, "EmployeeService.List", trace.WithAttributes(attribute.Int("page", page)))
	defer span.End()

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	employees, total, err := s.repo.List(ctx, search, PageSize, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, dto.Pagination{}, errorbank.Internal("failed to list employees", errorbank.WithCause(err))
	}
	return employees, dto.NewPagination(page, PageSize, total), nil
}

// Update replaces an employee's profile fields.
func (s *Service) Update(ctx context.Context, id int64, req dto.EmployeeRequest) (*entity.Employee, error) {
	ctx, span := serviceTracer.Start(ctx, "EmployeeService.Update", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	if req.Name == "" {
		return nil, errorbank.BadRequest("nama karyawan harus diisi")
	}

	employee := &entity.Employee{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Status:  normalizeStatus(req.Status),
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, errorbank.NotFound("karyawan tidak ditemukan")
		case errors.Is(err, repo.ErrDuplicate):
			return nil, errorbank.Conflict("nama karyawan sudah terdaftar")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update employee", errorbank.WithCause(err))
	}
	return employee, nil
}

// Delete removes an employee.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "EmployeeService.Delete", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("karyawan tidak ditemukan")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete employee", errorbank.WithCause(err))
	}
	return nil
}

func normalizeStatus(status string) string {
	if status == entity.EmployeeStatusNonaktif {
		return entity.EmployeeStatusNonaktif
	}
	return entity.EmployeeStatusAktif
}
