package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	repo "github.com/bmjaya/printworks/internal/repository/employee"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, employee *entity.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*entity.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, search string, limit, offset int) ([]entity.Employee, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]entity.Employee), args.Int(1), args.Error(2)
}

func (m *mockRepository) Update(ctx context.Context, employee *entity.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(r Repository) *Service {
	return NewService(Params{Repository: r, Logger: zap.NewNop()})
}

func TestCreate_Success(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock)

	repoMock.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.Employee) bool {
		return e.Name == "Budi Santoso" && e.Status == entity.EmployeeStatusAktif
	})).Return(nil)

	employee, err := svc.Create(context.Background(), dto.EmployeeRequest{Name: "Budi Santoso"})

	assert.NoError(t, err)
	assert.Equal(t, entity.EmployeeStatusAktif, employee.Status)
	repoMock.AssertExpectations(t)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := newTestService(new(mockRepository))

	_, err := svc.Create(context.Background(), dto.EmployeeRequest{})

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	assert.Contains(t, errorbank.From(err).Message(), "nama karyawan harus diisi")
}

func TestCreate_DuplicateName(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock)

	repoMock.On("Create", mock.Anything, mock.AnythingOfType("*entity.Employee")).
		Return(repo.ErrDuplicate)

	_, err := svc.Create(context.Background(), dto.EmployeeRequest{Name: "Budi Santoso"})

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
}

func TestCreate_NormalizesStatus(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock)

	repoMock.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.Employee) bool {
		return e.Status == entity.EmployeeStatusAktif
	})).Return(nil)

	_, err := svc.Create(context.Background(), dto.EmployeeRequest{Name: "Siti", Status: "whatever"})

	assert.NoError(t, err)
	repoMock.AssertExpectations(t)
}

func TestGet_NotFound(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock)

	repoMock.On("GetByID", mock.Anything, int64(42)).Return(nil, repo.ErrNotFound)

	_, err := svc.Get(context.Background(), 42)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	assert.Contains(t, errorbank.From(err).Message(), "karyawan tidak ditemukan")
}

func TestList_ClampsPage(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock)

	repoMock.On("List", mock.Anything, "budi", PageSize, 0).Return([]entity.Employee{}, 0, nil)

	_, pagination, err := svc.List(context.Background(), "budi", -3)

	assert.NoError(t, err)
	assert.Equal(t, 1, pagination.CurrentPage)
	repoMock.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock)

	repoMock.On("Update", mock.Anything, mock.AnythingOfType("*entity.Employee")).
		Return(repo.ErrNotFound)

	_, err := svc.Update(context.Background(), 42, dto.EmployeeRequest{Name: "Budi"})

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestDelete_NotFound(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock)

	repoMock.On("Delete", mock.Anything, int64(42)).Return(repo.ErrNotFound)

	err := svc.Delete(context.Background(), 42)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
