package production

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	repo "github.com/bmjaya/printworks/internal/repository/production"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) OrderExists(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Init(ctx context.Context, steps []entity.ProductionStep) error {
	args := m.Called(ctx, steps)
	return args.Error(0)
}

func (m *mockRepository) ListByOrder(ctx context.Context, orderID int64) ([]entity.ProductionStep, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductionStep), args.Error(1)
}

func (m *mockRepository) GetStep(ctx context.Context, orderID int64, stepNumber int) (*entity.ProductionStep, error) {
	args := m.Called(ctx, orderID, stepNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductionStep), args.Error(1)
}

func (m *mockRepository) UpdateStep(ctx context.Context, step *entity.ProductionStep) error {
	args := m.Called(ctx, step)
	return args.Error(0)
}

func (m *mockRepository) UpdatePhotos(ctx context.Context, stepID int64, photos []string) error {
	args := m.Called(ctx, stepID, photos)
	return args.Error(0)
}

func (m *mockRepository) ReplaceAssignments(ctx context.Context, stepID int64, employeeIDs []int64) error {
	args := m.Called(ctx, stepID, employeeIDs)
	return args.Error(0)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(file *multipart.FileHeader) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Remove(name string) {
	m.Called(name)
}

func newTestService(r Repository, files *mockStore) *Service {
	return NewService(Params{
		Repository: r,
		Files:      files,
		Config:     config.Config{},
		Logger:     zap.NewNop(),
		Publisher:  nil,
	})
}

func TestInit_CreatesNineSteps(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	repoMock.On("OrderExists", mock.Anything, int64(1)).Return(true, nil)
	repoMock.On("Init", mock.Anything, mock.MatchedBy(func(steps []entity.ProductionStep) bool {
		if len(steps) != entity.StepCount {
			return false
		}
		return steps[0].StepName == "Desain" &&
			steps[2].StepName == "Potong Kain Jersey" &&
			steps[8].StepName == "Packing & QC" &&
			steps[0].Status == entity.StepStatusPending
	})).Return(nil)

	err := svc.Init(context.Background(), 1)

	assert.NoError(t, err)
	repoMock.AssertExpectations(t)
}

func TestInit_UnknownOrder(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	repoMock.On("OrderExists", mock.Anything, int64(77)).Return(false, nil)

	err := svc.Init(context.Background(), 77)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	repoMock.AssertNotCalled(t, "Init")
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(new(mockRepository), new(mockStore))

	_, err := svc.Update(context.Background(), 1, 2, dto.StepUpdateRequest{Status: "done"}, nil)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestUpdate_ReplacesAssignmentsOnlyWhenProvided(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	step := &entity.ProductionStep{ID: 10, OrderID: 1, StepNumber: 2, Status: entity.StepStatusPending}
	repoMock.On("GetStep", mock.Anything, int64(1), 2).Return(step, nil)
	repoMock.On("UpdateStep", mock.Anything, mock.AnythingOfType("*entity.ProductionStep")).Return(nil)

	_, err := svc.Update(context.Background(), 1, 2, dto.StepUpdateRequest{Status: "pending"}, nil)

	assert.NoError(t, err)
	repoMock.AssertNotCalled(t, "ReplaceAssignments")
}

func TestUpdate_ReplacesAssignments(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	step := &entity.ProductionStep{ID: 10, OrderID: 1, StepNumber: 8, Status: entity.StepStatusPending}
	repoMock.On("GetStep", mock.Anything, int64(1), 8).Return(step, nil)
	repoMock.On("UpdateStep", mock.Anything, mock.AnythingOfType("*entity.ProductionStep")).Return(nil)
	repoMock.On("ReplaceAssignments", mock.Anything, int64(10), []int64{4, 5}).Return(nil)

	_, err := svc.Update(context.Background(), 1, 8, dto.StepUpdateRequest{
		Status:      "selesai",
		EmployeeIDs: []int64{4, 5},
	}, nil)

	assert.NoError(t, err)
	repoMock.AssertExpectations(t)
}

func TestUpdate_RemovesDeletedPhotos(t *testing.T) {
	repoMock := new(mockRepository)
	files := new(mockStore)
	svc := newTestService(repoMock, files)

	step := &entity.ProductionStep{
		ID:         10,
		OrderID:    1,
		StepNumber: 6,
		Status:     entity.StepStatusPending,
		Photos:     []string{"a.jpg", "b.jpg", "c.jpg"},
	}
	repoMock.On("GetStep", mock.Anything, int64(1), 6).Return(step, nil)
	repoMock.On("UpdateStep", mock.Anything, mock.MatchedBy(func(s *entity.ProductionStep) bool {
		return len(s.Photos) == 2 && s.Photos[0] == "a.jpg" && s.Photos[1] == "c.jpg"
	})).Return(nil)
	files.On("Remove", "b.jpg").Return()

	_, err := svc.Update(context.Background(), 1, 6, dto.StepUpdateRequest{
		Status:       "pending",
		DeletePhotos: []string{"b.jpg"},
	}, nil)

	assert.NoError(t, err)
	repoMock.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestGet_NotFound(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	repoMock.On("GetStep", mock.Anything, int64(9), 1).Return(nil, repo.ErrNotFound)

	_, err := svc.Get(context.Background(), 9, 1)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestDeletePhoto_AbsentNameIsNoOp(t *testing.T) {
	repoMock := new(mockRepository)
	files := new(mockStore)
	svc := newTestService(repoMock, files)

	step := &entity.ProductionStep{ID: 4, OrderID: 2, StepNumber: 1, Photos: []string{"keep.jpg"}}
	repoMock.On("GetStep", mock.Anything, int64(2), 1).Return(step, nil)
	repoMock.On("UpdatePhotos", mock.Anything, int64(4), []string{"keep.jpg"}).Return(nil)
	files.On("Remove", "gone.jpg").Return()

	err := svc.DeletePhoto(context.Background(), 2, 1, "gone.jpg")

	assert.NoError(t, err)
	repoMock.AssertExpectations(t)
}
