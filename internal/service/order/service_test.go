package order

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/cache"
	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	repo "github.com/bmjaya/printworks/internal/repository/order"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) NextNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, search string, limit, offset int) ([]entity.Order, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]entity.Order), args.Int(1), args.Error(2)
}

func (m *mockRepository) Update(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) Stats(ctx context.Context) (dto.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.DashboardStats), args.Error(1)
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

// memoryCache is a map-backed cache.Store for tests.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func newTestService(r Repository, files *mockStore) *Service {
	return NewService(Params{
		Repository: r,
		Files:      files,
		Cache:      newMemoryCache(),
		Config: config.Config{
			Cache: config.Cache{DefaultTTL: time.Minute},
		},
		Logger:    zap.NewNop(),
		Publisher: nil,
	})
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "BM-00001", FormatNumber(1))
	assert.Equal(t, "BM-00042", FormatNumber(42))
	assert.Equal(t, "BM-123456", FormatNumber(123456))
}

func TestCreate_AssignsNumberAndTotal(t *testing.T) {
	repoMock := new(mockRepository)
	files := new(mockStore)
	svc := newTestService(repoMock, files)

	repoMock.On("NextNumber", mock.Anything).Return(int64(7), nil)
	repoMock.On("Create", mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)

	order, err := svc.Create(context.Background(), dto.OrderRequest{
		CustomerName: "Budi",
		SizeS:        3,
		SizeM:        5,
	}, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, "BM-00007", order.Number)
	assert.Equal(t, 8, order.TotalOrder)
	repoMock.AssertExpectations(t)
	files.AssertNotCalled(t, "Save")
}

func TestCreate_RequiresCustomerName(t *testing.T) {
	svc := newTestService(new(mockRepository), new(mockStore))

	_, err := svc.Create(context.Background(), dto.OrderRequest{}, nil, nil)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestCreate_RejectsMismatchedTotal(t *testing.T) {
	svc := newTestService(new(mockRepository), new(mockStore))

	_, err := svc.Create(context.Background(), dto.OrderRequest{
		CustomerName: "Budi",
		SizeS:        2,
		TotalOrder:   5,
	}, nil, nil)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())
}

func TestGet_NotFound(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	repoMock.On("GetByID", mock.Anything, int64(99)).Return(nil, repo.ErrNotFound)

	_, err := svc.Get(context.Background(), 99)

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestGet_SecondCallServedFromCache(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	stored := &entity.Order{ID: 5, Number: "BM-00005", CustomerName: "Siti"}
	repoMock.On("GetByID", mock.Anything, int64(5)).Return(stored, nil).Once()

	first, err := svc.Get(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, "BM-00005", first.Number)

	second, err := svc.Get(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, "BM-00005", second.Number)

	repoMock.AssertExpectations(t)
}

func TestList_ClampsPage(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	repoMock.On("List", mock.Anything, "", PageSize, 0).Return([]entity.Order{}, 0, nil)

	_, pagination, err := svc.List(context.Background(), "", 0)

	assert.NoError(t, err)
	assert.Equal(t, 1, pagination.CurrentPage)
	repoMock.AssertExpectations(t)
}

func TestDelete_RemovesStoredFiles(t *testing.T) {
	repoMock := new(mockRepository)
	files := new(mockStore)
	svc := newTestService(repoMock, files)

	stored := &entity.Order{ID: 3, DesignFile: "design.png", PatternFile: "pattern.png"}
	repoMock.On("GetByID", mock.Anything, int64(3)).Return(stored, nil)
	repoMock.On("Delete", mock.Anything, int64(3)).Return(nil)
	files.On("Remove", "design.png").Return()
	files.On("Remove", "pattern.png").Return()

	err := svc.Delete(context.Background(), 3)

	assert.NoError(t, err)
	repoMock.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestStats_CachedAfterFirstLoad(t *testing.T) {
	repoMock := new(mockRepository)
	svc := newTestService(repoMock, new(mockStore))

	repoMock.On("Stats", mock.Anything).
		Return(dto.DashboardStats{TotalOrders: 12, PendingOrders: 4}, nil).Once()

	first, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 12, first.TotalOrders)

	second, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 12, second.TotalOrders)

	repoMock.AssertExpectations(t)
}
