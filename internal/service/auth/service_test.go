package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	employeerepo "github.com/bmjaya/printworks/internal/repository/employee"
	userrepo "github.com/bmjaya/printworks/internal/repository/user"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) GetByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) ListWithoutCredentials(ctx context.Context) ([]entity.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) SetCredentials(ctx context.Context, id int64, username, passwordHash, role string) error {
	args := m.Called(ctx, id, username, passwordHash, role)
	return args.Error(0)
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.Auth{
			Secret:     "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func newTestService(admins AdminRepository, employees EmployeeRepository) *Service {
	cfg := testConfig()
	return NewService(Params{
		Admins:    admins,
		Employees: employees,
		Tokens:    NewTokenManager(cfg),
		Config:    cfg,
		Logger:    zap.NewNop(),
	})
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestLogin_AdminSuccess(t *testing.T) {
	admins := new(mockAdminRepo)
	employees := new(mockEmployeeRepo)
	svc := newTestService(admins, employees)

	admins.On("GetByUsername", mock.Anything, "admin").
		Return(&entity.User{ID: 1, Username: "admin", Password: hashPassword(t, "admin123")}, nil)

	result, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "admin", result.User.Role)
	employees.AssertNotCalled(t, "GetByUsername")
}

func TestLogin_EmployeeSuccess(t *testing.T) {
	admins := new(mockAdminRepo)
	employees := new(mockEmployeeRepo)
	svc := newTestService(admins, employees)

	admins.On("GetByUsername", mock.Anything, "budisantoso").Return(nil, userrepo.ErrNotFound)
	employees.On("GetByUsername", mock.Anything, "budisantoso").
		Return(&entity.Employee{
			ID:       4,
			Name:     "Budi Santoso",
			Username: "budisantoso",
			Password: hashPassword(t, "rahasia"),
		}, nil)

	result, err := svc.Login(context.Background(), dto.LoginRequest{Username: "budisantoso", Password: "rahasia"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "karyawan", result.User.Role)
	assert.Equal(t, "Budi Santoso", result.User.Name)
}

func TestLogin_WrongPassword(t *testing.T) {
	admins := new(mockAdminRepo)
	employees := new(mockEmployeeRepo)
	svc := newTestService(admins, employees)

	admins.On("GetByUsername", mock.Anything, "admin").
		Return(&entity.User{ID: 1, Username: "admin", Password: hashPassword(t, "admin123")}, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "wrong"})

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindUnauthorized, errorbank.From(err).Kind())
}

func TestLogin_UnknownUser(t *testing.T) {
	admins := new(mockAdminRepo)
	employees := new(mockEmployeeRepo)
	svc := newTestService(admins, employees)

	admins.On("GetByUsername", mock.Anything, "ghost").Return(nil, userrepo.ErrNotFound)
	employees.On("GetByUsername", mock.Anything, "ghost").Return(nil, employeerepo.ErrNotFound)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindUnauthorized, errorbank.From(err).Kind())
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newTestService(new(mockAdminRepo), new(mockEmployeeRepo))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin"})

	assert.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestProvisionLogins_GeneratesCredentials(t *testing.T) {
	admins := new(mockAdminRepo)
	employees := new(mockEmployeeRepo)
	svc := newTestService(admins, employees)

	employees.On("ListWithoutCredentials", mock.Anything).
		Return([]entity.Employee{{ID: 4, Name: "Budi Santoso"}}, nil)
	employees.On("SetCredentials", mock.Anything, int64(4), "budisantoso", mock.AnythingOfType("string"), "karyawan").
		Return(nil)

	logins, err := svc.ProvisionLogins(context.Background())

	assert.NoError(t, err)
	assert.Len(t, logins, 1)
	assert.Equal(t, "budisantoso", logins[0].Username)
	assert.Contains(t, logins[0].Password, "budisantoso")
	employees.AssertExpectations(t)
}

func TestProvisionLogins_SkipsTakenUsernames(t *testing.T) {
	admins := new(mockAdminRepo)
	employees := new(mockEmployeeRepo)
	svc := newTestService(admins, employees)

	employees.On("ListWithoutCredentials", mock.Anything).
		Return([]entity.Employee{
			{ID: 4, Name: "Budi Santoso"},
			{ID: 5, Name: "Siti Rahayu"},
		}, nil)
	employees.On("SetCredentials", mock.Anything, int64(4), "budisantoso", mock.AnythingOfType("string"), "karyawan").
		Return(employeerepo.ErrDuplicate)
	employees.On("SetCredentials", mock.Anything, int64(5), "sitirahayu", mock.AnythingOfType("string"), "karyawan").
		Return(nil)

	logins, err := svc.ProvisionLogins(context.Background())

	assert.NoError(t, err)
	assert.Len(t, logins, 1)
	assert.Equal(t, "sitirahayu", logins[0].Username)
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "budisantoso", NormalizeUsername("Budi Santoso"))
	assert.Equal(t, "sitirahayu", NormalizeUsername("  Siti   Rahayu "))
	assert.Equal(t, "", NormalizeUsername("   "))
}
