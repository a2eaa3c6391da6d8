package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/dto"
	"github.com/bmjaya/printworks/internal/entity"
	employeerepo "github.com/bmjaya/printworks/internal/repository/employee"
	userrepo "github.com/bmjaya/printworks/internal/repository/user"
	"github.com/bmjaya/printworks/pkg/errorbank"
)

// AdminRepository is the admin account lookup the service depends on.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

// EmployeeRepository is the employee account access the service depends on.
type EmployeeRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.Employee, error)
	ListWithoutCredentials(ctx context.Context) ([]entity.Employee, error)
	SetCredentials(ctx context.Context, id int64, username, passwordHash, role string) error
}

// Service authenticates accounts and provisions employee logins.
type Service struct {
	admins     AdminRepository
	employees  EmployeeRepository
	tokens     *TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Admins    AdminRepository
	Employees EmployeeRepository
	Tokens    *TokenManager
	Config    config.Config
	Logger    *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		admins:     p.Admins,
		employees:  p.Employees,
		tokens:     p.Tokens,
		bcryptCost: p.Config.Auth.BcryptCost,
		logger:     p.Logger,
	}
}

// Login verifies a credential pair against admins first, then employees, and
// issues a bearer token on success. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errorbank.BadRequest("username and password are required")
	}

	admin, err := s.admins.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
		return nil, errorbank.Internal("login failed", errorbank.WithCause(err))
	}
	if admin != nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
			return nil, errorbank.Unauthorized("invalid credentials")
		}
		token, err := s.tokens.Issue(Claims{
			UserID:      admin.ID,
			Username:    admin.Username,
			Role:        "admin",
			AccountType: AccountTypeAdmin,
		})
		if err != nil {
			return nil, errorbank.Internal("login failed", errorbank.WithCause(err))
		}
		return &dto.LoginResponse{
			Token: token,
			User: dto.LoginUser{
				ID:       admin.ID,
				Username: admin.Username,
				Role:     "admin",
			},
		}, nil
	}

	employee, err := s.employees.GetByUsername(ctx, req.Username)
	if errors.Is(err, employeerepo.ErrNotFound) {
		return nil, errorbank.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, errorbank.Internal("login failed", errorbank.WithCause(err))
	}
	if !employee.HasCredentials() ||
		bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(req.Password)) != nil {
		return nil, errorbank.Unauthorized("invalid credentials")
	}

	role := employee.Role
	if role == "" {
		role = "karyawan"
	}
	token, err := s.tokens.Issue(Claims{
		UserID:      employee.ID,
		Username:    employee.Username,
		Name:        employee.Name,
		Role:        role,
		AccountType: AccountTypeEmployee,
	})
	if err != nil {
		return nil, errorbank.Internal("login failed", errorbank.WithCause(err))
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.LoginUser{
			ID:       employee.ID,
			Username: employee.Username,
			Name:     employee.Name,
			Email:    employee.Email,
			Phone:    employee.Phone,
			Role:     role,
		},
	}, nil
}

// ProvisionedLogin reports one credential generated by ProvisionLogins.
type ProvisionedLogin struct {
	EmployeeID int64
	Name       string
	Username   string
	Password   string
}

// ProvisionLogins assigns usernames and default passwords to employees that
// cannot log in yet. The generated password is meant to be changed on first
// login; it is returned once so it can be handed over.
func (s *Service) ProvisionLogins(ctx context.Context) ([]ProvisionedLogin, error) {
	employees, err := s.employees.ListWithoutCredentials(ctx)
	if err != nil {
		return nil, errorbank.Internal("failed to list employees", errorbank.WithCause(err))
	}

	year := time.Now().Year()
	provisioned := make([]ProvisionedLogin, 0, len(employees))
	for _, employee := range employees {
		username := NormalizeUsername(employee.Name)
		if username == "" {
			continue
		}
		password := fmt.Sprintf("%s%d", username, year)
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return nil, errorbank.Internal("failed to hash password", errorbank.WithCause(err))
		}
		if err := s.employees.SetCredentials(ctx, employee.ID, username, string(hash), "karyawan"); err != nil {
			if errors.Is(err, employeerepo.ErrDuplicate) {
				s.logger.Warn("username already taken; skipping", zap.String("username", username))
				continue
			}
			return nil, errorbank.Internal("failed to store credentials", errorbank.WithCause(err))
		}
		provisioned = append(provisioned, ProvisionedLogin{
			EmployeeID: employee.ID,
			Name:       employee.Name,
			Username:   username,
			Password:   password,
		})
	}
	return provisioned, nil
}

// NormalizeUsername lowercases a display name and strips all whitespace.
func NormalizeUsername(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}
