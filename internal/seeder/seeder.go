package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmjaya/printworks/internal/config"
	"github.com/bmjaya/printworks/internal/database"
	"github.com/bmjaya/printworks/internal/entity"
)

// Module provides the seeder to the fx graph.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db         *bun.DB
	logger     *zap.Logger
	bcryptCost int
}

// New constructs a Seeder backed by the primary database connection.
func New(cfg config.Config, conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger, bcryptCost: cfg.Auth.BcryptCost}
}

// Run applies all seed sets in order.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.Admin(ctx); err != nil {
		return err
	}
	if err := s.Counter(ctx); err != nil {
		return err
	}
	return s.Employees(ctx)
}

// Admin creates the default admin login if it is missing.
func (s *Seeder) Admin(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), s.bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := entity.User{
		Username:  "admin",
		Password:  string(hash),
		CreatedAt: now,
	}
	if _, err := s.db.NewInsert().Model(&admin).
		On("CONFLICT (username) DO NOTHING").
		Exec(ctx); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded admin user", zap.String("username", admin.Username))
	}
	return nil
}

// Counter ensures the single order counter row exists. Order numbers are
// drawn from this row, so it has to be present before the first order.
func (s *Seeder) Counter(ctx context.Context) error {
	counter := entity.OrderCounter{ID: 1, CurrentNumber: 0}
	_, err := s.db.NewInsert().Model(&counter).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return err
}

// Employees seeds example employees if they are missing.
func (s *Seeder) Employees(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Employee{
		{Name: "Budi Santoso", Phone: "081234567890", Status: "aktif", Role: "karyawan", CreatedAt: now, UpdatedAt: now},
		{Name: "Siti Rahayu", Phone: "081298765432", Status: "aktif", Role: "karyawan", CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		employee := sample
		if _, err := s.db.NewInsert().Model(&employee).
			On("CONFLICT (nama) DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded employees", zap.Int("count", len(samples)))
	}
	return nil
}
