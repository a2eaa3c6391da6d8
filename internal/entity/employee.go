package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Employee statuses.
const (
	EmployeeStatusAktif    = "aktif"
	EmployeeStatusNonaktif = "nonaktif"
)

// Employee is a shop worker that can be assigned to production steps and may
// optionally hold login credentials for the shared login endpoint.
type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	ID        int64     `bun:",pk,autoincrement"`
	Name      string    `bun:"nama,notnull,unique"`
	Phone     string    `bun:"no_telpon,nullzero"`
	Email     string    `bun:"email,nullzero"`
	Address   string    `bun:"alamat,nullzero"`
	Status    string    `bun:"status,notnull,default:'aktif'"`
	Username  string    `bun:"username,nullzero,unique"`
	Password  string    `bun:"password,nullzero"`
	Role      string    `bun:"role,nullzero"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}

// HasCredentials reports whether the employee can log in.
func (e *Employee) HasCredentials() bool {
	return e.Username != "" && e.Password != ""
}
