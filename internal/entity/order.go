package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses derived from the completion date.
const (
	OrderStatusPending  = "pending"
	OrderStatusSelesai  = "selesai"
)

// Order represents a garment print order. Column names follow the shop's
// original schema (Indonesian field naming).
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID             int64      `bun:",pk,autoincrement"`
	Number         string     `bun:"no_order,notnull,unique"`
	CustomerName   string     `bun:"nama_pemesan,notnull"`
	OrderDate      *time.Time `bun:"tanggal_order,nullzero"`
	ProofDate      *time.Time `bun:"tanggal_proof,nullzero"`
	CompletionDate *time.Time `bun:"tanggal_selesai,nullzero"`
	CollarModel    string     `bun:"model_kerah,nullzero"`
	Fabric         string     `bun:"bahan,nullzero"`
	Stitching      string     `bun:"jaitan,nullzero"`
	SizeXS         int        `bun:"jumlah_xs,notnull,default:0"`
	SizeS          int        `bun:"jumlah_s,notnull,default:0"`
	SizeM          int        `bun:"jumlah_m,notnull,default:0"`
	SizeL          int        `bun:"jumlah_l,notnull,default:0"`
	SizeXL         int        `bun:"jumlah_xl,notnull,default:0"`
	SizeXXL        int        `bun:"jumlah_xxl,notnull,default:0"`
	SizeXXXL       int        `bun:"jumlah_xxxl,notnull,default:0"`
	TotalOrder     int        `bun:"total_order,notnull,default:0"`
	DesignFile     string     `bun:"desain_file,nullzero"`
	PatternFile    string     `bun:"pola_file,nullzero"`
	Note           string     `bun:"catatan,nullzero"`
	Description    string     `bun:"deskripsi,nullzero"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero"`
}

// SizeTotal sums the seven size buckets.
func (o *Order) SizeTotal() int {
	return o.SizeXS + o.SizeS + o.SizeM + o.SizeL + o.SizeXL + o.SizeXXL + o.SizeXXXL
}

// Status derives the two-state order status from the completion date.
func (o *Order) Status() string {
	if o.CompletionDate != nil {
		return OrderStatusSelesai
	}
	return OrderStatusPending
}

// OrderCounter is the single-row counter backing order number generation.
type OrderCounter struct {
	bun.BaseModel `bun:"table:order_counter"`

	ID            int64 `bun:",pk"`
	CurrentNumber int64 `bun:"current_number,notnull,default:0"`
}
