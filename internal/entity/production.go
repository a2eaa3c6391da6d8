package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Production step statuses. A step freely toggles between the two.
const (
	StepStatusPending = "pending"
	StepStatusSelesai = "selesai"
)

// StepDefinition describes one slot of the fixed nine-stage pipeline.
type StepDefinition struct {
	Number    int
	Name      string
	HasWeight bool
	HasStitch bool
}

// StepCatalog is the fixed, ordered production pipeline. Step 3 tracks cloth
// weight before/after cutting; step 8 tracks stitch type and price.
var StepCatalog = []StepDefinition{
	{Number: 1, Name: "Desain"},
	{Number: 2, Name: "Potong Kertas"},
	{Number: 3, Name: "Potong Kain Jersey", HasWeight: true},
	{Number: 4, Name: "Potong Kain Polos"},
	{Number: 5, Name: "Press Jersey"},
	{Number: 6, Name: "Sablon"},
	{Number: 7, Name: "Bordir"},
	{Number: 8, Name: "Jahit", HasStitch: true},
	{Number: 9, Name: "Packing & QC"},
}

// StepCount is the fixed pipeline cardinality.
const StepCount = 9

// ProductionStep is one row per (order, step number) pair. The photo list is
// persisted as a JSON array column; ordering matters.
type ProductionStep struct {
	bun.BaseModel `bun:"table:production_steps"`

	ID           int64      `bun:",pk,autoincrement"`
	OrderID      int64      `bun:"order_id,notnull"`
	StepNumber   int        `bun:"step_number,notnull"`
	StepName     string     `bun:"step_name,notnull"`
	Status       string     `bun:"status,notnull,default:'pending'"`
	WorkDate     *time.Time `bun:"tanggal,nullzero"`
	Note         string     `bun:"catatan,nullzero"`
	WeightBefore *float64   `bun:"berat_sebelum,nullzero"`
	WeightAfter  *float64   `bun:"berat_sesudah,nullzero"`
	StitchType   string     `bun:"jenis_jahit,nullzero"`
	StitchPrice  *float64   `bun:"harga_jahit,nullzero"`
	Photos       []string   `bun:"photos,type:jsonb"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero"`

	Employees []*Employee `bun:"m2m:production_step_employees,join:Step=Employee"`
}

// WeightRemainder computes before minus after when both weights are present.
// The remainder is derived on read, never stored.
func (s *ProductionStep) WeightRemainder() *float64 {
	if s.WeightBefore == nil || s.WeightAfter == nil {
		return nil
	}
	r := *s.WeightBefore - *s.WeightAfter
	return &r
}

// ProductionStepEmployee joins steps to assigned employees.
type ProductionStepEmployee struct {
	bun.BaseModel `bun:"table:production_step_employees"`

	StepID     int64           `bun:"production_step_id,pk"`
	Step       *ProductionStep `bun:"rel:belongs-to,join:production_step_id=id"`
	EmployeeID int64           `bun:"employee_id,pk"`
	Employee   *Employee       `bun:"rel:belongs-to,join:employee_id=id"`
}
