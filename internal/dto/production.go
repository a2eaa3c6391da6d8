package dto

import (
	"time"

	"github.com/bmjaya/printworks/internal/entity"
)

// StepUpdateRequest carries the mutable step fields of an update call.
// Fields are replaced wholesale; EmployeeIDs nil means "leave assignments
// alone", non-nil means "replace the whole set".
type StepUpdateRequest struct {
	WorkDate     *time.Time
	Status       string
	Note         string
	WeightBefore *float64
	WeightAfter  *float64
	StitchType   string
	StitchPrice  *float64
	EmployeeIDs  []int64
	DeletePhotos []string
}

// StepEmployee is the short employee form embedded in step responses.
type StepEmployee struct {
	ID   int64  `json:"id"`
	Name string `json:"nama"`
}

// StepResponse represents a production step as exposed via the HTTP API.
type StepResponse struct {
	ID              int64          `json:"id"`
	OrderID         int64          `json:"order_id"`
	StepNumber      int            `json:"step_number"`
	StepName        string         `json:"step_name"`
	Status          string         `json:"status"`
	WorkDate        string         `json:"tanggal,omitempty"`
	Note            string         `json:"catatan,omitempty"`
	WeightBefore    *float64       `json:"berat_sebelum,omitempty"`
	WeightAfter     *float64       `json:"berat_sesudah,omitempty"`
	WeightRemainder *float64       `json:"sisa_berat,omitempty"`
	StitchType      string         `json:"jenis_jahit,omitempty"`
	StitchPrice     *float64       `json:"harga_jahit,omitempty"`
	Photos          []string       `json:"photos"`
	Employees       []StepEmployee `json:"employees"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewStepResponse maps a step entity, computing the weight remainder on read.
func NewStepResponse(step *entity.ProductionStep) StepResponse {
	photos := step.Photos
	if photos == nil {
		photos = []string{}
	}
	employees := make([]StepEmployee, 0, len(step.Employees))
	for _, e := range step.Employees {
		employees = append(employees, StepEmployee{ID: e.ID, Name: e.Name})
	}
	return StepResponse{
		ID:              step.ID,
		OrderID:         step.OrderID,
		StepNumber:      step.StepNumber,
		StepName:        step.StepName,
		Status:          step.Status,
		WorkDate:        FormatDate(step.WorkDate),
		Note:            step.Note,
		WeightBefore:    step.WeightBefore,
		WeightAfter:     step.WeightAfter,
		WeightRemainder: step.WeightRemainder(),
		StitchType:      step.StitchType,
		StitchPrice:     step.StitchPrice,
		Photos:          photos,
		Employees:       employees,
		UpdatedAt:       step.UpdatedAt,
	}
}

// NewStepResponses maps a slice of step entities.
func NewStepResponses(steps []entity.ProductionStep) []StepResponse {
	out := make([]StepResponse, 0, len(steps))
	for i := range steps {
		out = append(out, NewStepResponse(&steps[i]))
	}
	return out
}
