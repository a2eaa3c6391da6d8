package dto

import (
	"github.com/bmjaya/printworks/internal/entity"
)

// EmployeeRequest carries the mutable employee fields.
type EmployeeRequest struct {
	Name    string `json:"nama"`
	Phone   string `json:"no_telpon"`
	Email   string `json:"email"`
	Address string `json:"alamat"`
	Status  string `json:"status"`
}

// EmployeeResponse represents an employee as exposed via the HTTP API.
// Password hashes never leave the service.
type EmployeeResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"nama"`
	Phone    string `json:"no_telpon,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"alamat,omitempty"`
	Status   string `json:"status"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// NewEmployeeResponse maps an employee entity onto its wire form.
func NewEmployeeResponse(e *entity.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       e.ID,
		Name:     e.Name,
		Phone:    e.Phone,
		Email:    e.Email,
		Address:  e.Address,
		Status:   e.Status,
		Username: e.Username,
		Role:     e.Role,
	}
}

// NewEmployeeResponses maps a slice of employee entities.
func NewEmployeeResponses(employees []entity.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, NewEmployeeResponse(&employees[i]))
	}
	return out
}
