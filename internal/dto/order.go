package dto

import (
	"time"

	"github.com/bmjaya/printworks/internal/entity"
)

// DateLayout is the wire format for all date-only fields.
const DateLayout = "2006-01-02"

// OrderRequest carries the mutable order fields of a create/update call.
// File slots are handled separately as multipart parts.
type OrderRequest struct {
	CustomerName   string
	OrderDate      *time.Time
	ProofDate      *time.Time
	CompletionDate *time.Time
	CollarModel    string
	Fabric         string
	Stitching      string
	SizeXS         int
	SizeS          int
	SizeM          int
	SizeL          int
	SizeXL         int
	SizeXXL        int
	SizeXXXL       int
	TotalOrder     int
	Note           string
	Description    string
}

// SizeTotal sums the request's seven size buckets.
func (r *OrderRequest) SizeTotal() int {
	return r.SizeXS + r.SizeS + r.SizeM + r.SizeL + r.SizeXL + r.SizeXXL + r.SizeXXXL
}

// OrderResponse represents an order as exposed via the HTTP API.
type OrderResponse struct {
	ID             int64  `json:"id"`
	Number         string `json:"no_order"`
	CustomerName   string `json:"nama_pemesan"`
	OrderDate      string `json:"tanggal_order,omitempty"`
	ProofDate      string `json:"tanggal_proof,omitempty"`
	CompletionDate string `json:"tanggal_selesai,omitempty"`
	Status         string `json:"status"`
	CollarModel    string `json:"model_kerah,omitempty"`
	Fabric         string `json:"bahan,omitempty"`
	Stitching      string `json:"jaitan,omitempty"`
	SizeXS         int    `json:"jumlah_xs"`
	SizeS          int    `json:"jumlah_s"`
	SizeM          int    `json:"jumlah_m"`
	SizeL          int    `json:"jumlah_l"`
	SizeXL         int    `json:"jumlah_xl"`
	SizeXXL        int    `json:"jumlah_xxl"`
	SizeXXXL       int    `json:"jumlah_xxxl"`
	TotalOrder     int    `json:"total_order"`
	DesignFile     string `json:"desain_file,omitempty"`
	PatternFile    string `json:"pola_file,omitempty"`
	Note           string `json:"catatan,omitempty"`
	Description    string `json:"deskripsi,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FormatDate renders a nullable date for the wire.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// NewOrderResponse maps an order entity onto its wire form.
func NewOrderResponse(order *entity.Order) OrderResponse {
	return OrderResponse{
		ID:             order.ID,
		Number:         order.Number,
		CustomerName:   order.CustomerName,
		OrderDate:      FormatDate(order.OrderDate),
		ProofDate:      FormatDate(order.ProofDate),
		CompletionDate: FormatDate(order.CompletionDate),
		Status:         order.Status(),
		CollarModel:    order.CollarModel,
		Fabric:         order.Fabric,
		Stitching:      order.Stitching,
		SizeXS:         order.SizeXS,
		SizeS:          order.SizeS,
		SizeM:          order.SizeM,
		SizeL:          order.SizeL,
		SizeXL:         order.SizeXL,
		SizeXXL:        order.SizeXXL,
		SizeXXXL:       order.SizeXXXL,
		TotalOrder:     order.TotalOrder,
		DesignFile:     order.DesignFile,
		PatternFile:    order.PatternFile,
		Note:           order.Note,
		Description:    order.Description,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// NewOrderResponses maps a slice of order entities.
func NewOrderResponses(orders []entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

// DashboardStats aggregates order counts for the dashboard.
type DashboardStats struct {
	TotalOrders     int `json:"totalOrders"`
	TodayOrders     int `json:"todayOrders"`
	PendingOrders   int `json:"pendingOrders"`
	CompletedOrders int `json:"completedOrders"`
}
