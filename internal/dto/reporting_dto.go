package dto

import (
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// WIPAgingRequest parameters. At least one grouping dimension is required.
type WIPAgingRequest struct {
	ByCollaborator bool `form:"byCollaborator"`
	ByClient       bool `form:"byClient"`
	ByMatter       bool `form:"byMatter"`
}

// Dimensions converts the flags to the domain selector.
func (r WIPAgingRequest) Dimensions() domain.ReportDimensions {
	return domain.ReportDimensions{
		ByCollaborator: r.ByCollaborator,
		ByClient:       r.ByClient,
		ByMatter:       r.ByMatter,
	}
}

// WIPAgingResponse wraps the grouped rows with the report date.
type WIPAgingResponse struct {
	AsOf time.Time            `json:"asOf"`
	Rows []domain.WIPAgingRow `json:"rows"`
}

// InvoiceAgingResponse wraps the per-invoice aging rows.
type InvoiceAgingResponse struct {
	AsOf   time.Time                 `json:"asOf"`
	Report domain.InvoiceAgingReport `json:"report"`
}

// KPIRequest parameters for the revenue cross-tab.
type KPIRequest struct {
	From           time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To             time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
	ByCollaborator bool      `form:"byCollaborator"`
	ByClient       bool      `form:"byClient"`
	ByMatter       bool      `form:"byMatter"`
}

// Dimensions converts the flags to the domain selector.
func (r KPIRequest) Dimensions() domain.ReportDimensions {
	return domain.ReportDimensions{
		ByCollaborator: r.ByCollaborator,
		ByClient:       r.ByClient,
		ByMatter:       r.ByMatter,
	}
}

// KPIResponse wraps the cross-tab rows with the requested range.
type KPIResponse struct {
	From time.Time       `json:"from"`
	To   time.Time       `json:"to"`
	Rows []domain.KPIRow `json:"rows"`
}
