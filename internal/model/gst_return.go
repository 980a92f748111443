package model

import (
	"time"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
)

// GSTReturn is a periodic return summary filed for a client, stored in
// the client database alongside the invoices it aggregates.
type GSTReturn struct {
	ID                string    `json:"id" gorm:"column:id;primaryKey"`
	ReturnType        string    `json:"returnType" gorm:"column:return_type;not null"`
	Period            string    `json:"period" gorm:"column:period;not null;index"`
	FilingDate        string    `json:"filingDate" gorm:"column:filing_date"`
	Status            string    `json:"status" gorm:"column:status;default:pending"`
	TotalTaxableValue float64   `json:"totalTaxableValue" gorm:"column:total_taxable_value"`
	TotalTaxPayable   float64   `json:"totalTaxPayable" gorm:"column:total_tax_payable"`
	TotalTaxPaid      float64   `json:"totalTaxPaid" gorm:"column:total_tax_paid"`
	CreatedAt         time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt         time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (GSTReturn) TableName() string { return "gst_returns" }

func (g GSTReturn) RecordID() string { return g.ID }

func (GSTReturn) Kind() string { return "GST return" }

// GSTReturnRequest is the wire payload for creating or updating a
// return summary.
type GSTReturnRequest struct {
	ReturnType        *string `json:"returnType"`
	Period            *string `json:"period"`
	FilingDate        *string `json:"filingDate"`
	Status            *string `json:"status"`
	TotalTaxableValue *Money  `json:"totalTaxableValue"`
	TotalTaxPayable   *Money  `json:"totalTaxPayable"`
	TotalTaxPaid      *Money  `json:"totalTaxPaid"`
}

func (r *GSTReturnRequest) Validate() error {
	if !has(r.ReturnType) {
		return apperr.Validation("returnType is required")
	}
	if !has(r.Period) {
		return apperr.Validation("period is required")
	}
	return nil
}

func (r *GSTReturnRequest) Record() GSTReturn {
	return GSTReturn{
		ReturnType:        strOr(r.ReturnType, ""),
		Period:            strOr(r.Period, ""),
		FilingDate:        strOr(r.FilingDate, ""),
		Status:            strOr(r.Status, "pending"),
		TotalTaxableValue: moneyOr(r.TotalTaxableValue, 0),
		TotalTaxPayable:   moneyOr(r.TotalTaxPayable, 0),
		TotalTaxPaid:      moneyOr(r.TotalTaxPaid, 0),
	}
}

func (r *GSTReturnRequest) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	setStr(u, "return_type", r.ReturnType)
	setStr(u, "period", r.Period)
	setStr(u, "filing_date", r.FilingDate)
	setStr(u, "status", r.Status)
	setMoney(u, "total_taxable_value", r.TotalTaxableValue)
	setMoney(u, "total_tax_payable", r.TotalTaxPayable)
	setMoney(u, "total_tax_paid", r.TotalTaxPaid)
	return u
}
