package model

import (
	"time"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
)

// B2CSale is an aggregated consumer-sales bucket. Unlike Sale it
// carries no counterparty identity: GSTR reporting groups B2C turnover
// by rate and place of supply, not by customer.
type B2CSale struct {
	ID            string    `json:"id" gorm:"column:id;primaryKey"`
	Month         string    `json:"month" gorm:"column:month;not null;index"`
	SupplyType    string    `json:"supplyType" gorm:"column:supply_type;not null"`
	PlaceOfSupply string    `json:"placeOfSupply" gorm:"column:place_of_supply"`
	GSTRate       string    `json:"gstRate" gorm:"column:gst_rate;not null"`
	TaxableValue  float64   `json:"taxableValue" gorm:"column:taxable_value;not null"`
	CentralTax    float64   `json:"centralTax" gorm:"column:central_tax"`
	StateTax      float64   `json:"stateTax" gorm:"column:state_tax"`
	IntegratedTax float64   `json:"integratedTax" gorm:"column:integrated_tax"`
	InvoiceValue  float64   `json:"invoiceValue" gorm:"column:invoice_value"`
	HSNCode       string    `json:"hsnCode" gorm:"column:hsn_code"`
	Quantity      *float64  `json:"quantity" gorm:"column:quantity"`
	UnitPrice     *float64  `json:"unitPrice" gorm:"column:unit_price"`
	Status        string    `json:"status" gorm:"column:status;default:active"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (B2CSale) TableName() string { return "b2c_sales" }

func (s B2CSale) RecordID() string { return s.ID }

func (B2CSale) Kind() string { return "B2C sale" }

// B2CSaleRequest is the wire payload for creating or updating a B2C
// sales bucket.
type B2CSaleRequest struct {
	Month         *string    `json:"month"`
	SupplyType    *string    `json:"supplyType"`
	PlaceOfSupply *string    `json:"placeOfSupply"`
	GSTRate       *string    `json:"gstRate"`
	TaxableValue  *Money     `json:"taxableValue"`
	CentralTax    *Money     `json:"centralTax"`
	StateTax      *Money     `json:"stateTax"`
	IntegratedTax *Money     `json:"integratedTax"`
	InvoiceValue  *Money     `json:"invoiceValue"`
	HSNCode       *string    `json:"hsnCode"`
	Quantity      *NullMoney `json:"quantity"`
	UnitPrice     *NullMoney `json:"unitPrice"`
	Status        *string    `json:"status"`
}

func (r *B2CSaleRequest) Validate() error {
	if !has(r.Month) {
		return apperr.Validation("month is required")
	}
	if !has(r.SupplyType) {
		return apperr.Validation("supplyType is required")
	}
	if !has(r.GSTRate) {
		return apperr.Validation("gstRate is required")
	}
	if r.TaxableValue == nil || *r.TaxableValue == 0 {
		return apperr.Validation("taxableValue is required")
	}
	return nil
}

// Record builds a B2CSale with defaults applied. InvoiceValue falls
// back to TaxableValue when not supplied.
func (r *B2CSaleRequest) Record() B2CSale {
	taxable := moneyOr(r.TaxableValue, 0)
	return B2CSale{
		Month:         strOr(r.Month, ""),
		SupplyType:    strOr(r.SupplyType, ""),
		PlaceOfSupply: strOr(r.PlaceOfSupply, ""),
		GSTRate:       strOr(r.GSTRate, ""),
		TaxableValue:  taxable,
		CentralTax:    moneyOr(r.CentralTax, 0),
		StateTax:      moneyOr(r.StateTax, 0),
		IntegratedTax: moneyOr(r.IntegratedTax, 0),
		InvoiceValue:  moneyOr(r.InvoiceValue, taxable),
		HSNCode:       strOr(r.HSNCode, ""),
		Quantity:      nullMoneyPtr(r.Quantity),
		UnitPrice:     nullMoneyPtr(r.UnitPrice),
		Status:        strOr(r.Status, "active"),
	}
}

func (r *B2CSaleRequest) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	setStr(u, "month", r.Month)
	setStr(u, "supply_type", r.SupplyType)
	setStr(u, "place_of_supply", r.PlaceOfSupply)
	setStr(u, "gst_rate", r.GSTRate)
	setMoney(u, "taxable_value", r.TaxableValue)
	setMoney(u, "central_tax", r.CentralTax)
	setMoney(u, "state_tax", r.StateTax)
	setMoney(u, "integrated_tax", r.IntegratedTax)
	setMoney(u, "invoice_value", r.InvoiceValue)
	setStr(u, "hsn_code", r.HSNCode)
	setNullMoney(u, "quantity", r.Quantity)
	setNullMoney(u, "unit_price", r.UnitPrice)
	setStr(u, "status", r.Status)
	return u
}
