package model

import (
	"time"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
)

// Purchase is one inward invoice line in a client database.
type Purchase struct {
	ID            string    `json:"id" gorm:"column:id;primaryKey"`
	SupplierGSTIN string    `json:"supplierGSTIN" gorm:"column:supplier_gstin;not null"`
	SupplierName  string    `json:"supplierName" gorm:"column:supplier_name;not null"`
	InvoiceNumber string    `json:"invoiceNumber" gorm:"column:invoice_number;not null"`
	InvoiceType   string    `json:"invoiceType" gorm:"column:invoice_type"`
	InvoiceDate   string    `json:"invoiceDate" gorm:"column:invoice_date"`
	InvoiceValue  float64   `json:"invoiceValue" gorm:"column:invoice_value"`
	PlaceOfSupply string    `json:"placeOfSupply" gorm:"column:place_of_supply"`
	ReverseCharge string    `json:"reverseCharge" gorm:"column:reverse_charge"`
	TaxableValue  float64   `json:"taxableValue" gorm:"column:taxable_value"`
	IntegratedTax float64   `json:"integratedTax" gorm:"column:integrated_tax"`
	CentralTax    float64   `json:"centralTax" gorm:"column:central_tax"`
	StateTax      float64   `json:"stateTax" gorm:"column:state_tax"`
	Cess          float64   `json:"cess" gorm:"column:cess"`
	ITCAvailable  string    `json:"itcAvailable" gorm:"column:itc_available"`
	TaxRate       string    `json:"taxRate" gorm:"column:tax_rate"`
	Month         string    `json:"month" gorm:"column:month;not null;index"`
	Status        string    `json:"status" gorm:"column:status;default:active"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Purchase) TableName() string { return "purchases" }

func (p Purchase) RecordID() string { return p.ID }

func (Purchase) Kind() string { return "Purchase" }

// PurchaseRequest is the wire payload for creating or updating a
// purchase. The tax rate arrives as calculatedTaxRate but is served
// back as taxRate, a quirk kept for frontend compatibility.
type PurchaseRequest struct {
	SupplierGSTIN     *string `json:"supplierGSTIN"`
	SupplierName      *string `json:"supplierName"`
	InvoiceNumber     *string `json:"invoiceNumber"`
	InvoiceType       *string `json:"invoiceType"`
	InvoiceDate       *string `json:"invoiceDate"`
	InvoiceValue      *Money  `json:"invoiceValue"`
	PlaceOfSupply     *string `json:"placeOfSupply"`
	ReverseCharge     *string `json:"reverseCharge"`
	TaxableValue      *Money  `json:"taxableValue"`
	IntegratedTax     *Money  `json:"integratedTax"`
	CentralTax        *Money  `json:"centralTax"`
	StateTax          *Money  `json:"stateTax"`
	Cess              *Money  `json:"cess"`
	ITCAvailable      *string `json:"itcAvailable"`
	CalculatedTaxRate *string `json:"calculatedTaxRate"`
	Month             *string `json:"month"`
	Status            *string `json:"status"`
}

func (r *PurchaseRequest) Validate() error {
	required := []struct {
		name  string
		value *string
	}{
		{"supplierGSTIN", r.SupplierGSTIN},
		{"supplierName", r.SupplierName},
		{"invoiceNumber", r.InvoiceNumber},
		{"month", r.Month},
	}
	for _, f := range required {
		if !has(f.value) {
			return apperr.Validation("%s is required", f.name)
		}
	}
	return nil
}

// Record builds a Purchase with documented defaults applied.
func (r *PurchaseRequest) Record() Purchase {
	return Purchase{
		SupplierGSTIN: strOr(r.SupplierGSTIN, ""),
		SupplierName:  strOr(r.SupplierName, ""),
		InvoiceNumber: strOr(r.InvoiceNumber, ""),
		InvoiceType:   strOr(r.InvoiceType, "Regular"),
		InvoiceDate:   strOr(r.InvoiceDate, ""),
		InvoiceValue:  moneyOr(r.InvoiceValue, 0),
		PlaceOfSupply: strOr(r.PlaceOfSupply, ""),
		ReverseCharge: strOr(r.ReverseCharge, "No"),
		TaxableValue:  moneyOr(r.TaxableValue, 0),
		IntegratedTax: moneyOr(r.IntegratedTax, 0),
		CentralTax:    moneyOr(r.CentralTax, 0),
		StateTax:      moneyOr(r.StateTax, 0),
		Cess:          moneyOr(r.Cess, 0),
		ITCAvailable:  strOr(r.ITCAvailable, "Yes"),
		TaxRate:       strOr(r.CalculatedTaxRate, "0"),
		Month:         strOr(r.Month, ""),
		Status:        strOr(r.Status, "active"),
	}
}

func (r *PurchaseRequest) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	setStr(u, "supplier_gstin", r.SupplierGSTIN)
	setStr(u, "supplier_name", r.SupplierName)
	setStr(u, "invoice_number", r.InvoiceNumber)
	setStr(u, "invoice_type", r.InvoiceType)
	setStr(u, "invoice_date", r.InvoiceDate)
	setMoney(u, "invoice_value", r.InvoiceValue)
	setStr(u, "place_of_supply", r.PlaceOfSupply)
	setStr(u, "reverse_charge", r.ReverseCharge)
	setMoney(u, "taxable_value", r.TaxableValue)
	setMoney(u, "integrated_tax", r.IntegratedTax)
	setMoney(u, "central_tax", r.CentralTax)
	setMoney(u, "state_tax", r.StateTax)
	setMoney(u, "cess", r.Cess)
	setStr(u, "itc_available", r.ITCAvailable)
	setStr(u, "tax_rate", r.CalculatedTaxRate)
	setStr(u, "month", r.Month)
	setStr(u, "status", r.Status)
	return u
}
