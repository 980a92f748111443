package model

import (
	"time"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
)

// Transaction type values carried by sales records. TransactionTypeB2B
// is the default and the only value that makes customerGSTIN mandatory.
const (
	TransactionTypeB2B = "B2B"
	TransactionTypeB2C = "B2C"
)

// Sale is one outward invoice line in a client database. B2B and
// B2C-style invoices share the table, discriminated by TransactionType.
type Sale struct {
	ID              string    `json:"id" gorm:"column:id;primaryKey"`
	CustomerGSTIN   string    `json:"customerGSTIN" gorm:"column:customer_gstin"`
	CustomerName    string    `json:"customerName" gorm:"column:customer_name;not null"`
	InvoiceNumber   string    `json:"invoiceNumber" gorm:"column:invoice_number;not null"`
	InvoiceType     string    `json:"invoiceType" gorm:"column:invoice_type"`
	InvoiceDate     string    `json:"invoiceDate" gorm:"column:invoice_date"`
	InvoiceValue    float64   `json:"invoiceValue" gorm:"column:invoice_value"`
	PlaceOfSupply   string    `json:"placeOfSupply" gorm:"column:place_of_supply"`
	ReverseCharge   string    `json:"reverseCharge" gorm:"column:reverse_charge"`
	TaxableValue    float64   `json:"taxableValue" gorm:"column:taxable_value"`
	IntegratedTax   float64   `json:"integratedTax" gorm:"column:integrated_tax"`
	CentralTax      float64   `json:"centralTax" gorm:"column:central_tax"`
	StateTax        float64   `json:"stateTax" gorm:"column:state_tax"`
	Cess            float64   `json:"cess" gorm:"column:cess"`
	TaxRate         string    `json:"taxRate" gorm:"column:tax_rate"`
	Month           string    `json:"month" gorm:"column:month;not null;index"`
	TransactionType string    `json:"transactionType" gorm:"column:transaction_type;default:B2B;index"`
	HSNCode         string    `json:"hsnCode" gorm:"column:hsn_code"`
	Quantity        *float64  `json:"quantity" gorm:"column:quantity"`
	UnitPrice       *float64  `json:"unitPrice" gorm:"column:unit_price"`
	EcommerceGSTIN  string    `json:"ecommerceGSTIN" gorm:"column:ecommerce_gstin"`
	Status          string    `json:"status" gorm:"column:status;default:active"`
	CreatedAt       time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Sale) TableName() string { return "sales" }

func (s Sale) RecordID() string { return s.ID }

func (Sale) Kind() string { return "Sale" }

// SaleRequest is the wire payload for creating or updating a sale.
type SaleRequest struct {
	CustomerGSTIN   *string    `json:"customerGSTIN"`
	CustomerName    *string    `json:"customerName"`
	InvoiceNumber   *string    `json:"invoiceNumber"`
	InvoiceType     *string    `json:"invoiceType"`
	InvoiceDate     *string    `json:"invoiceDate"`
	InvoiceValue    *Money     `json:"invoiceValue"`
	PlaceOfSupply   *string    `json:"placeOfSupply"`
	ReverseCharge   *string    `json:"reverseCharge"`
	TaxableValue    *Money     `json:"taxableValue"`
	IntegratedTax   *Money     `json:"integratedTax"`
	CentralTax      *Money     `json:"centralTax"`
	StateTax        *Money     `json:"stateTax"`
	Cess            *Money     `json:"cess"`
	TaxRate         *string    `json:"taxRate"`
	Month           *string    `json:"month"`
	TransactionType *string    `json:"transactionType"`
	HSNCode         *string    `json:"hsnCode"`
	Quantity        *NullMoney `json:"quantity"`
	UnitPrice       *NullMoney `json:"unitPrice"`
	EcommerceGSTIN  *string    `json:"ecommerceGSTIN"`
	Status          *string    `json:"status"`
}

// EffectiveTransactionType resolves the transaction type with its
// default applied.
func (r *SaleRequest) EffectiveTransactionType() string {
	t := strOr(r.TransactionType, "")
	if t == "" {
		return TransactionTypeB2B
	}
	return t
}

func (r *SaleRequest) Validate() error {
	required := []struct {
		name  string
		value *string
	}{
		{"customerName", r.CustomerName},
		{"invoiceNumber", r.InvoiceNumber},
		{"month", r.Month},
	}
	for _, f := range required {
		if !has(f.value) {
			return apperr.Validation("%s is required", f.name)
		}
	}
	if r.EffectiveTransactionType() == TransactionTypeB2B && !has(r.CustomerGSTIN) {
		return apperr.Validation("customerGSTIN is required for B2B transactions")
	}
	return nil
}

func (r *SaleRequest) Record() Sale {
	return Sale{
		CustomerGSTIN:   strOr(r.CustomerGSTIN, ""),
		CustomerName:    strOr(r.CustomerName, ""),
		InvoiceNumber:   strOr(r.InvoiceNumber, ""),
		InvoiceType:     strOr(r.InvoiceType, "Regular"),
		InvoiceDate:     strOr(r.InvoiceDate, ""),
		InvoiceValue:    moneyOr(r.InvoiceValue, 0),
		PlaceOfSupply:   strOr(r.PlaceOfSupply, ""),
		ReverseCharge:   strOr(r.ReverseCharge, "No"),
		TaxableValue:    moneyOr(r.TaxableValue, 0),
		IntegratedTax:   moneyOr(r.IntegratedTax, 0),
		CentralTax:      moneyOr(r.CentralTax, 0),
		StateTax:        moneyOr(r.StateTax, 0),
		Cess:            moneyOr(r.Cess, 0),
		TaxRate:         strOr(r.TaxRate, "0"),
		Month:           strOr(r.Month, ""),
		TransactionType: r.EffectiveTransactionType(),
		HSNCode:         strOr(r.HSNCode, ""),
		Quantity:        nullMoneyPtr(r.Quantity),
		UnitPrice:       nullMoneyPtr(r.UnitPrice),
		EcommerceGSTIN:  strOr(r.EcommerceGSTIN, ""),
		Status:          strOr(r.Status, "active"),
	}
}

func (r *SaleRequest) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	setStr(u, "customer_gstin", r.CustomerGSTIN)
	setStr(u, "customer_name", r.CustomerName)
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
	setStr(u, "tax_rate", r.TaxRate)
	setStr(u, "month", r.Month)
	setStr(u, "transaction_type", r.TransactionType)
	setStr(u, "hsn_code", r.HSNCode)
	setNullMoney(u, "quantity", r.Quantity)
	setNullMoney(u, "unit_price", r.UnitPrice)
	setStr(u, "ecommerce_gstin", r.EcommerceGSTIN)
	setStr(u, "status", r.Status)
	return u
}
