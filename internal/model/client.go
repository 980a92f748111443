package model

import (
	"time"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
)

// Client represents one registered client in the shared registry
// database. Each client owns an isolated per-client database addressed
// by DBKey, which is derived from the client name once at creation and
// never recomputed, so renaming a client does not orphan its data.
type Client struct {
	ID              string    `json:"id" gorm:"column:id;primaryKey"`
	ClientName      string    `json:"clientName" gorm:"column:client_name;not null"`
	BusinessName    string    `json:"businessName" gorm:"column:business_name;not null"`
	IndianFYear     string    `json:"indianFYear" gorm:"column:indian_fyear;not null"`
	GSTType         string    `json:"gstType" gorm:"column:gst_type;not null"`
	GSTNo           string    `json:"gstNo" gorm:"column:gst_no;not null"`
	Address         string    `json:"address" gorm:"column:address"`
	Contact         string    `json:"contact" gorm:"column:contact"`
	ReturnFrequency string    `json:"returnFrequency" gorm:"column:return_frequency;not null"`
	DBKey           string    `json:"dbKey" gorm:"column:db_key"`
	CreatedAt       time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Client) TableName() string { return "clients" }

func (c Client) RecordID() string { return c.ID }

func (Client) Kind() string { return "Client" }

// ClientRequest is the wire payload for creating or updating a client.
// Nil fields are absent: on update they keep their previous value.
type ClientRequest struct {
	ClientName      *string `json:"clientName"`
	BusinessName    *string `json:"businessName"`
	IndianFYear     *string `json:"indianFYear"`
	GSTType         *string `json:"gstType"`
	GSTNo           *string `json:"gstNo"`
	Address         *string `json:"address"`
	Contact         *string `json:"contact"`
	ReturnFrequency *string `json:"returnFrequency"`
}

// Validate checks the mandatory creation fields, reporting the first
// missing one by its wire name.
func (r *ClientRequest) Validate() error {
	required := []struct {
		name  string
		value *string
	}{
		{"clientName", r.ClientName},
		{"businessName", r.BusinessName},
		{"indianFYear", r.IndianFYear},
		{"gstType", r.GSTType},
		{"gstNo", r.GSTNo},
		{"returnFrequency", r.ReturnFrequency},
	}
	for _, f := range required {
		if !has(f.value) {
			return apperr.Validation("%s is required", f.name)
		}
	}
	return nil
}

// Record builds a Client from a validated creation request.
func (r *ClientRequest) Record() Client {
	return Client{
		ClientName:      strOr(r.ClientName, ""),
		BusinessName:    strOr(r.BusinessName, ""),
		IndianFYear:     strOr(r.IndianFYear, ""),
		GSTType:         strOr(r.GSTType, ""),
		GSTNo:           strOr(r.GSTNo, ""),
		Address:         strOr(r.Address, ""),
		Contact:         strOr(r.Contact, ""),
		ReturnFrequency: strOr(r.ReturnFrequency, ""),
	}
}

// Updates returns the column assignments for the fields present in the
// request. DBKey is deliberately not updatable.
func (r *ClientRequest) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	setStr(u, "client_name", r.ClientName)
	setStr(u, "business_name", r.BusinessName)
	setStr(u, "indian_fyear", r.IndianFYear)
	setStr(u, "gst_type", r.GSTType)
	setStr(u, "gst_no", r.GSTNo)
	setStr(u, "address", r.Address)
	setStr(u, "contact", r.Contact)
	setStr(u, "return_frequency", r.ReturnFrequency)
	return u
}

func setStr(u map[string]interface{}, column string, v *string) {
	if v != nil {
		u[column] = *v
	}
}

func setMoney(u map[string]interface{}, column string, v *Money) {
	if v != nil {
		u[column] = float64(*v)
	}
}

func setNullMoney(u map[string]interface{}, column string, v *NullMoney) {
	if v != nil {
		if v.Value == nil {
			u[column] = nil
		} else {
			u[column] = *v.Value
		}
	}
}
