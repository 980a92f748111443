package model

import (
	"time"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
)

// SundryDebtor is a ledger entry for a customer who owes the client
// money, keyed by GSTIN. The collection was added to existing client
// databases after the first release, so provisioning must be able to
// establish it on stores that predate it.
type SundryDebtor struct {
	ID         string    `json:"id" gorm:"column:id;primaryKey"`
	DebtorName string    `json:"debtorName" gorm:"column:debtor_name;not null;index"`
	GSTIN      string    `json:"gstin" gorm:"column:gstin;not null;uniqueIndex"`
	Address    string    `json:"address" gorm:"column:address"`
	Contact    string    `json:"contact" gorm:"column:contact"`
	Email      string    `json:"email" gorm:"column:email"`
	CreatedAt  time.Time `json:"createdAt" gorm:"column:created_at;index"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (SundryDebtor) TableName() string { return "sundry_debtors" }

func (d SundryDebtor) RecordID() string { return d.ID }

func (SundryDebtor) Kind() string { return "Sundry debtor" }

// SundryDebtorRequest is the wire payload for creating or updating a
// debtor entry.
type SundryDebtorRequest struct {
	DebtorName *string `json:"debtorName"`
	GSTIN      *string `json:"gstin"`
	Address    *string `json:"address"`
	Contact    *string `json:"contact"`
	Email      *string `json:"email"`
}

func (r *SundryDebtorRequest) Validate() error {
	if !has(r.DebtorName) {
		return apperr.Validation("debtorName is required")
	}
	if !has(r.GSTIN) {
		return apperr.Validation("gstin is required")
	}
	return nil
}

func (r *SundryDebtorRequest) Record() SundryDebtor {
	return SundryDebtor{
		DebtorName: strOr(r.DebtorName, ""),
		GSTIN:      strOr(r.GSTIN, ""),
		Address:    strOr(r.Address, ""),
		Contact:    strOr(r.Contact, ""),
		Email:      strOr(r.Email, ""),
	}
}

func (r *SundryDebtorRequest) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	setStr(u, "debtor_name", r.DebtorName)
	setStr(u, "gstin", r.GSTIN)
	setStr(u, "address", r.Address)
	setStr(u, "contact", r.Contact)
	setStr(u, "email", r.Email)
	return u
}

// TenantCollections lists the models provisioned in every new client
// database. SundryDebtor is included for new stores and ensured on
// existing ones at startup.
func TenantCollections() []interface{} {
	return []interface{}{
		&Purchase{},
		&Sale{},
		&B2CSale{},
		&GSTReturn{},
		&SundryDebtor{},
	}
}
