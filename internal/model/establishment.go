package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TaxInfo is the fiscal identity printed on receipts. It is stored as a
// versioned JSON document and parsed once at the repository boundary.
type TaxInfo struct {
	Version      int    `json:"version"`
	TaxID        string `json:"tax_id,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	TaxRegime    string `json:"tax_regime,omitempty"`
	FiscalStreet string `json:"fiscal_street,omitempty"`
	FiscalCity   string `json:"fiscal_city,omitempty"`
	FiscalZip    string `json:"fiscal_zip,omitempty"`
}

// CurrentTaxInfoVersion tracks the newest schema of the stored document.
const CurrentTaxInfoVersion = 1

func (t TaxInfo) Value() (driver.Value, error) {
	if t.Version == 0 {
		t.Version = CurrentTaxInfoVersion
	}
	return json.Marshal(t)
}

func (t *TaxInfo) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	case nil:
		*t = TaxInfo{Version: CurrentTaxInfoVersion}
		return nil
	}
	return fmt.Errorf("unsupported tax info type %T", src)
}

// Establishment holds the single shop profile used on receipts and for
// opening-hours checks.
type Establishment struct {
	Base
	Name         string  `db:"name" json:"name"`
	OwnerName    string  `db:"owner_name" json:"owner_name,omitempty"`
	ContactPhone string  `db:"contact_phone" json:"contact_phone,omitempty"`
	Address      string  `db:"address" json:"address,omitempty"`
	TaxInfo      TaxInfo `db:"tax_info" json:"tax_info"`
	Active       bool    `db:"is_active" json:"active"`
}

type UpdateEstablishmentRequest struct {
	Name         string  `json:"name" binding:"required,max=150"`
	OwnerName    string  `json:"owner_name" binding:"max=150"`
	ContactPhone string  `json:"contact_phone" binding:"max=30"`
	Address      string  `json:"address" binding:"max=300"`
	TaxInfo      TaxInfo `json:"tax_info"`
}
