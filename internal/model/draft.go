package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftOrder is an in-progress intake wizard state. It lives server-side
// behind DraftRepository so half-written tickets survive a closed tab
// and can move between counter terminals.
type DraftOrder struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	OwnerID      uuid.UUID    `db:"owner_id" json:"owner_id"`
	CurrentStep  int          `db:"current_step" json:"current_step"`
	Payload      DraftPayload `db:"payload" json:"payload"`
	LastModified time.Time    `db:"last_modified" json:"last_modified"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// DraftPayload carries the partially filled order form. Everything is
// optional until submission.
type DraftPayload struct {
	Customer          *CreateCustomerRequest `json:"customer,omitempty"`
	Items             []DraftItem            `json:"items,omitempty"`
	CommittedDeadline *time.Time             `json:"committed_deadline,omitempty"`
	AmountPaid        *decimal.Decimal       `json:"amount_paid,omitempty"`
	PaymentMethod     PaymentMethod          `json:"payment_method,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
}

type DraftItem struct {
	GarmentTypeID    uuid.UUID        `json:"garment_type_id"`
	GarmentName      string           `json:"garment_name"`
	ServiceID        uuid.UUID        `json:"service_id"`
	ServiceName      string           `json:"service_name"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	AdjustmentAmount *decimal.Decimal `json:"adjustment_amount,omitempty"`
	AdjustmentReason string           `json:"adjustment_reason,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// Value implements driver.Valuer so the payload round-trips through a
// JSONB column.
func (p DraftPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *DraftPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = DraftPayload{}
		return nil
	}
	return fmt.Errorf("unsupported draft payload type %T", src)
}

type SaveDraftRequest struct {
	CurrentStep int          `json:"current_step" binding:"min=0,max=2"`
	Payload     DraftPayload `json:"payload"`
}
