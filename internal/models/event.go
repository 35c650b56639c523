package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is one row of the eventos audit trail: a mutation applied to a
// table, with free-form detail for the parameters of the operation.
type Event struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	TableID   int            `json:"tableId" db:"table_id"`
	Action    string         `json:"action" db:"action"`
	Detail    map[string]any `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}
