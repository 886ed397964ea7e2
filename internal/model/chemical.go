package model

import (
	"time"

	"github.com/google/uuid"
)

// Chemical maps a chemical name to the set of batch numbers in circulation.
// Batch numbers behave as a set: adding an existing one is a no-op.
type Chemical struct {
	ID        uuid.UUID `json:"id"`
	Chemical  string    `json:"chemical"`
	BatchNos  []string  `json:"batchNos"`
	CreatedAt time.Time `json:"createdAt"`
}
