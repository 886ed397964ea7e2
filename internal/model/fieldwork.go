package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkLog records field work performed against a contract. Append-only.
type WorkLog struct {
	ID              uuid.UUID `json:"id"`
	ContractID      uuid.UUID `json:"contractId"`
	WorkAreaType    string    `json:"workAreaType"`
	Chemical        string    `json:"chemical"`
	ChemicalUsed    string    `json:"chemicalUsed"`
	AreaTreated     string    `json:"areaTreated"`
	AreaTreatedUnit string    `json:"areaTreatedUnit"`
	Remark          string    `json:"remark"`
	EntryByID       uuid.UUID `json:"entryById"`
	CreatedAt       time.Time `json:"createdAt"`

	EntryBy *User `json:"entryBy,omitempty"`
}

// DC records chemical dispatched against a contract (delivery challan).
// Append-only.
type DC struct {
	ID          uuid.UUID `json:"id"`
	ContractID  uuid.UUID `json:"contractId"`
	Chemical    string    `json:"chemical"`
	BatchNumber string    `json:"batchNumber"`
	ChemicalQty string    `json:"chemicalQty"`
	Packaging   string    `json:"packaging"`
	EntryByID   uuid.UUID `json:"entryById"`
	CreatedAt   time.Time `json:"createdAt"`

	EntryBy *User `json:"entryBy,omitempty"`
}
