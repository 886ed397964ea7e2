package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RevisionDoc string

const (
	RevisionDocContract  RevisionDoc = "CONTRACT"
	RevisionDocQuotation RevisionDoc = "QUOTATION"
)

// Revision is one immutable entry in a document's archive: the full state of
// the document as it existed immediately before a mutation.
type Revision struct {
	ID             uuid.UUID       `json:"id"`
	DocType        RevisionDoc     `json:"docType"`
	DocID          uuid.UUID       `json:"docId"`
	Snapshot       json.RawMessage `json:"snapshot"`
	AuthorID       uuid.UUID       `json:"authorId"`
	Message        string          `json:"message"`
	ModifiedFields []string        `json:"modifiedFields"`
	CreatedAt      time.Time       `json:"createdAt"`

	Author *User `json:"author,omitempty"`
}
