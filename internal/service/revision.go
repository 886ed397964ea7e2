package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/epcorn/pestops-contracts/internal/model"
)

// snapshotOf serializes the fully populated document state. User references
// marshal without credential fields, so snapshots are safe to hand back to
// clients verbatim.
func snapshotOf(doc interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshot document: %w", err)
	}
	return raw, nil
}

// reconcileQuoteInfos applies the incoming line items against the store.
// Items flagged IsNew are inserted and get a fresh identity; the rest are
// updated in place. Returns the resulting ordered identity list and the old
// identities no longer referenced.
func reconcileQuoteInfos(
	ctx context.Context,
	store QuoteInfoStore,
	oldIDs []uuid.UUID,
	inputs []model.QuoteInfoInput,
) (newIDs []uuid.UUID, removed []uuid.UUID, err error) {
	newIDs = make([]uuid.UUID, 0, len(inputs))
	for _, input := range inputs {
		if input.IsNew {
			inserted, err := store.Insert(ctx, input)
			if err != nil {
				return nil, nil, err
			}
			newIDs = append(newIDs, inserted.ID)
			continue
		}
		if input.ID == uuid.Nil {
			return nil, nil, fmt.Errorf("%w: quote info without id and not marked new", ErrInvalidInput)
		}
		updated, err := store.Update(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		if !updated {
			return nil, nil, fmt.Errorf("%w: quote info %s", ErrNotFound, input.ID)
		}
		newIDs = append(newIDs, input.ID)
	}

	kept := make(map[uuid.UUID]struct{}, len(newIDs))
	for _, id := range newIDs {
		kept[id] = struct{}{}
	}
	for _, id := range oldIDs {
		if _, ok := kept[id]; !ok {
			removed = append(removed, id)
		}
	}
	return newIDs, removed, nil
}

func quoteInfoIDs(infos []model.QuoteInfo) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	return ids
}
