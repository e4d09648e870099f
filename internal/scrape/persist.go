package scrape

import (
	"context"
	"errors"

	appLog "sydevents/internal/log"
	"sydevents/internal/model"
	"sydevents/internal/store"
)

// PersistResult reports the outcome of one upsert batch.
type PersistResult struct {
	Created int
	Updated int
	Failed  int
}

// Persist writes the batch sequentially, upserting on ExternalID:
// a matching record is overwritten in full, a missing or absent identity
// inserts a new record. Per-record failures are logged and skipped so one
// bad record cannot block the rest; repeated harvests of unchanged
// sources therefore converge to a stable record count.
func Persist(ctx context.Context, st store.EventStore, events []model.Event) PersistResult {
	var res PersistResult
	for _, ev := range events {
		if ev.ExternalID == "" {
			if _, err := st.Insert(ctx, ev); err != nil {
				res.Failed++
				appLog.Error("event insert failed", err, "title", ev.Title)
				continue
			}
			res.Created++
			continue
		}

		existing, err := st.FindByExternalID(ctx, ev.ExternalID)
		switch {
		case err == nil:
			if _, uerr := st.UpdateByID(ctx, existing.ID, ev); uerr != nil {
				res.Failed++
				appLog.Error("event update failed", uerr, "external_id", ev.ExternalID)
				continue
			}
			res.Updated++
		case errors.Is(err, store.ErrNotFound):
			if _, ierr := st.Insert(ctx, ev); ierr != nil {
				res.Failed++
				appLog.Error("event insert failed", ierr, "external_id", ev.ExternalID)
				continue
			}
			res.Created++
		default:
			res.Failed++
			appLog.Error("event lookup failed", err, "external_id", ev.ExternalID)
		}
	}
	return res
}
