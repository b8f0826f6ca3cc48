package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// RecordStore persists execution records keyed by call ID, letting
// callers retrieve results after asynchronous processing.
type RecordStore interface {
	// Save persists the record for a call ID, overwriting any previous one.
	Save(ctx context.Context, callID string, rec *domain.Record) error

	// Load retrieves the record for a call ID.
	// Returns domain.ErrRecordNotFound if no record exists.
	Load(ctx context.Context, callID string) (*domain.Record, error)

	// List returns the call IDs with stored records.
	List(ctx context.Context) ([]string, error)

	// Delete removes the record for a call ID.
	Delete(ctx context.Context, callID string) error
}
