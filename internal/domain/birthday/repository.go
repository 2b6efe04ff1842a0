package birthday

import (
	"context"
)

// Repository is the read-only contract the evaluation engine has with the
// external record store. Records are created and maintained elsewhere; one
// evaluation pass reads them once as an immutable snapshot.
type Repository interface {
	ListActiveSubscribers(ctx context.Context) ([]*Subscriber, error)
	ListRecords(ctx context.Context, subscriberID int64) ([]*Record, error)
}
