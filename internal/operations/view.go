package operations

import (
	"context"
	"sync"

	"credops-backend/internal/models"
)

// Lister is the query surface the list view needs from the service.
type Lister interface {
	List(ctx context.Context) ([]models.Operation, error)
	ListByStatus(ctx context.Context, status string) ([]models.Operation, error)
	Search(ctx context.Context, term string) ([]models.Operation, error)
}

// Query is one list request: a status filter, a search term, or neither.
type Query struct {
	Status string
	Search string
}

// View keeps the visible operation list for a dashboard session. Filter and
// search changes are not debounced, so queries can overlap; each reload is
// tagged with a sequence number and only the most recently issued reload may
// update the snapshot (explicit last-write-wins).
type View struct {
	Lister Lister

	mu     sync.Mutex
	issued uint64
	ops    []models.Operation
	err    error
}

// Reload runs the query asynchronously. The returned channel closes when the
// attempt has either updated the snapshot or been discarded as stale.
func (v *View) Reload(ctx context.Context, q Query) <-chan struct{} {
	v.mu.Lock()
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)

		var (
			ops []models.Operation
			err error
		)
		switch {
		case q.Search != "":
			ops, err = v.Lister.Search(ctx, q.Search)
		case q.Status != "" && q.Status != "all":
			ops, err = v.Lister.ListByStatus(ctx, q.Status)
		default:
			ops, err = v.Lister.List(ctx)
		}

		v.mu.Lock()
		defer v.mu.Unlock()
		if seq != v.issued {
			// A newer reload was issued while this one was in flight.
			return
		}
		v.ops, v.err = ops, err
	}()
	return done
}

// Snapshot returns the current visible list and the error of the reload that
// produced it.
func (v *View) Snapshot() ([]models.Operation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ops, v.err
}
