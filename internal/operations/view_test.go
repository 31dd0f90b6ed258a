package operations

import (
	"context"
	"testing"
	"time"

	"credops-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingLister serves canned results, releasing each call only when its
// gate channel is closed. Lets tests interleave overlapping queries.
type blockingLister struct {
	results map[string][]models.Operation
	gates   map[string]chan struct{}
}

func (b *blockingLister) serve(term string) ([]models.Operation, error) {
	if gate, ok := b.gates[term]; ok {
		<-gate
	}
	return b.results[term], nil
}

func (b *blockingLister) List(ctx context.Context) ([]models.Operation, error) {
	return b.serve("")
}

func (b *blockingLister) ListByStatus(ctx context.Context, status string) ([]models.Operation, error) {
	return b.serve(status)
}

func (b *blockingLister) Search(ctx context.Context, term string) ([]models.Operation, error) {
	return b.serve(term)
}

func TestView_SlowStaleResponseDoesNotOverwriteLatest(t *testing.T) {
	slowGate := make(chan struct{})
	lister := &blockingLister{
		results: map[string][]models.Operation{
			"mar": {{Number: "OP001", ClientName: "Maria"}},
			"car": {{Number: "OP002", ClientName: "Carlos"}},
		},
		gates: map[string]chan struct{}{"mar": slowGate},
	}
	v := &View{Lister: lister}

	// First query hangs; the user keeps typing and issues a second one.
	slow := v.Reload(context.Background(), Query{Search: "mar"})
	fast := v.Reload(context.Background(), Query{Search: "car"})

	<-fast
	ops, err := v.Snapshot()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "Carlos", ops[0].ClientName)

	// The stale response arrives late and must be discarded.
	close(slowGate)
	select {
	case <-slow:
	case <-time.After(time.Second):
		t.Fatal("stale reload never resolved")
	}

	ops, err = v.Snapshot()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "Carlos", ops[0].ClientName)
}

func TestView_LatestReloadWins(t *testing.T) {
	lister := &blockingLister{
		results: map[string][]models.Operation{
			"":            {{Number: "OP001"}, {Number: "OP002"}},
			"in_progress": {{Number: "OP001"}},
		},
	}
	v := &View{Lister: lister}

	<-v.Reload(context.Background(), Query{})
	ops, err := v.Snapshot()
	require.NoError(t, err)
	assert.Len(t, ops, 2)

	<-v.Reload(context.Background(), Query{Status: "in_progress"})
	ops, err = v.Snapshot()
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}
