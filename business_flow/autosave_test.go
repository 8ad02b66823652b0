package businessflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushRecorder struct {
	mu     sync.Mutex
	writes []PendingWrite
}

func (r *flushRecorder) flush(ctx context.Context, w PendingWrite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, w)
	return nil
}

func (r *flushRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func (r *flushRecorder) last() PendingWrite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes[len(r.writes)-1]
}

func strPtr(s string) *string { return &s }

func TestDebouncerCoalescesRapidEdits(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(50*time.Millisecond, nil, rec.flush)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d.Submit(ctx, PendingWrite{
			CampaignUUID:   "camp-1",
			SellerID:       1,
			ScriptTemplate: strPtr("draft"),
		})
		time.Sleep(5 * time.Millisecond)
	}
	d.Submit(ctx, PendingWrite{
		CampaignUUID:   "camp-1",
		SellerID:       1,
		ScriptTemplate: strPtr("final"),
	})

	assert.True(t, d.Pending("camp-1"))

	assert.Eventually(t, func() bool {
		return rec.count() == 1
	}, time.Second, 10*time.Millisecond, "rapid edits should flush exactly once")

	require.Equal(t, 1, rec.count())
	assert.Equal(t, "final", *rec.last().ScriptTemplate)
	assert.False(t, d.Pending("camp-1"))
}

func TestDebouncerSeparateCampaignsFlushIndependently(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(30*time.Millisecond, nil, rec.flush)

	ctx := context.Background()
	d.Submit(ctx, PendingWrite{CampaignUUID: "camp-a", SellerID: 1})
	d.Submit(ctx, PendingWrite{CampaignUUID: "camp-b", SellerID: 1})

	assert.Eventually(t, func() bool {
		return rec.count() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDebouncerFlushForcesImmediateWrite(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(time.Hour, nil, rec.flush)

	d.Submit(context.Background(), PendingWrite{CampaignUUID: "camp-1", SellerID: 1})
	require.True(t, d.Pending("camp-1"))

	d.Flush("camp-1")

	assert.Equal(t, 1, rec.count())
	assert.False(t, d.Pending("camp-1"))
}

func TestDebouncerFlushAllDrainsEverything(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(time.Hour, nil, rec.flush)

	ctx := context.Background()
	d.Submit(ctx, PendingWrite{CampaignUUID: "camp-1", SellerID: 1})
	d.Submit(ctx, PendingWrite{CampaignUUID: "camp-2", SellerID: 2})
	d.Submit(ctx, PendingWrite{CampaignUUID: "camp-3", SellerID: 3})

	d.FlushAll()

	assert.Equal(t, 3, rec.count())
	assert.False(t, d.Pending("camp-1"))
	assert.False(t, d.Pending("camp-2"))
	assert.False(t, d.Pending("camp-3"))
}

func TestDebouncerFlushWithoutPendingIsNoOp(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(10*time.Millisecond, nil, rec.flush)

	d.Flush("never-seen")

	assert.Equal(t, 0, rec.count())
}

func TestDebouncerSubmitSetsReceivedAt(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(10*time.Millisecond, nil, rec.flush)

	before := time.Now().UTC().Add(-time.Second)
	d.Submit(context.Background(), PendingWrite{CampaignUUID: "camp-1", SellerID: 1})
	d.Flush("camp-1")

	require.Equal(t, 1, rec.count())
	assert.True(t, rec.last().ReceivedAt.After(before))
}
