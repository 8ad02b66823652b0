package businessflow

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/copromote/henry-help/utils"
	"github.com/redis/go-redis/v9"
)

// PendingWrite is one debounced configuration edit waiting to be flushed.
// Later edits for the same campaign supersede it wholesale.
type PendingWrite struct {
	CampaignUUID   string
	SellerID       uint
	ScriptTemplate *string
	VoiceID        *string
	ReceivedAt     time.Time
}

// Debouncer coalesces rapid configuration edits into a single write after a
// quiet period. One timer per campaign; a new edit during the quiet period
// replaces the pending value and restarts the clock. Flush failures are only
// logged: the next edit will carry the full state again, so nothing is
// retried. Redis holds a dirty marker per campaign so a restart can detect an
// edit that never flushed.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*PendingWrite
	timers  map[string]*time.Timer
	flush   func(ctx context.Context, w PendingWrite) error
	rc      *redis.Client
}

// NewDebouncer creates a debouncer with the given quiet period and flush
// function. rc may be nil when no cache is configured; dirty markers are then
// skipped.
func NewDebouncer(delay time.Duration, rc *redis.Client, flush func(ctx context.Context, w PendingWrite) error) *Debouncer {
	if delay <= 0 {
		delay = utils.AutoSaveDebounce
	}
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*PendingWrite),
		timers:  make(map[string]*time.Timer),
		flush:   flush,
		rc:      rc,
	}
}

// Submit records an edit and (re)starts the quiet period for its campaign.
func (d *Debouncer) Submit(ctx context.Context, w PendingWrite) {
	w.ReceivedAt = utils.UTCNow()

	d.mu.Lock()
	d.pending[w.CampaignUUID] = &w
	if t, ok := d.timers[w.CampaignUUID]; ok {
		t.Stop()
	}
	key := w.CampaignUUID
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.fire(key)
	})
	d.mu.Unlock()

	d.markDirty(ctx, w.CampaignUUID)
}

// Flush forces an immediate write of any pending edit for the campaign.
// Used on shutdown so an in-flight quiet period does not lose the edit.
func (d *Debouncer) Flush(campaignUUID string) {
	d.mu.Lock()
	if t, ok := d.timers[campaignUUID]; ok {
		t.Stop()
	}
	d.mu.Unlock()
	d.fire(campaignUUID)
}

// FlushAll drains every pending edit. Called during graceful shutdown.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	for _, t := range d.timers {
		t.Stop()
	}
	d.mu.Unlock()

	for _, k := range keys {
		d.fire(k)
	}
}

// Pending reports whether an unflushed edit exists for the campaign.
func (d *Debouncer) Pending(campaignUUID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[campaignUUID]
	return ok
}

func (d *Debouncer) fire(campaignUUID string) {
	d.mu.Lock()
	w := d.pending[campaignUUID]
	delete(d.pending, campaignUUID)
	delete(d.timers, campaignUUID)
	d.mu.Unlock()

	if w == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.flush(ctx, *w); err != nil {
		log.Printf("autosave flush failed for campaign %s: %v", campaignUUID, err)
		return
	}
	d.clearDirty(ctx, campaignUUID)
}

func dirtyKey(campaignUUID string) string {
	return fmt.Sprintf("autosave:dirty:%s", campaignUUID)
}

func (d *Debouncer) markDirty(ctx context.Context, campaignUUID string) {
	if d.rc == nil {
		return
	}
	if err := d.rc.Set(ctx, dirtyKey(campaignUUID), utils.UTCNowRFC3339(), 24*time.Hour).Err(); err != nil {
		log.Printf("autosave dirty marker set failed: %v", err)
	}
}

func (d *Debouncer) clearDirty(ctx context.Context, campaignUUID string) {
	if d.rc == nil {
		return
	}
	if err := d.rc.Del(ctx, dirtyKey(campaignUUID)).Err(); err != nil {
		log.Printf("autosave dirty marker clear failed: %v", err)
	}
}
