package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/peekr/outreach/internal/logging"
	"github.com/peekr/outreach/internal/table"
)

// Defaults for the outreach spreadsheet.
const (
	DefaultSpreadsheetID   = "1_SlKC3SkL90lYf2i_lELZrZQvh2tdMUaZSKe5_nG4WQ"
	DefaultLeadsSheet      = "Incoming Leads"
	DefaultCategoriesSheet = "Categories"
	DefaultFetchTimeout    = 30 * time.Second
)

// Snapshot is one fetch of both worksheets. Treat it as read-only.
type Snapshot struct {
	Generation uuid.UUID
	FetchedAt  time.Time
	Leads      *table.Table
	Categories *table.Table
}

// Options configures a Loader.
type Options struct {
	SpreadsheetID   string
	LeadsSheet      string
	CategoriesSheet string
	CacheTTL        time.Duration
	FetchTimeout    time.Duration
}

func (o Options) withDefaults() Options {
	if o.SpreadsheetID == "" {
		o.SpreadsheetID = DefaultSpreadsheetID
	}
	if o.LeadsSheet == "" {
		o.LeadsSheet = DefaultLeadsSheet
	}
	if o.CategoriesSheet == "" {
		o.CategoriesSheet = DefaultCategoriesSheet
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	return o
}

// Stats describes loader activity.
type Stats struct {
	Fetches    int       `json:"fetches"`
	CacheHits  int       `json:"cache_hits"`
	Cached     bool      `json:"cached"`
	Generation string    `json:"generation,omitempty"`
	FetchedAt  time.Time `json:"fetched_at,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

// Loader fetches both worksheets and memoizes the result until Invalidate.
type Loader struct {
	source Source
	opts   Options
	cache  *Cache
	group  singleflight.Group

	mu    sync.Mutex
	epoch uint64
	stats Stats
}

// NewLoader creates a loader reading from source.
func NewLoader(source Source, opts Options) *Loader {
	opts = opts.withDefaults()
	return &Loader{
		source: source,
		opts:   opts,
		cache:  NewCache(opts.CacheTTL),
	}
}

// Options returns the effective options.
func (l *Loader) Options() Options {
	return l.opts
}

func (l *Loader) key() string {
	return l.opts.SpreadsheetID + "\x00" + l.opts.LeadsSheet + "\x00" + l.opts.CategoriesSheet
}

// Load returns the cached snapshot, fetching both sheets on a miss.
// Concurrent misses share a single fetch. The shared fetch is bounded by
// FetchTimeout only; each caller stops waiting when its own ctx is done.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	key := l.key()
	if snap, ok := l.cache.Get(key); ok {
		l.mu.Lock()
		l.stats.CacheHits++
		l.mu.Unlock()
		return snap, nil
	}

	l.mu.Lock()
	epoch := l.epoch
	l.mu.Unlock()

	ch := l.group.DoChan(key, func() (interface{}, error) {
		return l.fetch(context.WithoutCancel(ctx), key, epoch)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate clears the cache. The next Load fetches again.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.epoch++
	l.mu.Unlock()

	l.cache.Invalidate()
	l.group.Forget(l.key())
	logging.L().Info("sheet cache invalidated")
}

// Refresh invalidates the cache and loads fresh data.
func (l *Loader) Refresh(ctx context.Context) (*Snapshot, error) {
	l.Invalidate()
	return l.Load(ctx)
}

// Stats returns a copy of the loader counters.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	stats := l.stats
	_, stats.Cached = l.cache.Get(l.key())
	return stats
}

func (l *Loader) fetch(ctx context.Context, key string, epoch uint64) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	log := logging.L().With(zap.String("spreadsheet_id", l.opts.SpreadsheetID))

	leads, err := l.source.FetchTable(ctx, l.opts.SpreadsheetID, l.opts.LeadsSheet)
	if err != nil {
		l.recordError(err)
		log.Error("failed to fetch leads sheet", zap.String("sheet", l.opts.LeadsSheet), zap.Error(err))
		return nil, err
	}

	categories, err := l.source.FetchTable(ctx, l.opts.SpreadsheetID, l.opts.CategoriesSheet)
	if err != nil {
		l.recordError(err)
		log.Error("failed to fetch categories sheet", zap.String("sheet", l.opts.CategoriesSheet), zap.Error(err))
		return nil, err
	}

	snap := &Snapshot{
		Generation: uuid.New(),
		FetchedAt:  nowFunc(),
		Leads:      leads,
		Categories: categories,
	}

	// A fetch that raced with Invalidate still answers its callers but is
	// neither cached nor reported in Stats.
	l.mu.Lock()
	l.stats.Fetches++
	l.stats.LastError = ""
	current := l.epoch == epoch
	if current {
		l.stats.Generation = snap.Generation.String()
		l.stats.FetchedAt = snap.FetchedAt
		l.cache.Put(key, snap)
	}
	l.mu.Unlock()

	log.Info("fetched sheets",
		zap.Int("leads", leads.Len()),
		zap.Int("categories", categories.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return snap, nil
}

func (l *Loader) recordError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.LastError = err.Error()
}
