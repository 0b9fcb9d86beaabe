package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/country"
	"github.com/peekr/outreach/internal/logging"
	"github.com/peekr/outreach/internal/report"
	"github.com/peekr/outreach/internal/sheets"
	"github.com/peekr/outreach/internal/table"
)

var ErrUnknownDimension = errors.New("unknown dimension")

// SnapshotLoader is the cache-backed sheet loader.
type SnapshotLoader interface {
	Load(ctx context.Context) (*sheets.Snapshot, error)
	Refresh(ctx context.Context) (*sheets.Snapshot, error)
	Stats() sheets.Stats
}

// Notifier receives refresh events, e.g. a websocket hub.
type Notifier interface {
	Broadcast(msg []byte)
}

// View is one rendered pass over the current snapshot.
type View struct {
	Generation     string         `json:"generation"`
	FetchedAt      time.Time      `json:"fetched_at"`
	FiltersEnabled bool           `json:"filters_enabled"`
	Selection      Selection      `json:"selection"`
	Options        Options        `json:"options"`
	Summary        report.Summary `json:"summary"`

	Leads      *table.Table `json:"-"`
	Categories *table.Table `json:"-"`
}

// Dimensions that can be broken down, mapped to the table and column backing them.
var dimensions = map[string]struct {
	categories bool
	column     string
}{
	"location": {true, country.LocationColumn},
	"country":  {true, country.CountryColumn},
	"category": {false, report.CategoryColumn},
	"domain":   {false, report.DomainColumn},
	"status":   {false, report.StatusColumn},
}

// Distribution returns the value counts for a named dimension.
func (v *View) Distribution(dimension string) (report.Distribution, error) {
	dim, ok := dimensions[dimension]
	if !ok {
		return nil, ErrUnknownDimension
	}
	if dim.categories {
		return report.ValueDistribution(v.Categories, dim.column), nil
	}
	return report.ValueDistribution(v.Leads, dim.column), nil
}

// RefreshEvent is broadcast after the cache is rebuilt.
type RefreshEvent struct {
	Type       string    `json:"type"`
	Generation string    `json:"generation"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Service runs load, augment, filter and aggregate for each request.
type Service struct {
	loader         SnapshotLoader
	filtersEnabled bool
	notifier       Notifier
}

// NewService creates the dashboard use case. When filtersEnabled is false
// the country column is not derived and selections are ignored.
func NewService(loader SnapshotLoader, filtersEnabled bool, notifier Notifier) *Service {
	return &Service{
		loader:         loader,
		filtersEnabled: filtersEnabled,
		notifier:       notifier,
	}
}

// FiltersEnabled reports whether the filter stage runs.
func (s *Service) FiltersEnabled() bool {
	return s.filtersEnabled
}

// Build produces the view for sel.
func (s *Service) Build(ctx context.Context, sel Selection) (*View, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	leads, categories := snap.Leads, snap.Categories
	view := &View{
		Generation:     snap.Generation.String(),
		FetchedAt:      snap.FetchedAt,
		FiltersEnabled: s.filtersEnabled,
		Selection:      Selection{}.Normalized(),
	}

	if s.filtersEnabled {
		leads = country.Augment(leads, country.LocationColumn, country.CountryColumn)
		categories = country.Augment(categories, country.LocationColumn, country.CountryColumn)
		view.Options = FilterOptions(leads, categories)
		view.Selection = sel.Normalized()
		leads = ApplyFilter(leads, sel)
		categories = ApplyFilter(categories, sel)
	}

	view.Leads = leads
	view.Categories = categories
	view.Summary = report.Summarize(leads, categories)
	return view, nil
}

// Refresh clears the loader cache, fetches again and notifies listeners.
func (s *Service) Refresh(ctx context.Context) (*sheets.Snapshot, error) {
	snap, err := s.loader.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		payload, err := json.Marshal(RefreshEvent{
			Type:       "refreshed",
			Generation: snap.Generation.String(),
			FetchedAt:  snap.FetchedAt,
		})
		if err != nil {
			logging.L().Warn("failed to marshal refresh event", zap.Error(err))
		} else {
			s.notifier.Broadcast(payload)
		}
	}
	return snap, nil
}

// Stats exposes loader counters.
func (s *Service) Stats() sheets.Stats {
	return s.loader.Stats()
}
