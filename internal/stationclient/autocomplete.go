package stationclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourorg/railbook/internal/models"
)

// Defaults for the autocomplete controller. The page size matches the
// server default; debounce and scroll threshold mirror the web combobox.
const (
	DefaultPageSize        = 50
	DefaultDebounce        = 300 * time.Millisecond
	DefaultScrollThreshold = 40
)

// StationSearcher is the one call the autocomplete needs. *Client satisfies it.
type StationSearcher interface {
	SearchStations(ctx context.Context, query string, page, limit int) (models.StationQueryResult, error)
}

// Options configures an Autocomplete. Zero values fall back to the package
// defaults above.
type Options struct {
	PageSize        int
	Debounce        time.Duration
	ScrollThreshold int
	FetchTimeout    time.Duration

	// OnSelect fires when the user picks a station.
	OnSelect func(models.Station)
	// OnChange fires after every visible state transition, with a snapshot.
	OnChange func(State)
}

// State is an observable snapshot of the widget.
type State struct {
	Open     bool
	Input    string
	Query    string
	Page     int
	Items    []models.Station
	HasMore  bool
	Loading  bool
	Failed   bool
	Selected *models.Station
}

// Autocomplete is the incremental-load station combobox controller:
// keystrokes are debounced into committed queries, pages are fetched one at
// a time and accumulated, and a generation counter discards responses that
// belong to a superseded query or page.
//
// Every committed query and every page bump increments the generation; a
// response is applied only if its generation is still current. That is what
// keeps a slow page-1 response for "a" from clobbering the list after the
// user has already typed "ab".
type Autocomplete struct {
	searcher StationSearcher
	opts     Options

	mu         sync.Mutex
	generation uint64
	open       bool
	input      string
	query      string
	page       int
	items      []models.Station
	hasMore    bool
	loading    bool
	failed     bool
	selected   *models.Station

	debounce *time.Timer
	cancel   context.CancelFunc
}

// NewAutocomplete builds a controller around searcher and, like the web
// widget on mount, schedules an initial empty-query load through the
// debounce path.
func NewAutocomplete(searcher StationSearcher, opts Options) *Autocomplete {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ScrollThreshold <= 0 {
		opts.ScrollThreshold = DefaultScrollThreshold
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultTimeout
	}

	a := &Autocomplete{
		searcher: searcher,
		opts:     opts,
		page:     1,
		hasMore:  true,
	}
	a.armDebounce("")
	return a
}

// SetInput records a keystroke. Each call re-arms the debounce timer, so
// only the last input within the debounce window commits a query.
func (a *Autocomplete) SetInput(text string) {
	a.mu.Lock()
	a.input = text
	a.mu.Unlock()
	a.armDebounce(text)
	a.notify()
}

func (a *Autocomplete) armDebounce(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.debounce != nil {
		a.debounce.Stop()
	}
	a.debounce = time.AfterFunc(a.opts.Debounce, func() {
		a.commit(text)
	})
}

// commit makes text the active query: new generation, page 1, cleared
// accumulation, more assumed available.
func (a *Autocomplete) commit(text string) {
	a.mu.Lock()
	a.generation++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.query = text
	a.page = 1
	a.items = nil
	a.hasMore = true
	a.failed = false
	a.startFetchLocked()
	a.mu.Unlock()
	a.notify()
}

// startFetchLocked launches a fetch for the current (query, page) under the
// current generation. Caller holds a.mu.
func (a *Autocomplete) startFetchLocked() {
	gen := a.generation
	query := a.query
	page := a.page
	a.loading = true

	ctx, cancel := context.WithTimeout(context.Background(), a.opts.FetchTimeout)
	a.cancel = cancel

	go func() {
		defer cancel()
		res, err := a.searcher.SearchStations(ctx, query, page, a.opts.PageSize)

		a.mu.Lock()
		if gen != a.generation {
			// Response to a superseded request; drop it.
			a.mu.Unlock()
			return
		}
		if err != nil {
			a.loading = false
			a.failed = true
			a.mu.Unlock()
			a.notify()
			return
		}

		if page == 1 {
			a.items = res.Items
		} else {
			a.items = append(a.items, res.Items...)
		}
		a.hasMore = page*a.opts.PageSize < res.Total
		a.loading = false
		a.mu.Unlock()
		a.notify()
	}()
}

// HandleScroll advances to the next page when the results panel is within
// the scroll threshold of the bottom and a fetch is neither running nor
// known to fail. Positions are in pixels, matching the DOM scroll model.
func (a *Autocomplete) HandleScroll(scrollTop, clientHeight, scrollHeight int) {
	a.mu.Lock()
	if scrollTop+clientHeight < scrollHeight-a.opts.ScrollThreshold || a.loading || !a.hasMore || a.failed {
		a.mu.Unlock()
		return
	}
	a.page++
	a.generation++
	a.startFetchLocked()
	a.mu.Unlock()
	a.notify()
}

// Retry clears the failure state and re-issues the fetch that failed.
// Without it a failing network would otherwise re-trigger the same fetch on
// every scroll, forever.
func (a *Autocomplete) Retry() {
	a.mu.Lock()
	if !a.failed {
		a.mu.Unlock()
		return
	}
	a.failed = false
	a.generation++
	a.startFetchLocked()
	a.mu.Unlock()
	a.notify()
}

// Select picks the item at index: selection callback, display text written
// into the input, dropdown closed.
func (a *Autocomplete) Select(index int) {
	a.mu.Lock()
	if index < 0 || index >= len(a.items) {
		a.mu.Unlock()
		return
	}
	station := a.items[index]
	a.selected = &station
	a.input = fmt.Sprintf("%s (%s)", station.Name, station.Code)
	a.open = false
	onSelect := a.opts.OnSelect
	a.mu.Unlock()

	if onSelect != nil {
		onSelect(station)
	}
	a.notify()
}

// Focus opens the dropdown. Opening happens only here.
func (a *Autocomplete) Focus() {
	a.mu.Lock()
	a.open = true
	a.mu.Unlock()
	a.notify()
}

// ClickOutside closes the dropdown without touching selection or input.
func (a *Autocomplete) ClickOutside() {
	a.mu.Lock()
	a.open = false
	a.mu.Unlock()
	a.notify()
}

// Close stops the debounce timer and cancels any in-flight fetch.
func (a *Autocomplete) Close() {
	a.mu.Lock()
	a.generation++
	if a.debounce != nil {
		a.debounce.Stop()
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (a *Autocomplete) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Autocomplete) snapshotLocked() State {
	items := make([]models.Station, len(a.items))
	copy(items, a.items)

	var selected *models.Station
	if a.selected != nil {
		s := *a.selected
		selected = &s
	}

	return State{
		Open:     a.open,
		Input:    a.input,
		Query:    a.query,
		Page:     a.page,
		Items:    items,
		HasMore:  a.hasMore,
		Loading:  a.loading,
		Failed:   a.failed,
		Selected: selected,
	}
}

func (a *Autocomplete) notify() {
	if a.opts.OnChange == nil {
		return
	}
	a.opts.OnChange(a.Snapshot())
}
