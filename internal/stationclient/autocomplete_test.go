package stationclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yourorg/railbook/internal/models"
)

// fakeSearcher records calls and answers through a swappable respond func.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []searchCall
	respond func(ctx context.Context, query string, page, limit int) (models.StationQueryResult, error)
}

type searchCall struct {
	query string
	page  int
}

func (f *fakeSearcher) SearchStations(ctx context.Context, query string, page, limit int) (models.StationQueryResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{query: query, page: page})
	respond := f.respond
	f.mu.Unlock()
	return respond(ctx, query, page, limit)
}

func (f *fakeSearcher) callsFor(query string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.query == query {
			n++
		}
	}
	return n
}

// pageOf builds a deterministic result page for a query-tagged dataset.
func pageOf(tag string, total, page, limit int) models.StationQueryResult {
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := make([]models.Station, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, models.Station{
			Name: fmt.Sprintf("%s station %d", tag, i),
			Code: fmt.Sprintf("%s%04d", tag, i),
		})
	}
	return models.StationQueryResult{Total: total, Page: page, Limit: limit, Items: items}
}

func waitFor(t *testing.T, desc string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

func testOptions() Options {
	return Options{
		PageSize:        50,
		Debounce:        20 * time.Millisecond,
		ScrollThreshold: DefaultScrollThreshold,
		FetchTimeout:    time.Second,
	}
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	searcher := &fakeSearcher{
		respond: func(_ context.Context, query string, page, limit int) (models.StationQueryResult, error) {
			return pageOf("x", 3, page, limit), nil
		},
	}
	a := NewAutocomplete(searcher, testOptions())
	defer a.Close()

	// Wait out the initial empty-query load so it cannot interleave.
	waitFor(t, "initial load", func() bool { return searcher.callsFor("") == 1 })

	a.SetInput("d")
	a.SetInput("de")
	a.SetInput("del")

	waitFor(t, "committed query", func() bool { return a.Snapshot().Query == "del" })
	waitFor(t, "fetch settled", func() bool { return !a.Snapshot().Loading })

	if n := searcher.callsFor("d"); n != 0 {
		t.Errorf("query 'd' should have been debounced away, got %d fetches", n)
	}
	if n := searcher.callsFor("de"); n != 0 {
		t.Errorf("query 'de' should have been debounced away, got %d fetches", n)
	}
	if n := searcher.callsFor("del"); n != 1 {
		t.Errorf("expected exactly 1 fetch for 'del', got %d", n)
	}
}

func TestScrollAppendsNextPage(t *testing.T) {
	const total = 120
	searcher := &fakeSearcher{
		respond: func(_ context.Context, query string, page, limit int) (models.StationQueryResult, error) {
			return pageOf("s", total, page, limit), nil
		},
	}
	a := NewAutocomplete(searcher, testOptions())
	defer a.Close()

	waitFor(t, "page 1 loaded", func() bool {
		s := a.Snapshot()
		return len(s.Items) == 50 && !s.Loading
	})

	if !a.Snapshot().HasMore {
		t.Fatal("expected more pages after page 1 of 120")
	}

	// Scroll to within the threshold of the bottom.
	a.HandleScroll(400, 220, 640)
	waitFor(t, "page 2 appended", func() bool {
		s := a.Snapshot()
		return len(s.Items) == 100 && !s.Loading
	})

	s := a.Snapshot()
	if s.Page != 2 {
		t.Errorf("expected page 2, got %d", s.Page)
	}
	if !s.HasMore {
		t.Error("expected hasMore true at 100/120")
	}
	if s.Items[50].Code != "s0050" {
		t.Errorf("append order broken: item 50 is %s", s.Items[50].Code)
	}

	a.HandleScroll(800, 220, 1040)
	waitFor(t, "page 3 appended", func() bool { return len(a.Snapshot().Items) == total })

	if a.Snapshot().HasMore {
		t.Error("expected hasMore false once every record is loaded")
	}

	// Further scrolls must not fetch: nothing more is available.
	before := searcher.callsFor("")
	a.HandleScroll(1200, 220, 1440)
	time.Sleep(50 * time.Millisecond)
	if after := searcher.callsFor(""); after != before {
		t.Errorf("scroll with hasMore=false fetched anyway (%d -> %d)", before, after)
	}
}

func TestScrollFarFromBottomDoesNotFetch(t *testing.T) {
	searcher := &fakeSearcher{
		respond: func(_ context.Context, query string, page, limit int) (models.StationQueryResult, error) {
			return pageOf("s", 120, page, limit), nil
		},
	}
	a := NewAutocomplete(searcher, testOptions())
	defer a.Close()

	waitFor(t, "page 1 loaded", func() bool { return !a.Snapshot().Loading && len(a.Snapshot().Items) == 50 })

	before := searcher.callsFor("")
	// 100px above the bottom, threshold is 40.
	a.HandleScroll(300, 220, 620)
	time.Sleep(50 * time.Millisecond)
	if after := searcher.callsFor(""); after != before {
		t.Errorf("scroll outside threshold fetched (%d -> %d)", before, after)
	}
	if a.Snapshot().Page != 1 {
		t.Errorf("page advanced without reaching threshold: %d", a.Snapshot().Page)
	}
}

func TestStaleResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	searcher := &fakeSearcher{}
	searcher.respond = func(_ context.Context, query string, page, limit int) (models.StationQueryResult, error) {
		if query == "a" {
			// Simulate a slow network for the superseded query.
			<-release
		}
		return pageOf(query, 10, page, limit), nil
	}

	a := NewAutocomplete(searcher, testOptions())
	defer a.Close()
	waitFor(t, "initial load", func() bool { return searcher.callsFor("") == 1 })

	a.SetInput("a")
	waitFor(t, "'a' fetch in flight", func() bool { return searcher.callsFor("a") == 1 })

	// User keeps typing before "a" answers.
	a.SetInput("ab")
	waitFor(t, "'ab' applied", func() bool {
		s := a.Snapshot()
		return s.Query == "ab" && len(s.Items) == 10 && !s.Loading
	})

	// Now the stale "a" response arrives. It must not overwrite "ab".
	close(release)
	time.Sleep(50 * time.Millisecond)

	s := a.Snapshot()
	if s.Query != "ab" {
		t.Fatalf("query corrupted: %q", s.Query)
	}
	for i, item := range s.Items {
		if item.Code != fmt.Sprintf("ab%04d", i) {
			t.Fatalf("item %d belongs to a stale response: %+v", i, item)
		}
	}
}

func TestFetchFailureSetsFailedStateAndRetryRecovers(t *testing.T) {
	var failing sync.Map
	failing.Store("on", true)
	searcher := &fakeSearcher{}
	searcher.respond = func(_ context.Context, query string, page, limit int) (models.StationQueryResult, error) {
		if on, _ := failing.Load("on"); on == true {
			return models.StationQueryResult{}, errors.New("network down")
		}
		return pageOf("ok", 5, page, limit), nil
	}

	a := NewAutocomplete(searcher, testOptions())
	defer a.Close()

	waitFor(t, "failure recorded", func() bool {
		s := a.Snapshot()
		return s.Failed && !s.Loading
	})

	// While failed, scrolling must not re-trigger the same failing fetch.
	before := searcher.callsFor("")
	a.HandleScroll(1000, 220, 1200)
	time.Sleep(50 * time.Millisecond)
	if after := searcher.callsFor(""); after != before {
		t.Errorf("scroll while failed fetched (%d -> %d)", before, after)
	}

	failing.Store("on", false)
	a.Retry()
	waitFor(t, "recovery", func() bool {
		s := a.Snapshot()
		return !s.Failed && !s.Loading && len(s.Items) == 5
	})
}

func TestSelectWritesDisplayTextAndCloses(t *testing.T) {
	searcher := &fakeSearcher{
		respond: func(_ context.Context, query string, page, limit int) (models.StationQueryResult, error) {
			return models.StationQueryResult{
				Total: 1,
				Page:  page,
				Limit: limit,
				Items: []models.Station{{Name: "Delhi", Code: "NDLS"}},
			}, nil
		},
	}

	var picked *models.Station
	opts := testOptions()
	opts.OnSelect = func(s models.Station) { picked = &s }

	a := NewAutocomplete(searcher, opts)
	defer a.Close()

	a.Focus()
	if !a.Snapshot().Open {
		t.Fatal("focus should open the dropdown")
	}
	waitFor(t, "results loaded", func() bool { return len(a.Snapshot().Items) == 1 })

	a.Select(0)

	s := a.Snapshot()
	if s.Input != "Delhi (NDLS)" {
		t.Errorf("expected display text 'Delhi (NDLS)', got %q", s.Input)
	}
	if s.Open {
		t.Error("selection should close the dropdown")
	}
	if picked == nil || picked.Code != "NDLS" {
		t.Errorf("selection callback got %+v", picked)
	}
}

func TestClickOutsideClosesWithoutClearing(t *testing.T) {
	searcher := &fakeSearcher{
		respond: func(_ context.Context, query string, page, limit int) (models.StationQueryResult, error) {
			return pageOf("x", 3, page, limit), nil
		},
	}
	a := NewAutocomplete(searcher, testOptions())
	defer a.Close()

	a.Focus()
	a.SetInput("How")
	a.ClickOutside()

	s := a.Snapshot()
	if s.Open {
		t.Error("click outside should close the dropdown")
	}
	if s.Input != "How" {
		t.Errorf("click outside must not alter the input, got %q", s.Input)
	}
}

func TestFetchCarriesTimeout(t *testing.T) {
	sawDeadline := make(chan bool, 8)
	searcher := &fakeSearcher{
		respond: func(ctx context.Context, query string, page, limit int) (models.StationQueryResult, error) {
			_, ok := ctx.Deadline()
			sawDeadline <- ok
			return pageOf("x", 0, page, limit), nil
		},
	}
	a := NewAutocomplete(searcher, testOptions())
	defer a.Close()

	select {
	case ok := <-sawDeadline:
		if !ok {
			t.Error("fetch context should carry a deadline")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no fetch observed")
	}
}
