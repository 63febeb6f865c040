package geocode

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ppiankov/litmap/internal/model"
)

type fakeGeocoder struct {
	results map[string]*Result
	err     error
	calls   []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, name string) (*Result, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[name], nil
}

func TestFill(t *testing.T) {
	pinnedLat, pinnedLng := 51.5074, -0.1278
	lib := &model.Library{
		Books: []*model.Book{
			{
				Title: "Mixed",
				Locations: []model.Location{
					{Name: "London", Lat: &pinnedLat, Lng: &pinnedLng},
					{Name: "Paris, France"},
					{Name: "Atlantis"},
				},
			},
		},
	}

	g := &fakeGeocoder{results: map[string]*Result{
		"Paris, France": {Lat: 48.8566, Lng: 2.3522, DisplayName: "Paris, Île-de-France, France"},
	}}

	stats, err := Fill(context.Background(), g, lib)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	if stats.Resolved != 1 {
		t.Errorf("expected 1 resolved, got %d", stats.Resolved)
	}
	if !reflect.DeepEqual(stats.Unresolved, []string{"Atlantis"}) {
		t.Errorf("unexpected unresolved list: %v", stats.Unresolved)
	}
	if !reflect.DeepEqual(g.calls, []string{"Paris, France", "Atlantis"}) {
		t.Errorf("pinned location should not be geocoded, calls: %v", g.calls)
	}

	paris := lib.Books[0].Locations[1]
	if paris.Lat == nil || paris.Lng == nil || *paris.Lat != 48.8566 || *paris.Lng != 2.3522 {
		t.Errorf("coordinates not written: %+v", paris)
	}
	if lib.Books[0].Locations[2].Lat != nil {
		t.Error("unresolved location should stay without coordinates")
	}
}

func TestFill_GeocoderErrorContinues(t *testing.T) {
	lib := &model.Library{
		Books: []*model.Book{
			{Title: "One", Locations: []model.Location{
				{Name: "Flaky Place"},
				{Name: "Paris, France"},
			}},
		},
	}
	g := &flakyGeocoder{
		failOn: "Flaky Place",
		result: &Result{Lat: 48.8566, Lng: 2.3522},
	}

	stats, err := Fill(context.Background(), g, lib)
	if err != nil {
		t.Fatalf("a per-location error should not abort the pass: %v", err)
	}
	if len(stats.Errors) != 1 {
		t.Errorf("expected 1 collected error, got %v", stats.Errors)
	}
	if stats.Resolved != 1 {
		t.Errorf("expected the remaining location to resolve, got %d", stats.Resolved)
	}
	if lib.Books[0].Locations[1].Lat == nil {
		t.Error("location after the failure should still get coordinates")
	}
}

func TestFill_ContextCancelAborts(t *testing.T) {
	lib := &model.Library{
		Books: []*model.Book{
			{Title: "One", Locations: []model.Location{{Name: "Somewhere"}, {Name: "Elsewhere"}}},
		},
	}
	g := &fakeGeocoder{err: errors.New("context canceled")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Fill(ctx, g, lib); err == nil {
		t.Error("expected cancellation to abort the pass")
	}
	if len(g.calls) > 1 {
		t.Errorf("expected no further lookups after cancellation, got %v", g.calls)
	}
}

type flakyGeocoder struct {
	failOn string
	result *Result
}

func (f *flakyGeocoder) Geocode(_ context.Context, name string) (*Result, error) {
	if name == f.failOn {
		return nil, errors.New("service unavailable")
	}
	return f.result, nil
}
