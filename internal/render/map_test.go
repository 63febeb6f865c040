package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/litmap/internal/model"
)

func ptr(f float64) *float64 { return &f }

func TestBuildViews(t *testing.T) {
	lib := &model.Library{
		Books: []*model.Book{
			{
				Title:  "East of Eden",
				Author: "John Steinbeck",
				Year:   1952,
				Locations: []model.Location{
					{Name: "Salinas Valley, California", Lat: ptr(36.6777), Lng: ptr(-121.6555)},
					{Name: "Connecticut"},
				},
			},
			{
				Title:     "Ungeocodable",
				Locations: []model.Location{{Name: "Nowhere"}},
			},
			{
				Title: "No Locations",
			},
		},
	}

	views := BuildViews(lib)

	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	view := views[0]
	if view.Title != "East of Eden" || view.Author != "John Steinbeck" || view.Year != 1952 {
		t.Errorf("unexpected view: %+v", view)
	}
	if len(view.Locations) != 1 {
		t.Fatalf("expected 1 geocoded location, got %d", len(view.Locations))
	}
	loc := view.Locations[0]
	if loc.Name != "Salinas Valley, California" || loc.Lat != 36.6777 || loc.Lng != -121.6555 {
		t.Errorf("unexpected location: %+v", loc)
	}
}

func TestRender(t *testing.T) {
	books := []MapBook{
		{
			Title:  "The Trial",
			Author: "Franz Kafka",
			Locations: []MapLocation{
				{Name: "Prague, Czech Republic", Lat: 50.0755, Lng: 14.4378},
			},
		},
	}

	var buf bytes.Buffer
	if err := Render(&buf, "Book Locations Map", books); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"<title>Book Locations Map</title>",
		"The Trial",
		"Franz Kafka",
		"Prague, Czech Republic",
		"50.0755",
		"markerClusterGroup",
		"leaflet@1.9.4",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRender_NoBooks(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "Book Locations Map", nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "const booksData = []") {
		t.Error("expected an empty books array in the page")
	}
}

func TestWriteMap(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	books := []MapBook{
		{Title: "Dracula", Locations: []MapLocation{{Name: "Transylvania, Romania", Lat: 46.0, Lng: 25.0}}},
	}

	path, err := WriteMap(dir, "Book Locations Map", books)
	if err != nil {
		t.Fatalf("WriteMap failed: %v", err)
	}
	if filepath.Base(path) != "index.html" {
		t.Errorf("unexpected output file %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Dracula") {
		t.Error("output file missing book data")
	}
}
