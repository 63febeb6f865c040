// Package render turns a geocoded library into a static Leaflet map.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/ppiankov/litmap/internal/model"
)

//go:embed map.html
var mapHTML string

var mapTemplate = template.Must(template.New("map").Parse(mapHTML))

// MapLocation is one geocoded marker
type MapLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// MapBook is the per-book payload embedded in the page
type MapBook struct {
	Title     string        `json:"title"`
	Author    string        `json:"author,omitempty"`
	Year      int           `json:"year,omitempty"`
	Genre     string        `json:"genre,omitempty"`
	Cover     string        `json:"cover,omitempty"`
	Review    string        `json:"review,omitempty"`
	Locations []MapLocation `json:"locations"`
}

// BuildViews converts library books into map payloads, dropping books
// with no usable coordinates. Locations without lat/lng are skipped;
// callers geocode first.
func BuildViews(lib *model.Library) []MapBook {
	var views []MapBook
	for _, book := range lib.Books {
		var locations []MapLocation
		for _, loc := range book.Locations {
			if loc.Lat == nil || loc.Lng == nil {
				continue
			}
			locations = append(locations, MapLocation{
				Name: loc.Name,
				Lat:  *loc.Lat,
				Lng:  *loc.Lng,
			})
		}
		if len(locations) == 0 {
			continue
		}
		views = append(views, MapBook{
			Title:     book.Title,
			Author:    book.Author,
			Year:      book.Year,
			Genre:     book.Genre,
			Cover:     book.Cover,
			Review:    book.Review,
			Locations: locations,
		})
	}
	return views
}

type pageData struct {
	Title     string
	BooksJSON template.JS
}

// Render writes the map page for the given books to w
func Render(w io.Writer, title string, books []MapBook) error {
	if books == nil {
		books = []MapBook{}
	}

	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal book data: %w", err)
	}

	return mapTemplate.Execute(w, pageData{
		Title:     title,
		BooksJSON: template.JS(data),
	})
}

// WriteMap renders the map page to dir/index.html and returns its path
func WriteMap(dir, title string, books []MapBook) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := Render(f, title, books); err != nil {
		return "", err
	}

	return path, nil
}
