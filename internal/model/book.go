package model

import "strings"

// Book represents one entry in books.yaml
type Book struct {
	Title     string     `yaml:"title"`
	Author    string     `yaml:"author,omitempty"`
	ISBN      string     `yaml:"isbn,omitempty"`
	Year      int        `yaml:"year,omitempty"`
	Genre     string     `yaml:"genre,omitempty"`
	Cover     string     `yaml:"cover,omitempty"`
	Review    string     `yaml:"review,omitempty"`
	Locations []Location `yaml:"locations,omitempty"`
}

// Location is a real-world setting of a book. Lat/Lng are optional:
// entries without coordinates are geocoded at build time, hand-pinned
// entries are used as-is.
type Location struct {
	Name string   `yaml:"name"`
	Lat  *float64 `yaml:"lat,omitempty"`
	Lng  *float64 `yaml:"lng,omitempty"`
}

// Library is the books.yaml document root
type Library struct {
	Books []*Book `yaml:"books"`
}

// EnrichableFields are the metadata fields that can be filled in from
// external sources. Existing values are never overwritten.
var EnrichableFields = []string{"isbn", "author", "year", "genre", "cover"}

// Metadata holds enrichment values keyed by field name
type Metadata map[string]interface{}

// MissingFields returns which enrichable fields are absent on the book
func (b *Book) MissingFields() []string {
	var missing []string
	for _, field := range EnrichableFields {
		switch field {
		case "isbn":
			if b.ISBN == "" {
				missing = append(missing, field)
			}
		case "author":
			if b.Author == "" {
				missing = append(missing, field)
			}
		case "year":
			if b.Year == 0 {
				missing = append(missing, field)
			}
		case "genre":
			if b.Genre == "" {
				missing = append(missing, field)
			}
		case "cover":
			if b.Cover == "" {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

// HasLocation reports whether the book already lists the named location
// (case-insensitive).
func (b *Book) HasLocation(name string) bool {
	lower := strings.ToLower(name)
	for _, loc := range b.Locations {
		if strings.ToLower(loc.Name) == lower {
			return true
		}
	}
	return false
}

// genericLocations are catch-all names that add nothing to a map; a book
// whose only locations are generic is a candidate for re-enrichment.
var genericLocations = map[string]bool{
	"united states":  true,
	"usa":            true,
	"united kingdom": true,
	"uk":             true,
	"england":        true,
	"germany":        true,
	"france":         true,
	"china":          true,
	"russia":         true,
}

// HasGenericLocation reports whether any listed location is a generic
// country-level name, marking the book a candidate for re-enrichment.
func (b *Book) HasGenericLocation() bool {
	for _, loc := range b.Locations {
		if genericLocations[strings.ToLower(strings.TrimSpace(loc.Name))] {
			return true
		}
	}
	return false
}
