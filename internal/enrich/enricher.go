// Package enrich fills sparse books.yaml entries from external sources:
// Google Books for metadata, Wikipedia prose for setting locations, and
// optionally an LLM when prose extraction comes up empty.
package enrich

import (
	"context"
	"errors"

	"github.com/ppiankov/litmap/internal/extract"
	"github.com/ppiankov/litmap/internal/googlebooks"
	"github.com/ppiankov/litmap/internal/llm"
	"github.com/ppiankov/litmap/internal/model"
	"github.com/ppiankov/litmap/internal/wiki"
	"github.com/ppiankov/litmap/internal/worker"
)

// Options selects which enrichment phases run
type Options struct {
	Locations    bool
	AllLocations bool
}

// Enricher composes the metadata and location sources. The suggester is
// nil unless an LLM provider is configured.
type Enricher struct {
	wiki      *wiki.Client
	books     *googlebooks.Client
	extractor *extract.LocationExtractor
	suggester *llm.Suggester
	opts      Options
}

// New creates an enricher
func New(wikiClient *wiki.Client, booksClient *googlebooks.Client, suggester *llm.Suggester, opts Options) *Enricher {
	return &Enricher{
		wiki:      wikiClient,
		books:     booksClient,
		extractor: extract.NewLocationExtractor(),
		suggester: suggester,
		opts:      opts,
	}
}

// Metadata looks up fill values for a book. ISBN lookup comes first when
// the book has one; title/author search is the fallback. A nil result
// means no volume matched anywhere.
func (e *Enricher) Metadata(ctx context.Context, book *model.Book) (model.Metadata, error) {
	if book.ISBN != "" {
		info, err := e.books.LookupISBN(ctx, book.ISBN)
		if err != nil {
			return nil, err
		}
		if info != nil {
			return googlebooks.Metadata(info), nil
		}
	}

	info, err := e.books.LookupTitle(ctx, book.Title, book.Author)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	return googlebooks.Metadata(info), nil
}

// Locations returns candidate setting locations for a book. Wikipedia
// prose is the primary source; when it yields nothing the Google Books
// description is tried, then the LLM suggester.
func (e *Enricher) Locations(ctx context.Context, book *model.Book) ([]string, error) {
	summary, err := e.wiki.Summary(ctx, book.Title)
	if err != nil && !errors.Is(err, wiki.ErrNoArticle) {
		return nil, err
	}
	if summary != "" {
		if locations := e.extractor.Extract(summary); len(locations) > 0 {
			return locations, nil
		}
	}

	info, err := e.books.LookupTitle(ctx, book.Title, book.Author)
	if err == nil && info != nil && info.Description != "" {
		if locations := e.extractor.Extract(googlebooks.Description(info)); len(locations) > 0 {
			return locations, nil
		}
	}

	if e.suggester != nil {
		return e.suggester.SuggestLocations(ctx, book.Title, book.Author)
	}

	return nil, nil
}

// ApplyMetadata fills in missing fields from the enrichment values.
// Existing values are never overwritten. Returns the fields applied,
// in the canonical field order.
func ApplyMetadata(book *model.Book, meta model.Metadata) []string {
	var applied []string
	for _, field := range model.EnrichableFields {
		value, ok := meta[field]
		if !ok {
			continue
		}
		switch field {
		case "isbn":
			if book.ISBN == "" {
				if s, ok := value.(string); ok && s != "" {
					book.ISBN = s
					applied = append(applied, field)
				}
			}
		case "author":
			if book.Author == "" {
				if s, ok := value.(string); ok && s != "" {
					book.Author = s
					applied = append(applied, field)
				}
			}
		case "year":
			if book.Year == 0 {
				if y, ok := value.(int); ok && y != 0 {
					book.Year = y
					applied = append(applied, field)
				}
			}
		case "genre":
			if book.Genre == "" {
				if s, ok := value.(string); ok && s != "" {
					book.Genre = s
					applied = append(applied, field)
				}
			}
		case "cover":
			if book.Cover == "" {
				if s, ok := value.(string); ok && s != "" {
					book.Cover = s
					applied = append(applied, field)
				}
			}
		}
	}
	return applied
}

// AddLocations appends names the book does not already list and returns
// the ones added. Comparison is case-insensitive; new entries carry no
// coordinates until build-time geocoding.
func AddLocations(book *model.Book, names []string) []string {
	var added []string
	for _, name := range names {
		if book.HasLocation(name) {
			continue
		}
		book.Locations = append(book.Locations, model.Location{Name: name})
		added = append(added, name)
	}
	return added
}

// NeedsLocations reports whether the location phase should process a
// book: always when all is set, otherwise only books with no locations
// or with a generic country-level one.
func NeedsLocations(book *model.Book, all bool) bool {
	if all {
		return true
	}
	if len(book.Locations) == 0 {
		return true
	}
	return book.HasGenericLocation()
}

// EnrichBook runs the full non-interactive enrichment for one book:
// metadata fill plus, when enabled, the location phase. Implements
// worker.BookEnricher for batch runs.
func (e *Enricher) EnrichBook(ctx context.Context, book *model.Book) *worker.EnrichOutcome {
	outcome := &worker.EnrichOutcome{Title: book.Title}

	if len(book.MissingFields()) > 0 {
		meta, err := e.Metadata(ctx, book)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		if meta != nil {
			outcome.AppliedFields = ApplyMetadata(book, meta)
		}
	}

	if e.opts.Locations && NeedsLocations(book, e.opts.AllLocations) {
		locations, err := e.Locations(ctx, book)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.AddedLocations = AddLocations(book, locations)
	}

	return outcome
}
