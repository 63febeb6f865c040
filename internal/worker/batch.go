package worker

import (
	"context"

	"github.com/ppiankov/litmap/internal/model"
)

// BookEnricher enriches a single book in place and reports what changed.
type BookEnricher interface {
	EnrichBook(ctx context.Context, book *model.Book) *EnrichOutcome
}

// EnrichOutcome describes what an enrichment pass did to one book.
type EnrichOutcome struct {
	Title          string
	AppliedFields  []string
	AddedLocations []string
	Err            error
}

// GetError returns the enrichment error, if any
func (o *EnrichOutcome) GetError() error {
	return o.Err
}

// EnrichJob enriches one book
type EnrichJob struct {
	Book     *model.Book
	Enricher BookEnricher
}

// Execute runs the enrichment
func (j *EnrichJob) Execute(ctx context.Context) Result {
	return j.Enricher.EnrichBook(ctx, j.Book)
}

// BatchEnricher enriches many books concurrently. Only used when
// confirmation prompts are disabled; interactive runs stay serial.
type BatchEnricher struct {
	enricher    BookEnricher
	concurrency int
}

// NewBatchEnricher creates a batch enricher
func NewBatchEnricher(enricher BookEnricher, concurrency int) *BatchEnricher {
	return &BatchEnricher{
		enricher:    enricher,
		concurrency: concurrency,
	}
}

// ProcessBooks enriches all books concurrently and returns one outcome
// per book. Outcome order follows completion, not input order.
func (b *BatchEnricher) ProcessBooks(ctx context.Context, books []*model.Book) []*EnrichOutcome {
	if len(books) == 0 {
		return []*EnrichOutcome{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for _, book := range books {
		pool.Submit(&EnrichJob{
			Book:     book,
			Enricher: b.enricher,
		})
	}

	results := pool.Wait()

	outcomes := make([]*EnrichOutcome, len(results))
	for i, result := range results {
		outcomes[i] = result.(*EnrichOutcome)
	}

	return outcomes
}
