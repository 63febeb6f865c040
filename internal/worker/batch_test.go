package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/litmap/internal/model"
)

type mockEnricher struct {
	shouldError bool
}

func (m *mockEnricher) EnrichBook(ctx context.Context, book *model.Book) *EnrichOutcome {
	time.Sleep(10 * time.Millisecond)
	if m.shouldError {
		return &EnrichOutcome{Title: book.Title, Err: errors.New("enrich error")}
	}
	return &EnrichOutcome{
		Title:          book.Title,
		AddedLocations: []string{"Paris, France"},
	}
}

func TestBatchEnricher_ProcessBooks(t *testing.T) {
	books := []*model.Book{
		{Title: "My Antonia"},
		{Title: "East of Eden"},
		{Title: "Shogun"},
	}

	batch := NewBatchEnricher(&mockEnricher{}, 2)
	outcomes := batch.ProcessBooks(context.Background(), books)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Err != nil {
			t.Errorf("unexpected error for %s: %v", o.Title, o.Err)
		}
		if len(o.AddedLocations) != 1 {
			t.Errorf("expected 1 added location for %s, got %v", o.Title, o.AddedLocations)
		}
	}
}

func TestBatchEnricher_LibraryLargerThanWorkerBuffers(t *testing.T) {
	count := 50
	books := make([]*model.Book, count)
	for i := range books {
		books[i] = &model.Book{Title: "Book"}
	}

	done := make(chan []*EnrichOutcome)
	go func() {
		batch := NewBatchEnricher(&mockEnricher{}, 2)
		done <- batch.ProcessBooks(context.Background(), books)
	}()

	select {
	case outcomes := <-done:
		if len(outcomes) != count {
			t.Errorf("expected %d outcomes, got %d", count, len(outcomes))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("batch enrichment stalled on a library larger than the worker buffers")
	}
}

func TestBatchEnricher_ContextTimeout(t *testing.T) {
	books := make([]*model.Book, 20)
	for i := range books {
		books[i] = &model.Book{Title: "Book"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	done := make(chan []*EnrichOutcome)
	go func() {
		batch := NewBatchEnricher(&slowEnricher{}, 1)
		done <- batch.ProcessBooks(ctx, books)
	}()

	select {
	case outcomes := <-done:
		if len(outcomes) == len(books) {
			t.Error("expected the timeout to cut the run short")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch enrichment ignored the caller's deadline")
	}
}

type slowEnricher struct{}

func (s *slowEnricher) EnrichBook(ctx context.Context, book *model.Book) *EnrichOutcome {
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
		return &EnrichOutcome{Title: book.Title, Err: ctx.Err()}
	}
	return &EnrichOutcome{Title: book.Title}
}

func TestBatchEnricher_ProcessBooks_Error(t *testing.T) {
	batch := NewBatchEnricher(&mockEnricher{shouldError: true}, 2)
	outcomes := batch.ProcessBooks(context.Background(), []*model.Book{{Title: "My Antonia"}})

	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].GetError() == nil {
		t.Error("expected error, got nil")
	}
}

func TestBatchEnricher_Empty(t *testing.T) {
	batch := NewBatchEnricher(&mockEnricher{}, 2)
	if outcomes := batch.ProcessBooks(context.Background(), nil); len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}
