package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/litmap/internal/cache"
	"github.com/ppiankov/litmap/internal/fetch"
	"github.com/ppiankov/litmap/internal/model"
)

func newTestClient(serverURL string) *Client {
	fetcher := fetch.NewClient(model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "litmap-test",
		MaxBodyBytes: 1 << 20,
	}, cache.Nop{}, nil, nil)

	return NewClient(fetcher, model.WikiConfig{Endpoint: serverURL})
}

func TestSummary_TitleVariants(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("titles")
		requested = append(requested, title)

		if title == "My Antonia" {
			_, _ = fmt.Fprint(w, `{"query":{"pages":{"12345":{"extract":"The novel is set in Nebraska."}}}}`)
			return
		}
		// Missing pages come back keyed "-1".
		_, _ = fmt.Fprint(w, `{"query":{"pages":{"-1":{}}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	extract, err := client.Summary(context.Background(), "My Antonia")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if extract != "The novel is set in Nebraska." {
		t.Errorf("unexpected extract: %q", extract)
	}

	want := []string{"My Antonia (novel)", "My Antonia (book)", "My Antonia"}
	if len(requested) != len(want) {
		t.Fatalf("expected %d lookups, got %d: %v", len(want), len(requested), requested)
	}
	for i, title := range want {
		if requested[i] != title {
			t.Errorf("lookup %d: expected %q, got %q", i, title, requested[i])
		}
	}
}

func TestSummary_FirstVariantWins(t *testing.T) {
	var lookups int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lookups++
		_, _ = fmt.Fprint(w, `{"query":{"pages":{"7":{"extract":"Set in Paris, France."}}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if _, err := client.Summary(context.Background(), "A Moveable Feast"); err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if lookups != 1 {
		t.Errorf("expected 1 lookup when the first variant hits, got %d", lookups)
	}
}

func TestSummary_NoArticle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"query":{"pages":{"-1":{}}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Summary(context.Background(), "Nonexistent Book")
	if !errors.Is(err, ErrNoArticle) {
		t.Errorf("expected ErrNoArticle, got %v", err)
	}
}

func TestSummary_StripsResidualMarkup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"query":{"pages":{"9":{"extract":"<p>The story takes place in <b>Kyoto</b>.</p>"}}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	extract, err := client.Summary(context.Background(), "Some Book")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if strings.Contains(extract, "<") {
		t.Errorf("expected markup stripped, got %q", extract)
	}
	if !strings.Contains(extract, "Kyoto") {
		t.Errorf("expected text preserved, got %q", extract)
	}
}
