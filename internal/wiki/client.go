package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/litmap/internal/fetch"
	"github.com/ppiankov/litmap/internal/model"
	"github.com/ppiankov/litmap/internal/util"
)

// ErrNoArticle signals that no Wikipedia article exists for any title
// variant. Callers treat the book as having no discoverable prose; the
// location extractor is never invoked with an absent text.
var ErrNoArticle = errors.New("no wikipedia article found")

// Client looks up intro extracts through the MediaWiki API
type Client struct {
	fetcher  *fetch.Client
	endpoint string
}

// NewClient creates a Wikipedia client
func NewClient(fetcher *fetch.Client, cfg model.WikiConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		lang := cfg.Language
		if lang == "" {
			lang = "en"
		}
		endpoint = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
	}

	return &Client{
		fetcher:  fetcher,
		endpoint: endpoint,
	}
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Summary returns the plain-text intro extract for a book, trying the
// disambiguated titles first: "T (novel)", "T (book)", then "T".
// Returns ErrNoArticle when every variant misses.
func (c *Client) Summary(ctx context.Context, title string) (string, error) {
	variants := []string{
		title + " (novel)",
		title + " (book)",
		title,
	}

	for _, variant := range variants {
		extract, err := c.lookup(ctx, variant)
		if err != nil {
			continue
		}
		if extract != "" {
			return extract, nil
		}
	}

	return "", ErrNoArticle
}

func (c *Client) lookup(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("titles", title)
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")

	var resp queryResponse
	if err := c.fetcher.GetJSON(ctx, "wiki", c.endpoint+"?"+params.Encode(), &resp); err != nil {
		return "", err
	}

	for pageID, page := range resp.Query.Pages {
		if pageID == "-1" || page.Extract == "" {
			continue
		}
		extract := page.Extract
		// explaintext is requested, but guard against markup anyway.
		if strings.Contains(extract, "<") {
			extract = util.StripHTML(extract)
		}
		return strings.TrimSpace(extract), nil
	}

	return "", nil
}
