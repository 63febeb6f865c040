package googlebooks

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/litmap/internal/fetch"
	"github.com/ppiankov/litmap/internal/model"
	"github.com/ppiankov/litmap/internal/util"
)

// Client looks up book metadata through the Google Books volumes API
type Client struct {
	fetcher  *fetch.Client
	endpoint string
}

// NewClient creates a Google Books client
func NewClient(fetcher *fetch.Client, cfg model.BooksAPIConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://www.googleapis.com/books/v1/volumes"
	}

	return &Client{
		fetcher:  fetcher,
		endpoint: endpoint,
	}
}

// VolumeInfo is the subset of the volumes API response litmap uses
type VolumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	PublishedDate       string   `json:"publishedDate"`
	Categories          []string `json:"categories"`
	Description         string   `json:"description"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo VolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

// LookupISBN finds a volume by ISBN. A nil result with nil error means
// no volume matched; that is normal, not a failure.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*VolumeInfo, error) {
	clean := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	return c.query(ctx, "isbn:"+clean)
}

// LookupTitle finds a volume by title and optional author
func (c *Client) LookupTitle(ctx context.Context, title, author string) (*VolumeInfo, error) {
	q := "intitle:" + title
	if author != "" {
		q += " inauthor:" + author
	}
	return c.query(ctx, q)
}

func (c *Client) query(ctx context.Context, q string) (*VolumeInfo, error) {
	params := url.Values{}
	params.Set("q", q)

	var resp volumesResponse
	if err := c.fetcher.GetJSON(ctx, "googlebooks", c.endpoint+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if resp.TotalItems == 0 || len(resp.Items) == 0 {
		return nil, nil
	}

	info := resp.Items[0].VolumeInfo
	return &info, nil
}

// Metadata maps a volume onto the enrichable book fields
func Metadata(info *VolumeInfo) model.Metadata {
	meta := model.Metadata{}

	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
			meta["isbn"] = id.Identifier
			break
		}
	}

	if len(info.Authors) > 0 {
		meta["author"] = strings.Join(info.Authors, " and ")
	}

	if info.PublishedDate != "" {
		yearStr := strings.SplitN(info.PublishedDate, "-", 2)[0]
		if year, err := strconv.Atoi(yearStr); err == nil {
			meta["year"] = year
		}
	}

	if len(info.Categories) > 0 {
		meta["genre"] = simplifyGenre(info.Categories[0])
	}

	if info.ImageLinks.Thumbnail != "" {
		// zoom=0 is the higher-resolution variant of the same image.
		meta["cover"] = strings.Replace(info.ImageLinks.Thumbnail, "zoom=1", "zoom=0", 1)
	}

	return meta
}

// Description returns the volume description as plain prose
func Description(info *VolumeInfo) string {
	return util.StripHTML(info.Description)
}

// simplifyGenre collapses Google Books category strings into the short
// genre labels books.yaml uses.
func simplifyGenre(category string) string {
	switch {
	case strings.Contains(category, "Fiction"):
		switch {
		case strings.Contains(category, "Historical"):
			return "Historical Fiction"
		case strings.Contains(category, "Science"):
			return "Science Fiction"
		case strings.Contains(category, "Young Adult"):
			return "Young Adult Fiction"
		default:
			return "Fiction"
		}
	case strings.Contains(category, "Biography"), strings.Contains(category, "Memoir"):
		return "Biography"
	case strings.Contains(category, "History"):
		return "History"
	case strings.Contains(category, "Mystery"), strings.Contains(category, "Thriller"):
		return "Mystery"
	default:
		return category
	}
}
