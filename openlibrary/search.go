package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookquest/api"
)

// PageSize is how many results one search page carries.
const PageSize = 5

// Client queries the public OpenLibrary catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

func NewClient(log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://openlibrary.org",
		log:        log,
	}
}

type searchResult struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverI           int      `json:"cover_i"`
}

// Search fetches one page of up to PageSize catalog matches for a title and
// maps them into the internal book shape: unsaved id, the searching user as
// owner, status "not read", rating 5. Paging is the caller's concern: page 1
// replaces the result set, later pages append.
func (c *Client) Search(ctx context.Context, userID int64, title string, page int) ([]api.Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if page < 1 {
		page = 1
	}

	searchURL := fmt.Sprintf("%s/search.json?title=%s&limit=%d&page=%d",
		c.baseURL, url.QueryEscape(title), PageSize, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "bookquest/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("openlibrary search failed", zap.String("title", title), zap.Error(err))
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	books := make([]api.Book, 0, len(result.Docs))
	for _, doc := range result.Docs {
		books = append(books, docToBook(doc, userID))
	}
	return books, nil
}

func docToBook(doc searchDoc, userID int64) api.Book {
	author := "Unknown"
	if len(doc.AuthorName) > 0 {
		author = strings.Join(doc.AuthorName, ", ")
	}

	imageURL := ""
	if doc.CoverI != 0 {
		imageURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverI)
	}

	return api.Book{
		ID:       0,
		UserID:   userID,
		Title:    doc.Title,
		Author:   author,
		Year:     doc.FirstPublishYear,
		Read:     api.StatusNotRead,
		Rating:   5,
		ImageURL: imageURL,
	}
}
