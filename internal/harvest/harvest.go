// package harvest fetches configured web sources and extracts their visible
// text for the analyst.
//
// No structural parsing happens here: each page is reduced to clean text and
// the analyst decides what in it looks like a new release.
package harvest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/aria/internal/shared"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

// Page is the harvested text of one source, handed to the analyst.
type Page struct {
	SourceName string `json:"source_name"`
	SourceURL  string `json:"source_url"`
	Text       string `json:"page_text"`
}

// Harvester fetches source pages over HTTP.
type Harvester struct {
	httpClient *http.Client
	logger     *log.Logger
}

// New creates a Harvester. A nil client gets a 15 second timeout default.
func New(client *http.Client, logger *log.Logger) *Harvester {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Harvester{httpClient: client, logger: logger}
}

// Run fetches every configured source. Per-source failures are logged and
// skipped; the remaining sources still harvest.
func (h *Harvester) Run(ctx context.Context, sources []shared.SourceConfig) []Page {
	var pages []Page

	for _, source := range sources {
		h.logger.Info("fetching source", "source", source.Website, "url", source.URL)

		page, err := h.fetch(ctx, source)
		if err != nil {
			h.logger.Error("fetch failed", "source", source.Website, "err", err)
			continue
		}
		if page.Text == "" {
			h.logger.Warn("no text on page", "source", source.Website)
			continue
		}

		pages = append(pages, page)
	}

	return pages
}

// fetch retrieves one source and strips it down to visible text.
func (h *Harvester) fetch(ctx context.Context, source shared.SourceConfig) (Page, error) {
	page := Page{SourceName: source.Website, SourceURL: source.URL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return page, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return page, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return page, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return page, fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	page.Text = CleanText(doc.Text())
	return page, nil
}

// CleanText collapses whitespace runs so the analyst sees compact prose
// instead of layout artifacts.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
