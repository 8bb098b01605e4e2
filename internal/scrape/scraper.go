// Package scrape fetches presidential action listings from the upstream
// site and converts them into raw records for ingestion.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/akratos/go-actions-backend/internal/domain"
	"github.com/akratos/go-actions-backend/internal/themes"
)

// ErrNoContent is returned when the listing pages yield no records at all.
var ErrNoContent = errors.New("scrape: no actions found")

// Scraper walks the paginated actions listing and extracts title, date
// and source URL for each entry. Extracted records are theme-tagged
// before they are returned.
type Scraper struct {
	baseURL  string
	maxPages int
	client   *http.Client
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithMaxPages bounds how many listing pages a single run will follow.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// New returns a Scraper rooted at baseURL.
func New(baseURL string, opts ...Option) *Scraper {
	s := &Scraper{
		baseURL:  baseURL,
		maxPages: 5,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch walks listing pages starting at the base URL, following the
// pagination link until there are no more pages or the page bound is
// reached. It returns the extracted raw records, already theme-tagged.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.RawAction, error) {
	var records []domain.RawAction

	pageURL := s.baseURL
	for page := 1; page <= s.maxPages && pageURL != ""; page++ {
		doc, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		pageRecords := extractActions(doc, pageURL)
		log.Debug().
			Str("url", pageURL).
			Int("page", page).
			Int("records", len(pageRecords)).
			Msg("scraped listing page")
		records = append(records, pageRecords...)

		pageURL = nextPageURL(doc, pageURL)
	}

	if len(records) == 0 {
		return nil, ErrNoContent
	}
	return records, nil
}

func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("scrape: build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "actions-backend/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scrape: parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// extractActions pulls one record per listing entry. Entries missing a
// title are skipped; entries missing a machine-readable datetime fall
// back to the visible date text.
func extractActions(doc *goquery.Document, pageURL string) []domain.RawAction {
	var records []domain.RawAction

	doc.Find("ul.wp-block-post-template li").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("h2.wp-block-post-title a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		href, _ := link.Attr("href")
		href = resolveURL(pageURL, href)

		timeEl := sel.Find("div.wp-block-post-date time").First()
		date, ok := timeEl.Attr("datetime")
		if !ok || strings.TrimSpace(date) == "" {
			date = strings.TrimSpace(timeEl.Text())
		}

		records = append(records, domain.RawAction{
			Title:     title,
			Date:      strings.TrimSpace(date),
			SourceURL: href,
			Themes:    themes.ClassifyStrings(title),
		})
	})

	return records
}

// nextPageURL returns the absolute URL of the next listing page, or ""
// when the current page is the last one.
func nextPageURL(doc *goquery.Document, pageURL string) string {
	href, ok := doc.Find("a.wp-block-query-pagination-next").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	return resolveURL(pageURL, href)
}

// resolveURL makes href absolute against base. Unparseable inputs are
// returned as-is.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
