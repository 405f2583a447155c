// Package scraper extracts product metadata (title, price, brand,
// description, image) from store pages. It only ever fetches URLs that pass
// the storage layer's safety validation, caps response sizes and reports
// typed failure reasons so the bot can answer users with something better
// than a stack trace.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"promo_bot/internal/storage"
	"promo_bot/pkg/metrics"
)

// Fetch limits mirroring a cautious browser: short timeout, bounded body.
const (
	requestTimeout   = 10 * time.Second
	maxContentLength = 5 * 1024 * 1024
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Typed scrape failures, surfaced to the user via translated messages.
var (
	ErrUnsafeURL    = errors.New("invalid or unsafe URL")
	ErrTimeout      = errors.New("website took too long to respond")
	ErrConnection   = errors.New("unable to reach website")
	ErrAccessDenied = errors.New("website blocked automated access")
	ErrNotFound     = errors.New("page not found")
	ErrOversized    = errors.New("page content too large")
)

// Placeholders used when a page carries no recognizable field, matching what
// users see in the product list.
const (
	titleNotFound       = "Product Title Not Found"
	priceNotFound       = "Price Not Found"
	brandNotFound       = "Brand Not Found"
	descriptionNotFound = "Description Not Found"
)

// ProductInfo is the raw extraction result, sanitized field by field. The
// storage layer revalidates everything again on save.
type ProductInfo struct {
	URL         string
	Title       string
	Price       string
	Brand       string
	Description string
	ImageURL    string
	Domain      string
}

// Scraper fetches and parses product pages over a shared HTTP client.
type Scraper struct {
	client *http.Client
	log    *zap.SugaredLogger
}

// New returns a Scraper ready for use.
func New(log *zap.SugaredLogger) *Scraper {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scraper{
		client: &http.Client{Timeout: requestTimeout},
		log:    log,
	}
}

// ScrapeProduct fetches rawURL and extracts product metadata from it. The URL
// must pass safety validation first; everything else is best-effort with
// placeholders for missing fields.
func (s *Scraper) ScrapeProduct(ctx context.Context, rawURL string) (*ProductInfo, error) {
	if ok, reason := storage.ValidateURL(rawURL); !ok {
		s.log.Warnw("rejected scrape target", "url", rawURL, "reason", reason)
		metrics.IncrementScrapeError("unsafe_url")
		return nil, ErrUnsafeURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		metrics.IncrementScrapeError("connection")
		return nil, ErrConnection
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			metrics.IncrementScrapeError("timeout")
			return nil, ErrTimeout
		}
		metrics.IncrementScrapeError("connection")
		return nil, ErrConnection
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		metrics.IncrementScrapeError("http")
		return nil, ErrAccessDenied
	case resp.StatusCode == http.StatusNotFound:
		metrics.IncrementScrapeError("http")
		return nil, ErrNotFound
	case resp.StatusCode >= 400:
		metrics.IncrementScrapeError("http")
		return nil, fmt.Errorf("HTTP error %d", resp.StatusCode)
	}

	if resp.ContentLength > maxContentLength {
		metrics.IncrementScrapeError("oversized")
		return nil, ErrOversized
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxContentLength))
	if err != nil {
		metrics.IncrementScrapeError("connection")
		return nil, fmt.Errorf("parse page: %w", err)
	}

	info := &ProductInfo{
		URL:         rawURL,
		Title:       s.extractTitle(doc),
		Price:       s.extractPrice(doc),
		Brand:       s.extractBrand(doc),
		Description: s.extractDescription(doc),
		ImageURL:    s.extractImage(doc, rawURL),
		Domain:      extractDomain(rawURL),
	}
	return info, nil
}

var titleSelectors = []string{
	`h1[data-automation-id="product-title"]`,
	"h1.product-title",
	"h1#product-title",
	".product-name h1",
	".product-title",
	`h1[class*="title"]`,
	`h1[class*="product"]`,
	"title",
	"h1",
}

func (s *Scraper) extractTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if title := storage.Sanitize(text, 200); title != "" {
			return title
		}
	}
	return titleNotFound
}

var priceSelectors = []string{
	".price-current",
	".price",
	".product-price",
	`[class*="price"]`,
	`[data-testid*="price"]`,
	".cost",
	".amount",
}

var pricePattern = regexp.MustCompile(`[\$€£¥₽]\s*[\d,]+\.?\d*|\d+[,.]?\d*\s*[\$€£¥₽]`)

func (s *Scraper) extractPrice(doc *goquery.Document) string {
	for _, sel := range priceSelectors {
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if m := pricePattern.FindString(el.Text()); m != "" {
				found = storage.Sanitize(m, 50)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return priceNotFound
}

var descriptionSelectors = []string{
	".product-description",
	".description",
	`[class*="description"]`,
	".product-details",
	".product-info",
	`meta[name="description"]`,
}

func (s *Scraper) extractDescription(doc *goquery.Document) string {
	for _, sel := range descriptionSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if goquery.NodeName(el) == "meta" {
			text, _ = el.Attr("content")
			text = strings.TrimSpace(text)
		}
		// Short fragments are usually nav noise, not a description.
		if len(text) > 20 {
			if desc := storage.Sanitize(text, 500); desc != "" {
				return desc
			}
		}
	}
	return descriptionNotFound
}

var brandSelectors = []string{
	".brand",
	".product-brand",
	`[class*="brand"]`,
	`meta[property="product:brand"]`,
	`span[itemprop="brand"]`,
}

func (s *Scraper) extractBrand(doc *goquery.Document) string {
	for _, sel := range brandSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if goquery.NodeName(el) == "meta" {
			text, _ = el.Attr("content")
			text = strings.TrimSpace(text)
		}
		if text != "" && len(text) < 50 {
			if brand := storage.Sanitize(text, 50); brand != "" {
				return brand
			}
		}
	}
	return brandNotFound
}

var imageSelectors = []string{
	".product-image img",
	".main-image img",
	`[class*="product"] img`,
	`img[alt*="product"]`,
	`img[class*="product"]`,
}

// extractImage resolves the first plausible product image against the page
// URL and re-validates the result; relative junk and unsafe hosts yield "".
func (s *Scraper) extractImage(doc *goquery.Document, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	for _, sel := range imageSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		src, ok := el.Attr("src")
		if !ok || src == "" {
			src, _ = el.Attr("data-src")
		}
		if src == "" {
			continue
		}
		ref, err := url.Parse(src)
		if err != nil {
			continue
		}
		full := base.ResolveReference(ref).String()
		if ok, _ := storage.ValidateURL(full); ok {
			return full
		}
	}
	return ""
}

// extractDomain returns the lowercased host of rawURL, or "".
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
