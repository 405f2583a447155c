package scraper

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productPage = `<!DOCTYPE html>
<html>
<head>
  <title>Shop - Acme Wireless Speaker</title>
  <meta name="description" content="A portable wireless speaker with 12 hours of battery life and deep bass.">
</head>
<body>
  <div class="product-name"><h1>Acme Wireless Speaker</h1></div>
  <span class="brand">Acme</span>
  <div class="price-current">$49.99</div>
  <div class="product-image"><img src="/images/speaker.jpg" alt="speaker"></div>
</body>
</html>`

func parsePage(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newTestScraper() *Scraper {
	return New(zap.NewNop().Sugar())
}

func TestScrapeProduct_RejectsUnsafeURLs(t *testing.T) {
	s := newTestScraper()
	for _, raw := range []string{
		"http://127.0.0.1/x",
		"javascript:alert(1)",
		"not a url",
		"https://bit.ly/short",
	} {
		info, err := s.ScrapeProduct(context.Background(), raw)
		assert.Nil(t, info, raw)
		assert.ErrorIs(t, err, ErrUnsafeURL, raw)
	}
}

func TestExtractTitle(t *testing.T) {
	s := newTestScraper()
	doc := parsePage(t, productPage)
	assert.Equal(t, "Acme Wireless Speaker", s.extractTitle(doc))

	empty := parsePage(t, "<html><body><p>nothing here</p></body></html>")
	assert.Equal(t, titleNotFound, s.extractTitle(empty))
}

func TestExtractTitle_PrefersProductHeading(t *testing.T) {
	s := newTestScraper()
	doc := parsePage(t, `<html><head><title>MegaShop | Home</title></head>
		<body><h1 class="product-title">Ultra Lamp</h1><h1>Welcome</h1></body></html>`)
	assert.Equal(t, "Ultra Lamp", s.extractTitle(doc))
}

func TestExtractPrice(t *testing.T) {
	s := newTestScraper()
	doc := parsePage(t, productPage)
	assert.Equal(t, "$49.99", s.extractPrice(doc))

	euro := parsePage(t, `<html><body><span class="price">ab 129,90 €</span></body></html>`)
	assert.Equal(t, "129,90 €", s.extractPrice(euro))

	none := parsePage(t, `<html><body><span class="price">call us</span></body></html>`)
	assert.Equal(t, priceNotFound, s.extractPrice(none))
}

func TestExtractBrand(t *testing.T) {
	s := newTestScraper()
	doc := parsePage(t, productPage)
	assert.Equal(t, "Acme", s.extractBrand(doc))

	none := parsePage(t, "<html><body></body></html>")
	assert.Equal(t, brandNotFound, s.extractBrand(none))
}

func TestExtractDescription(t *testing.T) {
	s := newTestScraper()
	doc := parsePage(t, productPage)
	assert.Contains(t, s.extractDescription(doc), "portable wireless speaker")

	short := parsePage(t, `<html><body><div class="description">tiny</div></body></html>`)
	assert.Equal(t, descriptionNotFound, s.extractDescription(short))
}

func TestExtractImage(t *testing.T) {
	s := newTestScraper()
	doc := parsePage(t, productPage)
	assert.Equal(t, "https://shop.example.com/images/speaker.jpg",
		s.extractImage(doc, "https://shop.example.com/p/speaker"))
}

func TestExtractImage_RejectsUnsafeTargets(t *testing.T) {
	s := newTestScraper()
	doc := parsePage(t, `<html><body>
		<div class="product-image"><img src="http://127.0.0.1/evil.jpg"></div>
	</body></html>`)
	assert.Empty(t, s.extractImage(doc, "https://shop.example.com/p/speaker"))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "shop.example.com", extractDomain("https://Shop.Example.com/p/1"))
	assert.Empty(t, extractDomain("://bad"))
}
