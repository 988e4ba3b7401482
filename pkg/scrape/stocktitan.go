package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://www.stocktitan.net"

// Article is one news hit from the StockTitan search page.
type Article struct {
	Title       string
	URL         string
	Source      string
	LastUpdated string
	Symbols     []string
}

type StockTitanClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewStockTitanClient(client *http.Client) *StockTitanClient {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &StockTitanClient{
		baseURL:    defaultBaseURL,
		httpClient: client,
	}
}

// Search scrapes the news search results for a query. An empty result set is
// not an error; a missing results table is.
func (c *StockTitanClient) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	searchURL := fmt.Sprintf("%s/search?query=%s&filter=news", c.baseURL, url.QueryEscape(strings.ToLower(query)))

	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	table := doc.Find("div.search-results-card table.custom-table")
	if table.Length() == 0 {
		return nil, fmt.Errorf("stocktitan: news table not found for %q", query)
	}

	var articles []Article
	table.Find("tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if limit > 0 && len(articles) >= limit {
			return false
		}

		cols := row.Find("td")
		if cols.Length() != 3 {
			return true
		}

		date := strings.TrimSpace(cols.Eq(0).Find(`span[name="date"]`).Text())

		var symbols []string
		cols.Eq(1).Find("a.symbol-link").Each(func(_ int, link *goquery.Selection) {
			if s := strings.TrimSpace(link.Text()); s != "" {
				symbols = append(symbols, s)
			}
		})

		titleLink := cols.Eq(2).Find("a").First()
		title := strings.TrimSpace(titleLink.Text())
		href, ok := titleLink.Attr("href")
		if !ok || title == "" {
			return true
		}

		articles = append(articles, Article{
			Title:       title,
			URL:         c.absoluteURL(href),
			Source:      "StockTitan",
			LastUpdated: date,
			Symbols:     symbols,
		})
		return true
	})

	return articles, nil
}

// ArticleText fetches an article page and extracts its body paragraphs.
func (c *StockTitanClient) ArticleText(ctx context.Context, articleURL string) (string, error) {
	doc, err := c.fetchDocument(ctx, articleURL)
	if err != nil {
		return "", err
	}

	var parts []string
	container := doc.Find("article")
	if container.Length() == 0 {
		container = doc.Find("body")
	}
	container.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
		return len(parts) < 10
	})

	if len(parts) == 0 {
		return "", fmt.Errorf("stocktitan: no article text at %s", articleURL)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (c *StockTitanClient) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("stocktitan request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stocktitan fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stocktitan: unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stocktitan parse: %w", err)
	}
	return doc, nil
}

func (c *StockTitanClient) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return c.baseURL + "/" + strings.TrimPrefix(href, "/")
}
