package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

const searchPageHTML = `
<html><body>
<div class="search-results-card">
  <div class="search-results-body">
    <table class="custom-table">
      <tbody>
        <tr>
          <td><span name="date">05/20/2025</span></td>
          <td><a class="symbol-link" href="/news/TSM/">TSM</a></td>
          <td><a href="/news/tsm/tsmc-reports-q1.html">TSMC reports stellar earnings again</a></td>
        </tr>
        <tr>
          <td><span name="date">05/19/2025</span></td>
          <td>
            <a class="symbol-link" href="/news/TSM/">TSM</a>
            <a class="symbol-link" href="/news/NVDA/">NVDA</a>
          </td>
          <td><a href="https://www.stocktitan.net/news/tsm/supply-chain.html">Chip supply chain update</a></td>
        </tr>
        <tr>
          <td><span name="date">05/18/2025</span></td>
          <td><a class="symbol-link" href="/news/TSM/">TSM</a></td>
          <td><a href="/news/tsm/third-article.html">A third article</a></td>
        </tr>
      </tbody>
    </table>
  </div>
</div>
</body></html>`

const articlePageHTML = `
<html><body>
<article>
  <p>TSMC posted record quarterly revenue.</p>
  <p>Demand for AI and HPC chips remains strong.</p>
</article>
</body></html>`

func testClient(srv *httptest.Server) *StockTitanClient {
	c := NewStockTitanClient(srv.Client())
	c.baseURL = srv.URL
	return c
}

func TestSearch_ParsesArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "tsmc", r.URL.Query().Get("query"))
		w.Write([]byte(searchPageHTML))
	}))
	defer srv.Close()

	articles, err := testClient(srv).Search(context.Background(), "TSMC", 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(articles))

	first := articles[0]
	assert.Equal(t, "TSMC reports stellar earnings again", first.Title)
	assert.Equal(t, srv.URL+"/news/tsm/tsmc-reports-q1.html", first.URL)
	assert.Equal(t, "StockTitan", first.Source)
	assert.Equal(t, "05/20/2025", first.LastUpdated)
	assert.Equal(t, []string{"TSM"}, first.Symbols)

	// Absolute links pass through untouched.
	assert.Equal(t, "https://www.stocktitan.net/news/tsm/supply-chain.html", articles[1].URL)
	assert.Equal(t, []string{"TSM", "NVDA"}, articles[1].Symbols)
}

func TestSearch_RespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPageHTML))
	}))
	defer srv.Close()

	articles, err := testClient(srv).Search(context.Background(), "TSMC", 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(articles))
}

func TestSearch_MissingTableIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv).Search(context.Background(), "TSMC", 5)
	assert.NotEqual(t, nil, err)
}

func TestArticleText_ExtractsParagraphs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePageHTML))
	}))
	defer srv.Close()

	text, err := testClient(srv).ArticleText(context.Background(), srv.URL+"/news/tsm/tsmc-reports-q1.html")

	assert.Equal(t, nil, err)
	assert.Equal(t, "TSMC posted record quarterly revenue.\n\nDemand for AI and HPC chips remains strong.", text)
}

func TestSearch_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv).Search(context.Background(), "TSMC", 5)
	assert.NotEqual(t, nil, err)
}
