package stock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func avTestServer(t *testing.T, payload map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
}

func avTestClient(srv *httptest.Server) *AlphaVantageClient {
	client := &AlphaVantageClient{
		apiKey:     "test-key",
		httpClient: srv.Client(),
	}
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}
	return client
}

func TestAlphaVantageQuote(t *testing.T) {
	payload := map[string]interface{}{
		"Time Series (Daily)": map[string]interface{}{
			"2025-05-20": map[string]string{"4. close": "191.98"},
			"2025-05-19": map[string]string{"4. close": "196.19"},
			"2025-05-16": map[string]string{"4. close": "190.04"},
		},
	}
	srv := avTestServer(t, payload)
	defer srv.Close()

	quote, err := avTestClient(srv).Quote(context.Background(), "TSM")

	assert.Equal(t, nil, err)
	assert.Equal(t, "TSM", quote.Symbol)
	assert.Equal(t, "2025-05-20", quote.LatestTradingDay)
	assert.Equal(t, 191.98, quote.LatestClose)
	assert.Equal(t, "2025-05-19", quote.PreviousTradingDay)
	assert.Equal(t, 196.19, quote.PreviousClose)
}

func TestAlphaVantageQuote_APIError(t *testing.T) {
	payload := map[string]interface{}{
		"Error Message": "Invalid API call.",
	}
	srv := avTestServer(t, payload)
	defer srv.Close()

	_, err := avTestClient(srv).Quote(context.Background(), "NOPE")
	assert.NotEqual(t, nil, err)
}

func TestAlphaVantageQuote_RateLimitNote(t *testing.T) {
	payload := map[string]interface{}{
		"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day.",
	}
	srv := avTestServer(t, payload)
	defer srv.Close()

	_, err := avTestClient(srv).Quote(context.Background(), "TSM")
	assert.NotEqual(t, nil, err)
}

func TestAlphaVantageQuote_NotEnoughHistory(t *testing.T) {
	payload := map[string]interface{}{
		"Time Series (Daily)": map[string]interface{}{
			"2025-05-20": map[string]string{"4. close": "191.98"},
		},
	}
	srv := avTestServer(t, payload)
	defer srv.Close()

	_, err := avTestClient(srv).Quote(context.Background(), "TSM")
	assert.NotEqual(t, nil, err)
}

// rewriteTransport redirects all requests to a fixed base URL (test server).
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}
