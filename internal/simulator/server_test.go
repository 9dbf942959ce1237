package simulator

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(rand.New(rand.NewSource(7))).Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestPriceKnownTicker(t *testing.T) {
	srv := newTestServer(t)

	var quote struct {
		Ticker   string  `json:"ticker"`
		Price    float64 `json:"price"`
		Currency string  `json:"currency"`
	}
	resp := getJSON(t, srv.URL+"/api/price/IAM", &quote)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "IAM", quote.Ticker)
	assert.Equal(t, "MAD", quote.Currency)
	assert.Greater(t, quote.Price, 0.0)
}

func TestPriceUnknownTicker(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/price/NOPE", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Ticker inconnu", body["error"])
}

func TestAccountIsNullBeforeChallenge(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/account")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "null", string(raw))
}

func TestStartChallengeResetsAccount(t *testing.T) {
	srv := newTestServer(t)

	var started struct {
		Message string  `json:"message"`
		Balance float64 `json:"balance"`
	}
	resp := postJSON(t, srv.URL+"/api/start_challenge", nil, &started)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Challenge Démarré !", started.Message)
	assert.Equal(t, 100000.0, started.Balance)

	var account struct {
		Balance      float64 `json:"balance"`
		StartBalance float64 `json:"start_balance"`
		Status       string  `json:"status"`
	}
	getJSON(t, srv.URL+"/api/account", &account)
	assert.Equal(t, 100000.0, account.Balance)
	assert.Equal(t, 100000.0, account.StartBalance)
	assert.Equal(t, StatusActive, account.Status)
}

func TestTradeWithoutChallenge(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]any
	resp := postJSON(t, srv.URL+"/api/trade",
		map[string]any{"ticker": "BTC-USD", "type": "BUY", "amount": 500}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Aucun challenge actif", body["error"])
}

func TestTradeUnknownTicker(t *testing.T) {
	srv := newTestServer(t)
	postJSON(t, srv.URL+"/api/start_challenge", nil, nil)

	var body map[string]any
	resp := postJSON(t, srv.URL+"/api/trade",
		map[string]any{"ticker": "NOPE", "type": "BUY", "amount": 500}, &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Marché fermé", body["error"])
}

func TestTradeMovesBalance(t *testing.T) {
	srv := newTestServer(t)
	postJSON(t, srv.URL+"/api/start_challenge", nil, nil)

	var result struct {
		Message    string  `json:"message"`
		NewBalance float64 `json:"new_balance"`
		Status     string  `json:"status"`
	}
	resp := postJSON(t, srv.URL+"/api/trade",
		map[string]any{"ticker": "BTC-USD", "type": "BUY", "amount": 500}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ordre exécuté", result.Message)
	assert.Equal(t, StatusActive, result.Status)
	// PnL is within ±5% of the 500 notional.
	assert.InDelta(t, 100000.0, result.NewBalance, 25.0)
	assert.NotEqual(t, 0.0, result.NewBalance)
}
