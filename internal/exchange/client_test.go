package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

const (
	testKey    = "test-key"
	testSecret = "test-secret"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "ws://unused")
	c.SetCreds(testKey, testSecret)
	c.SetSettleDelay(0)
	return c, srv
}

// проверка подписи: HMAC-SHA256 секрета по query string без signature
func verifySignature(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, testKey, r.Header.Get("X-MBX-APIKEY"))

	q := r.URL.RawQuery
	idx := strings.LastIndex(q, "&signature=")
	require.Positive(t, idx, "signature missing in query: %s", q)
	payload, got := q[:idx], q[idx+len("&signature="):]

	h := hmac.New(sha256.New, []byte(testSecret))
	h.Write([]byte(payload))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), got)

	assert.NotEmpty(t, r.URL.Query().Get("timestamp"))
}

func TestTickers24h_SkipsUnparsableEntries(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/ticker/24hr", r.URL.Path)
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","lastPrice":"50000.0","volume":"1234.5","priceChangePercent":"2.5"},
			{"symbol":"BADUSDT","lastPrice":"oops","volume":"1","priceChangePercent":"1"},
			{"symbol":"ETHUSDT","lastPrice":"3000","volume":"999","priceChangePercent":"-1.2"}
		]`))
	}))

	tickers, err := c.Tickers24h(context.Background())

	require.NoError(t, err)
	require.Len(t, tickers, 2)
	assert.Equal(t, models.Ticker{Symbol: "BTCUSDT", LastPrice: 50000, Volume24h: 1234.5, ChangePct24h: 2.5}, tickers[0])
	assert.Equal(t, "ETHUSDT", tickers[1].Symbol)
}

func TestTickers24h_ServerErrorIsGatewayError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "tea time", http.StatusInternalServerError)
	}))

	_, err := c.Tickers24h(context.Background())

	require.Error(t, err)
	var gwErr *GatewayError
	assert.ErrorAs(t, err, &gwErr)
}

func TestTickers24h_EmptySnapshotIsError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := c.Tickers24h(context.Background())

	require.Error(t, err)
}

func TestSymbolConstraints_ParsesLotSize(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/exchangeInfo", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbols":[{"symbol":"BTCUSDT","filters":[
			{"filterType":"PRICE_FILTER","minPrice":"0.01"},
			{"filterType":"LOT_SIZE","minQty":"0.0001","stepSize":"0.0001"}
		]}]}`))
	}))

	constraints, err := c.SymbolConstraints(context.Background(), "BTCUSDT")

	require.NoError(t, err)
	assert.Equal(t, models.SymbolConstraints{MinQty: 0.0001, StepSize: 0.0001}, constraints)
}

func TestSymbolConstraints_UnknownSymbol(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbols":[]}`))
	}))

	_, err := c.SymbolConstraints(context.Background(), "NOPEUSDT")

	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestSymbolConstraints_MissingLotSizeFilter(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbols":[{"symbol":"BTCUSDT","filters":[]}]}`))
	}))

	_, err := c.SymbolConstraints(context.Background(), "BTCUSDT")

	require.Error(t, err)
}

func TestLastPrice_PrefersFreshCache(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50000"}`))
	}))

	c.SetPrice("BTCUSDT", 49000)
	px, err := c.LastPrice(context.Background(), "BTCUSDT")

	require.NoError(t, err)
	assert.Equal(t, 49000.0, px)
	assert.Zero(t, calls, "свежий кэш не должен ходить в REST")
}

func TestLastPrice_RestFillsCache(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50000.5"}`))
	}))

	px, err := c.LastPrice(context.Background(), "BTCUSDT")

	require.NoError(t, err)
	assert.Equal(t, 50000.5, px)

	cached, ok := c.FreshPrice("BTCUSDT", time.Minute)
	require.True(t, ok)
	assert.Equal(t, 50000.5, cached)
}

func TestCreateOrder_SignedMarketOrder(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/order", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		verifySignature(t, r)

		q := r.URL.Query()
		assert.Equal(t, "BTCUSDT", q.Get("symbol"))
		assert.Equal(t, "BUY", q.Get("side"))
		assert.Equal(t, "MARKET", q.Get("type"))
		assert.Equal(t, "0.0005", q.Get("quantity"))

		w.Write([]byte(`{"symbol":"BTCUSDT","orderId":12345,"status":"FILLED","executedQty":"0.0005"}`))
	}))

	order, err := c.CreateOrder(context.Background(), "BTCUSDT", models.SideBuy, 0.0005)

	require.NoError(t, err)
	assert.Equal(t, "12345", order.OrderID)
	assert.Equal(t, models.OrderStatusFilled, order.Status)
	assert.Equal(t, 0.0005, order.ExecutedQty)
	assert.Equal(t, models.SideBuy, order.Side)
}

func TestCreateOrder_VenueRejection(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-2010,"msg":"Account has insufficient balance."}`))
	}))

	_, err := c.CreateOrder(context.Background(), "BTCUSDT", models.SideBuy, 1)

	require.Error(t, err)
	var venueErr *VenueError
	require.ErrorAs(t, err, &venueErr)
	assert.Equal(t, -2010, venueErr.Code)
}

func TestExecute_FullFlowWithReconciliation(t *testing.T) {
	var orderCalls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/ticker/price":
			w.Write([]byte(`{"symbol":"BTCUSDT","price":"110"}`))
		case "/api/v3/order":
			orderCalls++
			verifySignature(t, r)
			w.Write([]byte(`{"symbol":"BTCUSDT","orderId":7,"status":"FILLED","executedQty":"1"}`))
		case "/api/v3/myTrades":
			verifySignature(t, r)
			// более поздний филл по времени — это и есть вход
			w.Write([]byte(`[
				{"price":"90","qty":"1","time":1000,"isBuyer":true},
				{"price":"100","qty":"1","time":2000,"isBuyer":true}
			]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	order, recon, err := c.Execute(context.Background(), "BTCUSDT", models.SideBuy, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, orderCalls)
	assert.Equal(t, "7", order.OrderID)
	require.NotNil(t, recon)
	assert.Equal(t, 100.0, recon.EntryPrice)
	assert.Equal(t, 110.0, recon.LastPrice)
	assert.InDelta(t, 10.0, recon.PnlPct, 1e-9)
}

func TestExecute_SellPnlInverted(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/ticker/price":
			w.Write([]byte(`{"symbol":"BTCUSDT","price":"90"}`))
		case "/api/v3/order":
			w.Write([]byte(`{"symbol":"BTCUSDT","orderId":8,"status":"FILLED","executedQty":"1"}`))
		case "/api/v3/myTrades":
			w.Write([]byte(`[{"price":"100","qty":"1","time":1000,"isBuyer":false}]`))
		}
	}))

	_, recon, err := c.Execute(context.Background(), "BTCUSDT", models.SideSell, 1)

	require.NoError(t, err)
	require.NotNil(t, recon)
	// шорт: цена упала со 100 до 90 — прибыль +10%
	assert.InDelta(t, 10.0, recon.PnlPct, 1e-9)
}

func TestExecute_UnknownSymbolAbortsBeforeOrder(t *testing.T) {
	var orderCalls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/ticker/price":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
		case "/api/v3/order":
			orderCalls++
		}
	}))

	_, _, err := c.Execute(context.Background(), "NOPEUSDT", models.SideBuy, 1)

	assert.ErrorIs(t, err, ErrSymbolNotFound)
	assert.Zero(t, orderCalls, "ордера быть не должно")
}

func TestExecute_VenueOutageOnValidationIsNotSymbolNotFound(t *testing.T) {
	var orderCalls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/ticker/price":
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"code":-1001,"msg":"Internal error."}`))
		case "/api/v3/order":
			orderCalls++
		}
	}))

	_, _, err := c.Execute(context.Background(), "BTCUSDT", models.SideBuy, 1)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSymbolNotFound)
	var gwErr *GatewayError
	assert.ErrorAs(t, err, &gwErr, "лежащая площадка — транзиентная ошибка, не unknown symbol")
	assert.Zero(t, orderCalls)
}

func TestExecute_ReconciliationFailureIsNonFatal(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/ticker/price":
			w.Write([]byte(`{"symbol":"BTCUSDT","price":"100"}`))
		case "/api/v3/order":
			w.Write([]byte(`{"symbol":"BTCUSDT","orderId":9,"status":"FILLED","executedQty":"1"}`))
		case "/api/v3/myTrades":
			// истории нет — сверить не с чем
			w.Write([]byte(`[]`))
		}
	}))

	order, recon, err := c.Execute(context.Background(), "BTCUSDT", models.SideBuy, 1)

	require.NoError(t, err, "ордер валиден, неудавшаяся сверка — warning")
	assert.Equal(t, "9", order.OrderID)
	assert.Nil(t, recon)
}

func TestDoSigned_RequiresCreds(t *testing.T) {
	c := NewClient("http://localhost:0", "ws://unused")

	_, err := c.Account(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creds")
}
