package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client — REST/WS клиент Binance (testnet или prod, зависит от baseURL).
// Публичные ручки без подписи, торговые — HMAC-SHA256 по query string.
type Client struct {
	http     *http.Client
	wsDialer *websocket.Dialer

	baseURL string
	wsURL   string

	apiKey    string
	apiSecret string

	// кэш последних цен из WS-стрима
	mu     sync.RWMutex
	prices map[string]pricePoint

	// пауза перед чтением истории сделок после ордера
	settleDelay time.Duration
}

type pricePoint struct {
	px float64
	at time.Time
}

func NewClient(baseURL, wsURL string) *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		wsDialer:    &websocket.Dialer{},
		baseURL:     baseURL,
		wsURL:       wsURL,
		prices:      make(map[string]pricePoint),
		settleDelay: time.Second,
	}
}

func (c *Client) SetCreds(key, secret string) { c.apiKey, c.apiSecret = key, secret }

// SetSettleDelay — пауза перед чтением myTrades после ордера (в тестах 0).
func (c *Client) SetSettleDelay(d time.Duration) { c.settleDelay = d }

func (c *Client) SetPrice(symbol string, price float64) {
	c.mu.Lock()
	c.prices[symbol] = pricePoint{px: price, at: time.Now()}
	c.mu.Unlock()
}

// FreshPrice — цена из WS-кэша, если она не старше maxAge.
func (c *Client) FreshPrice(symbol string, maxAge time.Duration) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prices[symbol]
	if !ok || time.Since(p.at) > maxAge {
		return 0, false
	}
	return p.px, true
}

func (c *Client) sign(query string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

// doPublic — GET без подписи. Тело возвращается как есть.
func (c *Client) doPublic(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

// doSigned — подписанный запрос: timestamp + signature в query string,
// ключ в заголовке X-MBX-APIKEY.
func (c *Client) doSigned(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" || c.apiSecret == "" {
		return nil, fmt.Errorf("api creds empty")
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UTC().UnixMilli(), 10))
	query := params.Encode()
	query += "&signature=" + c.sign(query)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, venueErrorFromResponse(resp.StatusCode, body)
	}
	return body, nil
}
