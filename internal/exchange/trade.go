package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"signal_bot/internal/models"
)

type AssetBalance struct {
	Asset string
	Free  float64
}

// Account — проверка коннективности при старте: подписанный запрос
// аккаунта и ненулевые балансы.
func (c *Client) Account(ctx context.Context) ([]AssetBalance, error) {
	body, err := c.doSigned(ctx, http.MethodGet, "/api/v3/account", nil)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	var payload struct {
		AccountType string `json:"accountType"`
		Balances    []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("account decode: %w", err)
	}

	out := make([]AssetBalance, 0, len(payload.Balances))
	for _, b := range payload.Balances {
		free, err := strconv.ParseFloat(b.Free, 64)
		if err != nil || free <= 0 {
			continue
		}
		out = append(out, AssetBalance{Asset: b.Asset, Free: free})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Free > out[j].Free })
	return out, nil
}

// CreateOrder — рыночный ордер. Количество уже должно быть приведено
// к LOT_SIZE инструмента.
func (c *Client) CreateOrder(ctx context.Context, symbol string, side models.Side, quantity float64) (models.Order, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))

	body, err := c.doSigned(ctx, http.MethodPost, "/api/v3/order", params)
	if err != nil {
		return models.Order{}, err
	}

	var payload struct {
		Symbol      string `json:"symbol"`
		OrderID     int64  `json:"orderId"`
		Status      string `json:"status"`
		ExecutedQty string `json:"executedQty"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Order{}, fmt.Errorf("order decode: %w", err)
	}
	executed, _ := strconv.ParseFloat(payload.ExecutedQty, 64)

	return models.Order{
		Symbol:      payload.Symbol,
		Side:        side,
		Quantity:    quantity,
		OrderID:     strconv.FormatInt(payload.OrderID, 10),
		Status:      models.OrderStatus(payload.Status),
		ExecutedQty: executed,
	}, nil
}

type Fill struct {
	Price   float64
	Qty     float64
	Time    int64 // unix ms
	IsBuyer bool
}

// MyTrades — последние сделки аккаунта по инструменту.
func (c *Client) MyTrades(ctx context.Context, symbol string, limit int) ([]Fill, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.doSigned(ctx, http.MethodGet, "/api/v3/myTrades", params)
	if err != nil {
		return nil, fmt.Errorf("my trades: %w", err)
	}

	var raw []struct {
		Price   string `json:"price"`
		Qty     string `json:"qty"`
		Time    int64  `json:"time"`
		IsBuyer bool   `json:"isBuyer"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("my trades decode: %w", err)
	}

	out := make([]Fill, 0, len(raw))
	for _, t := range raw {
		price, err1 := strconv.ParseFloat(t.Price, 64)
		qty, err2 := strconv.ParseFloat(t.Qty, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Fill{Price: price, Qty: qty, Time: t.Time, IsBuyer: t.IsBuyer})
	}
	return out, nil
}
