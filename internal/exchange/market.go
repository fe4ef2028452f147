package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"signal_bot/internal/models"
)

type ticker24 struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	Volume             string `json:"volume"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// Tickers24h — снимок 24h-статистики по всем инструментам разом.
// Ошибки сети/декодирования заворачиваются в GatewayError; ретраи —
// забота вызывающего.
func (c *Client) Tickers24h(ctx context.Context) ([]models.Ticker, error) {
	body, err := c.doPublic(ctx, "/api/v3/ticker/24hr", nil)
	if err != nil {
		return nil, gatewayErr("tickers24h", err)
	}

	// массив на пару тысяч элементов, поэтому sonic
	var raw []ticker24
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, gatewayErr("tickers24h decode", err)
	}

	out := make([]models.Ticker, 0, len(raw))
	for _, t := range raw {
		price, err1 := strconv.ParseFloat(t.LastPrice, 64)
		vol, err2 := strconv.ParseFloat(t.Volume, 64)
		chg, err3 := strconv.ParseFloat(t.PriceChangePercent, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue // битый тикер пропускаем, не валим весь снимок
		}
		out = append(out, models.Ticker{
			Symbol:       t.Symbol,
			LastPrice:    price,
			Volume24h:    vol,
			ChangePct24h: chg,
		})
	}
	if len(out) == 0 {
		return nil, gatewayErr("tickers24h", fmt.Errorf("empty snapshot"))
	}
	return out, nil
}

// SymbolConstraints — фильтр LOT_SIZE инструмента. При любой ошибке
// вызывающий сам решает, применять ли DefaultConstraints.
func (c *Client) SymbolConstraints(ctx context.Context, symbol string) (models.SymbolConstraints, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	body, err := c.doPublic(ctx, "/api/v3/exchangeInfo", params)
	if err != nil {
		return models.SymbolConstraints{}, fmt.Errorf("exchange info: %w", err)
	}

	var payload struct {
		Symbols []struct {
			Symbol  string `json:"symbol"`
			Filters []struct {
				FilterType string `json:"filterType"`
				MinQty     string `json:"minQty"`
				StepSize   string `json:"stepSize"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.SymbolConstraints{}, fmt.Errorf("exchange info decode: %w", err)
	}
	if len(payload.Symbols) == 0 {
		return models.SymbolConstraints{}, ErrSymbolNotFound
	}

	parsePos := func(name, s string) (float64, error) {
		if s == "" {
			return 0, fmt.Errorf("%s empty", name)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%s parse: %v (%q)", name, err, s)
		}
		return v, nil
	}

	for _, f := range payload.Symbols[0].Filters {
		if f.FilterType != "LOT_SIZE" {
			continue
		}
		minQty, err := parsePos("minQty", f.MinQty)
		if err != nil {
			return models.SymbolConstraints{}, err
		}
		stepSize, err := parsePos("stepSize", f.StepSize)
		if err != nil {
			return models.SymbolConstraints{}, err
		}
		return models.SymbolConstraints{MinQty: minQty, StepSize: stepSize}, nil
	}
	return models.SymbolConstraints{}, fmt.Errorf("no LOT_SIZE filter for %s", symbol)
}

// LastPrice — текущая котировка. Сначала пробуем свежий WS-кэш,
// потом REST /ticker/price.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	if px, ok := c.FreshPrice(symbol, 10*time.Second); ok {
		return px, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	body, err := c.doPublic(ctx, "/api/v3/ticker/price", params)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("ticker price decode: %w", err)
	}
	px, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("ticker price parse: %w", err)
	}
	c.SetPrice(symbol, px)
	return px, nil
}
