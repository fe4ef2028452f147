package exchange

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// StreamMiniTickers — один WebSocket на пачку символов: combined stream
// miniTicker. Держит в клиенте кэш последних цен, чтобы P&L-сверка не
// ходила лишний раз в REST. Переподключается сам, закрывается по ctx.
func (c *Client) StreamMiniTickers(ctx context.Context, symbols []string) {
	if len(symbols) == 0 {
		return
	}

	streams := make([]string, 0, len(symbols))
	for _, s := range symbols {
		streams = append(streams, strings.ToLower(s)+"@miniTicker")
	}
	url := c.wsURL + "/stream?streams=" + strings.Join(streams, "/")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Printf("[WS] connect miniTicker %d symbols", len(symbols))
		conn, _, err := c.wsDialer.DialContext(ctx, url, nil)
		if err != nil {
			log.Printf("[WS] dial error: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// читалку рвём по ctx снаружи
		go func() {
			<-ctx.Done()
			_ = conn.Close()
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				_ = conn.Close()
				break
			}
			var frame struct {
				Stream string `json:"stream"`
				Data   struct {
					Symbol string `json:"s"`
					Close  string `json:"c"`
				} `json:"data"`
			}
			if err := sonic.Unmarshal(msg, &frame); err != nil {
				continue
			}
			if frame.Data.Symbol == "" {
				continue
			}
			if px, err := strconv.ParseFloat(frame.Data.Close, 64); err == nil && px > 0 {
				c.SetPrice(frame.Data.Symbol, px)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}
