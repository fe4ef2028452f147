package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSymbolNotFound — инструмент не торгуется на площадке.
var ErrSymbolNotFound = errors.New("symbol not found")

// GatewayError — транзиентная ошибка чтения маркет-даты (сеть, таймаут,
// битый ответ). Ретраится вызывающей стороной.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("gateway %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

func gatewayErr(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

// VenueError — площадка отклонила запрос (недостаточно средств,
// неверные параметры и т.п.).
type VenueError struct {
	HTTPStatus int
	Code       int
	Msg        string
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("venue rejected: http %d code=%d msg=%s", e.HTTPStatus, e.Code, e.Msg)
}

// binance: {"code":-1121,"msg":"Invalid symbol."}
const codeInvalidSymbol = -1121

func venueErrorFromResponse(status int, body []byte) error {
	var payload struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Code != 0 {
		if payload.Code == codeInvalidSymbol {
			return ErrSymbolNotFound
		}
		return &VenueError{HTTPStatus: status, Code: payload.Code, Msg: payload.Msg}
	}
	return &VenueError{HTTPStatus: status, Msg: string(body)}
}
