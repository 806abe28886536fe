// Package broker defines the order execution boundary. The engine only
// talks to the Broker interface; the paper implementation fills against
// marked bar prices.
package broker

import (
	"context"
	"time"

	"github.com/dxbquant/orb/market"
)

type Broker interface {
	GetAccount(ctx context.Context) (Account, error)
	CreateMarketOrder(ctx context.Context, req OrderRequest) (OrderFill, error)
	ClosePosition(ctx context.Context, symbol string, shares float64) (OrderFill, error)
}

type Account struct {
	ID       string
	Currency string
	Equity   float64
}

// OrderRequest is an entry order with its protective levels. The stop
// and take-profit ladder are carried for brokers that support attached
// orders; the paper broker records them but exits are driven by the
// caller.
type OrderRequest struct {
	Symbol    string
	Direction market.Direction
	Shares    float64
	Stop      float64
	TP1       float64
	TP2       float64
	TP3       float64
}

type OrderFill struct {
	OrderID string
	Symbol  string
	Shares  float64
	Price   float64
	Time    time.Time
}
