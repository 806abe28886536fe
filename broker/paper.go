package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dxbquant/orb/pkg/id"
)

var (
	ErrNoPrice    = errors.New("no marked price for symbol")
	ErrNotHolding = errors.New("no open quantity for symbol")
)

type mark struct {
	price float64
	time  time.Time
}

// Paper is an in-process broker that fills at the most recently marked
// price for each symbol. The engine marks every bar close before
// submitting orders, so fills land on the breakout bar's close.
type Paper struct {
	mu    sync.Mutex
	acct  Account
	marks map[string]mark
	held  map[string]float64
}

func NewPaper(acct Account) *Paper {
	return &Paper{
		acct:  acct,
		marks: make(map[string]mark),
		held:  make(map[string]float64),
	}
}

// Mark records the latest traded price for a symbol.
func (p *Paper) Mark(symbol string, price float64, t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marks[symbol] = mark{price: price, time: t}
}

func (p *Paper) GetAccount(ctx context.Context) (Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acct, nil
}

func (p *Paper) CreateMarketOrder(ctx context.Context, req OrderRequest) (OrderFill, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mk, ok := p.marks[req.Symbol]
	if !ok {
		return OrderFill{}, fmt.Errorf("%w: %s", ErrNoPrice, req.Symbol)
	}

	p.held[req.Symbol] += req.Shares
	return OrderFill{
		OrderID: id.New(),
		Symbol:  req.Symbol,
		Shares:  req.Shares,
		Price:   mk.price,
		Time:    mk.time,
	}, nil
}

// ClosePosition reduces the held quantity and fills at the mark.
// Partial closes are allowed; closing more than is held is an error.
func (p *Paper) ClosePosition(ctx context.Context, symbol string, shares float64) (OrderFill, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	held := p.held[symbol]
	if held <= 0 || shares > held {
		return OrderFill{}, fmt.Errorf("%w: %s", ErrNotHolding, symbol)
	}
	mk, ok := p.marks[symbol]
	if !ok {
		return OrderFill{}, fmt.Errorf("%w: %s", ErrNoPrice, symbol)
	}

	p.held[symbol] = held - shares
	if p.held[symbol] == 0 {
		delete(p.held, symbol)
	}
	return OrderFill{
		OrderID: id.New(),
		Symbol:  symbol,
		Shares:  shares,
		Price:   mk.price,
		Time:    mk.time,
	}, nil
}

// Held returns the open quantity for a symbol, for tests and
// reconciliation.
func (p *Paper) Held(symbol string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held[symbol]
}
