package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxbquant/orb/market"
)

func TestPaper_FillsAtMark(t *testing.T) {
	t.Parallel()

	p := NewPaper(Account{ID: "paper", Currency: "USD", Equity: 50000})
	now := time.Date(2025, 6, 2, 18, 35, 0, 0, time.UTC)
	p.Mark("AAPL", 201.5, now)

	fill, err := p.CreateMarketOrder(context.Background(), OrderRequest{
		Symbol:    "AAPL",
		Direction: market.Long,
		Shares:    10,
		Stop:      199,
		TP1:       206.5, TP2: 209, TP3: 211.5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, fill.OrderID)
	assert.InDelta(t, 201.5, fill.Price, 1e-9)
	assert.Equal(t, now, fill.Time)
	assert.InDelta(t, 10.0, p.Held("AAPL"), 1e-9)
}

func TestPaper_NoMarkedPrice(t *testing.T) {
	t.Parallel()

	p := NewPaper(Account{Equity: 50000})
	_, err := p.CreateMarketOrder(context.Background(), OrderRequest{Symbol: "NVDA", Shares: 5})
	assert.ErrorIs(t, err, ErrNoPrice)
}

func TestPaper_PartialClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPaper(Account{Equity: 50000})
	p.Mark("TSLA", 300, time.Now())

	_, err := p.CreateMarketOrder(ctx, OrderRequest{Symbol: "TSLA", Direction: market.Long, Shares: 20})
	require.NoError(t, err)

	p.Mark("TSLA", 315, time.Now())
	fill, err := p.ClosePosition(ctx, "TSLA", 10)
	require.NoError(t, err)
	assert.InDelta(t, 315.0, fill.Price, 1e-9)
	assert.InDelta(t, 10.0, p.Held("TSLA"), 1e-9)

	_, err = p.ClosePosition(ctx, "TSLA", 10)
	require.NoError(t, err)
	assert.Zero(t, p.Held("TSLA"))

	_, err = p.ClosePosition(ctx, "TSLA", 1)
	assert.ErrorIs(t, err, ErrNotHolding)
}

func TestPaper_CloseMoreThanHeld(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPaper(Account{Equity: 50000})
	p.Mark("BP.L", 4.9, time.Now())

	_, err := p.CreateMarketOrder(ctx, OrderRequest{Symbol: "BP.L", Direction: market.Short, Shares: 100})
	require.NoError(t, err)

	_, err = p.ClosePosition(ctx, "BP.L", 150)
	assert.ErrorIs(t, err, ErrNotHolding)
}
