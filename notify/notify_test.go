package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxbquant/orb/confirm"
	"github.com/dxbquant/orb/journal"
	"github.com/dxbquant/orb/lifecycle"
	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/regime"
)

func TestSignalEvent(t *testing.T) {
	t.Parallel()

	ev := Signal(confirm.Signal{
		Symbol:    "AAPL",
		Direction: market.Long,
		Condition: regime.Trending,
		Factors: confirm.Factors{
			StrongVolume:   true,
			BiasAligned:    true,
			RegimeSuitable: true,
		},
		Confirmations: 3,
		TargetRR:      3.0,
	})

	assert.Equal(t, KindSignal, ev.Kind)
	assert.Equal(t, "Signal LONG AAPL", ev.Title)
	assert.Contains(t, ev.Body, "TRENDING")
	assert.Contains(t, ev.Body, "3/4 factors")
	assert.Contains(t, ev.Body, "bias aligned")
	assert.NotContains(t, ev.Body, "volume surge")
}

func TestOpenedAndTPEvents(t *testing.T) {
	t.Parallel()

	tp1, tp2, tp3 := lifecycle.Targets(market.Long, 100, 95, 2.5, 10)
	p := lifecycle.NewPosition("NVDA", "Technology", market.SessionUS, market.Long,
		regime.Normal, 10, 100, 95, tp1, tp2, tp3, 2.5, time.Now())

	opened := Opened(p)
	assert.Equal(t, KindOpened, opened.Kind)
	assert.Contains(t, opened.Title, "LONG NVDA")
	assert.Contains(t, opened.Body, "[US]")

	m := lifecycle.NewManager(lifecycle.DefaultConfig())
	evs := m.OnBar(p, market.Bar{
		Symbol: "NVDA", Time: time.Now(),
		Open: 111, High: 113, Low: 110.5, Close: 112.5, Volume: 5000,
	}, 2.0)
	require.Len(t, evs, 1)

	tp := TPHit(evs[0])
	assert.Equal(t, KindTPHit, tp.Kind)
	assert.Contains(t, tp.Title, "TP1 hit on NVDA")
	assert.Contains(t, tp.Body, "remaining 50%")
}

func TestClosedAndRejectedEvents(t *testing.T) {
	t.Parallel()

	closed := Closed(journal.PerformanceRecord{
		Symbol: "BARC.L", Session: "UK", Direction: "SHORT",
		PnL: 255, RealizedRR: 2.55, TargetRR: 3.0, ExitAvg: 87.25,
		Win: true, Reason: "TakeProfit3",
	})
	assert.Contains(t, closed.Title, "WIN 255.00")
	assert.Contains(t, closed.Body, "TakeProfit3")

	rej := Rejected("TSLA", []string{"DAILY_TRADE_LIMIT", "SECTOR_LIMIT"})
	assert.Equal(t, KindRejected, rej.Kind)
	assert.Equal(t, "DAILY_TRADE_LIMIT, SECTOR_LIMIT", rej.Body)
}

func TestTelegram_Notify(t *testing.T) {
	t.Parallel()

	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("test-token", "12345")
	tg.base = srv.URL

	err := tg.Notify(context.Background(), Event{
		Kind: KindSummary, Title: "Daily summary", Body: "3 trades",
	})
	require.NoError(t, err)
	assert.Equal(t, "12345", got.ChatID)
	assert.Equal(t, "Daily summary\n3 trades", got.Text)
}

func TestTelegram_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tg := NewTelegram("tok", "1")
	tg.base = srv.URL

	err := tg.Notify(context.Background(), Event{Kind: KindSignal, Title: "x"})
	assert.ErrorContains(t, err, "status 502")
}
