package engine

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dxbquant/orb/market"
)

// Feed yields closed bars in time order. Next returns io.EOF when the
// source is exhausted.
type Feed interface {
	Next() (market.Bar, error)
}

// CSVFeed streams bars from a CSV file with a
// symbol,time,open,high,low,close,volume header. Times are RFC 3339.
type CSVFeed struct {
	f *os.File
	r *csv.Reader
}

func OpenCSV(path string) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = 7
	if _, err := r.Read(); err != nil { // header
		f.Close()
		return nil, fmt.Errorf("read bar header: %w", err)
	}
	return &CSVFeed{f: f, r: r}, nil
}

func (c *CSVFeed) Next() (market.Bar, error) {
	rec, err := c.r.Read()
	if err != nil {
		return market.Bar{}, err
	}

	t, err := time.Parse(time.RFC3339, rec[1])
	if err != nil {
		return market.Bar{}, fmt.Errorf("bar time %q: %w", rec[1], err)
	}

	vals := make([]float64, 5)
	for i, field := range rec[2:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bar field %q: %w", field, err)
		}
		vals[i] = v
	}

	return market.Bar{
		Symbol: rec[0],
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func (c *CSVFeed) Close() error {
	return c.f.Close()
}

// Run drains the feed through the pipeline until EOF or cancellation.
// Bad bars are logged and skipped; the run continues.
func (e *Engine) Run(ctx context.Context, feed Feed) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b, err := feed.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := e.OnBar(ctx, b); err != nil {
			e.log.Warn().Err(err).Str("symbol", b.Symbol).Msg("bar skipped")
		}
	}
}
