package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinLens/internal/model"
	"CoinLens/internal/store"
)

func growingCloses(start time.Time, n int) map[string]float64 {
	m := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		m[start.AddDate(0, 0, i).Format(model.DateLayout)] = 20000 + float64(i)*100
	}
	return m
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.PutJSON(ctx, model.CollectionStats, model.StatsDocumentID,
		map[string]any{"hash_rate": "600 EH/s", "latest_price": 1}))
	fetcher := &MockFetcher{Closes: growingCloses(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 400)}
	c := NewCollector(fetcher, mem, "BTC-USD")
	c.Now = func() time.Time { return time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC) }

	res, err := c.Sync(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, []int{2024}, res.Years)
	assert.Equal(t, 35, res.Prices)
	assert.Equal(t, 35, res.IndexPoints)

	prices, err := mem.PriceDocument(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, prices.Prices, 35)
	assert.Equal(t, "2024", prices.Year)

	idx, err := mem.AHR999Document(ctx, 2024)
	require.NoError(t, err)
	e := idx.DailyIndices["2024-02-04"]
	assert.Equal(t, 20000+399*100.0, e.DailyClose)
	assert.Greater(t, e.AHR999, 0.0)
	assert.Less(t, e.Avg200DayCost, e.DailyClose, "rising closes sit above their geometric mean")

	_, err = mem.PriceDocument(ctx, 2023)
	assert.ErrorIs(t, err, store.ErrNotFound)

	stats, err := mem.StatsDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-04", stats["latest_date"])
	assert.Equal(t, 20000+399*100.0, stats["latest_price"])
	assert.Equal(t, "600 EH/s", stats["hash_rate"], "fields from other producers are kept")
}

func TestSyncErrors(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC) }

	c := NewCollector(&MockFetcher{Err: errors.New("rate limited")}, store.NewMemory(), "BTC-USD")
	c.Now = now
	_, err := c.Sync(ctx, 2024)
	assert.ErrorContains(t, err, "rate limited")

	c = NewCollector(&MockFetcher{}, store.NewMemory(), "BTC-USD")
	c.Now = now
	_, err = c.Sync(ctx, 2024)
	assert.ErrorContains(t, err, "no closes")

	_, err = c.Sync(ctx, 2030)
	assert.ErrorContains(t, err, "future")
}

func TestYahooFetcher(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BTC-USD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprintf(w, `{"chart":{"result":[{"timestamp":[%d,%d,%d],
			"indicators":{"quote":[{"close":[62000.5,null,64000]}]}}],"error":null}}`,
			day.Unix(), day.AddDate(0, 0, 1).Unix(), day.AddDate(0, 0, 2).Unix())
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	closes, err := f.FetchDailyCloses(context.Background(), "btc", day, day.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"2024-03-01": 62000.5, "2024-03-03": 64000}, closes)
}

func TestYahooFetcherAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyCloses(context.Background(), "NOPE", time.Now().AddDate(0, 0, -1), time.Now())
	assert.ErrorContains(t, err, "No data found")
}
