package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinLens/internal/model"
)

func TestObserveRefresh(t *testing.T) {
	r := NewRegistry()
	ratio := 1.4
	r.ObserveRefresh(&model.Snapshot{
		LatestPrice:    62000,
		ModelPrice:     44000,
		ValuationRatio: &ratio,
		AHR999: &model.ClassifiedPoint{
			DailyIndexPoint: model.DailyIndexPoint{IndexValue: 1.3},
			Phase:           model.PhaseBullMarket,
		},
	}, 20*time.Millisecond, nil)
	r.ObserveRefresh(nil, time.Millisecond, errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.RefreshTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RefreshTotal.WithLabelValues("error")))
	assert.Equal(t, 62000.0, testutil.ToFloat64(r.LatestPrice))
	assert.Equal(t, 1.3, testutil.ToFloat64(r.AHR999Index))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.AHR999Phase.WithLabelValues("BullMarket")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.AHR999Phase.WithLabelValues("DCAZone")))
}

func TestObserveCountdown(t *testing.T) {
	r := NewRegistry()
	r.ObserveCountdown("halving", model.Remaining{Days: 1, Hours: 1, Minutes: 1, Seconds: 1})
	assert.Equal(t, 90061.0, testutil.ToFloat64(r.CountdownSeconds.WithLabelValues("halving")))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveCountdown("halving", model.Remaining{Seconds: 5})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `coinlens_countdown_remaining_seconds{name="halving"} 5`)
}
