package estimator

import (
	"context"
	"errors"
	"testing"

	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	cases := []struct {
		name        string
		def         int
		recent      []int
		peopleAhead int
		want        int
	}{
		{"head of queue", 5, []int{10, 20, 30}, 0, 0},
		{"negative treated as head", 5, nil, -1, 0},
		{"no history falls back to default", 5, nil, 1, 5},
		{"no history, several ahead", 7, nil, 4, 28},
		{"blend", 5, []int{10, 20, 30}, 2, 31},
		{"only three most recent count", 5, []int{10, 20, 30, 1000}, 2, 31},
		{"single record", 5, []int{8}, 1, 7},
		{"history equal to default", 5, []int{5}, 1, 5},
		{"rounds to nearest", 1, []int{2}, 1, 2},
		{"half rounds up", 5, []int{10}, 1, 9},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate(tt.def, tt.recent, tt.peopleAhead))
		})
	}
}

func TestEstimateFallbackEqualsDefaultTimesN(t *testing.T) {
	for def := 1; def <= 30; def++ {
		for n := 0; n <= 20; n++ {
			assert.Equal(t, n*def, Estimate(def, nil, n), "def=%d n=%d", def, n)
		}
	}
}

type historyStub struct {
	recent []int
	err    error
	calls  int
}

func (h *historyStub) AppendHistory(context.Context, *domain.ServiceHistoryRecord) (int64, error) {
	return 0, nil
}

func (h *historyStub) RecentServiceTimes(_ context.Context, _ int64, n int) ([]int, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	if len(h.recent) > n {
		return h.recent[:n], nil
	}
	return h.recent, nil
}

func (h *historyStub) ListHistory(context.Context, int64, int) ([]domain.ServiceHistoryRecord, error) {
	return nil, nil
}

func TestEstimateWait(t *testing.T) {
	store := &domain.Store{ID: 1, DefaultServiceTimeMinutes: 5}
	e := New(nil)

	h := &historyStub{recent: []int{10, 20, 30}}
	assert.Equal(t, 31, e.EstimateWait(context.Background(), h, store, 2))

	assert.Equal(t, 0, e.EstimateWait(context.Background(), h, store, 0))
	assert.Equal(t, 1, h.calls, "head of queue does not read history")

	broken := &historyStub{err: errors.New("db down")}
	assert.Equal(t, 10, e.EstimateWait(context.Background(), broken, store, 2))
}
