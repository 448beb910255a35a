// Package estimator predicts how long a customer will wait.
//
// The estimate blends the mean of the store's most recent service times
// with the store's configured default:
//
//	W = N × (0.7 × T_recent + 0.3 × T_default)
//
// where N is the number of people ahead. With no history T_recent is the
// default, so the blend collapses to N × T_default.
package estimator

import (
	"context"
	"log/slog"
	"math"

	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

const (
	// RecentWindow is how many history records feed T_recent.
	RecentWindow = 3

	RecentWeight  = 0.7
	DefaultWeight = 0.3
)

// Estimate returns the expected wait in minutes for someone with
// peopleAhead tickets in front of them. recent holds service durations,
// most recent first; only the first RecentWindow entries are used.
// The result is rounded half away from zero.
func Estimate(defaultMinutes int, recent []int, peopleAhead int) int {
	if peopleAhead <= 0 {
		return 0
	}

	if len(recent) > RecentWindow {
		recent = recent[:RecentWindow]
	}

	recentAverage := float64(defaultMinutes)
	if len(recent) > 0 {
		sum := 0
		for _, m := range recent {
			sum += m
		}
		recentAverage = float64(sum) / float64(len(recent))
	}

	weighted := RecentWeight*recentAverage + DefaultWeight*float64(defaultMinutes)

	return int(math.Round(float64(peopleAhead) * weighted))
}

type Estimator struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{logger: logger}
}

// EstimateWait loads the store's recent service times through history and
// applies Estimate. It never fails: if history cannot be read the store's
// default alone is used.
func (e *Estimator) EstimateWait(
	ctx context.Context,
	history repository.HistoryRepo,
	store *domain.Store,
	peopleAhead int,
) int {
	if peopleAhead <= 0 {
		return 0
	}

	recent, err := history.RecentServiceTimes(ctx, store.ID, RecentWindow)
	if err != nil {
		e.logger.Warn("recent service times unavailable, using default",
			slog.Int64("store_id", store.ID),
			slog.Any("error", err),
		)
		recent = nil
	}

	return Estimate(store.DefaultServiceTimeMinutes, recent, peopleAhead)
}
