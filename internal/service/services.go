package service

import (
	"log/slog"

	"github.com/kirinyoku/queuego/internal/clock"
	"github.com/kirinyoku/queuego/internal/notify"
	"github.com/kirinyoku/queuego/internal/repository"
	redisrepo "github.com/kirinyoku/queuego/internal/repository/redis"
	"github.com/kirinyoku/queuego/internal/service/catalog"
	"github.com/kirinyoku/queuego/internal/service/estimator"
	"github.com/kirinyoku/queuego/internal/service/history"
	"github.com/kirinyoku/queuego/internal/service/stores"
	"github.com/kirinyoku/queuego/internal/service/tickets"
)

type Services struct {
	Stores  *stores.Service
	Catalog *catalog.Service
	Tickets *tickets.Service
	History *history.Recorder
}

type Config struct {
	Stores stores.Config
}

// NewServices wires the services over one repository. The Redis-backed
// collaborators are optional and may be nil.
func NewServices(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.QueuePubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	emitter notify.Emitter,
	clk clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Services {
	var (
		invalidator tickets.Invalidator
		publisher   tickets.Publisher
		rl          tickets.Limiter
	)

	if cache != nil {
		invalidator = cache
	}
	if pubsub != nil {
		publisher = pubsub
	}
	if limiter != nil {
		rl = limiter
	}

	est := estimator.New(logger)

	return &Services{
		Stores:  stores.New(store, cache, publisher, est, clk, logger, cfg.Stores),
		Catalog: catalog.New(store, invalidator, clk, logger),
		Tickets: tickets.New(store, invalidator, publisher, rl, emitter, est, clk, logger),
		History: history.New(store),
	}
}
