package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueuePubSub broadcasts that a store's queue or profile changed so that
// every instance can drop its cached copy.
type QueuePubSub struct {
	rdb     *redis.Client
	channel string
}

func NewQueuePubSub(rdb *redis.Client) *QueuePubSub {
	return &QueuePubSub{
		rdb:     rdb,
		channel: ChannelQueueChanged(),
	}
}

type queueChangedMsg struct {
	Type    string `json:"type"`
	StoreID int64  `json:"store_id"`
	TsUnix  int64  `json:"ts_unix"`
}

func (p *QueuePubSub) PublishQueueChanged(ctx context.Context, storeID int64) error {
	msg := queueChangedMsg{
		Type:    "queue_changed",
		StoreID: storeID,
		TsUnix:  time.Now().Unix(),
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe blocks, calling handler for every change until ctx is done.
func (p *QueuePubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, storeID int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev queueChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.StoreID != 0 {
				handler(ctx, ev.StoreID)
			}
		}
	}
}
