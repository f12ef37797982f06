package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/lastone/internal/game"
	"github.com/redis/go-redis/v9"
)

// StartMatchEventSubscriber relays lifecycle events published by every
// instance on game.MatchEventsChannel to lobby viewers. Once it runs, the
// hub stops feeding the lobby directly so local events are not doubled.
func (h *Hub) StartMatchEventSubscriber(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		log.Println("[REDIS] Redis not configured, lobby uses local events only")
		return
	}

	h.mu.Lock()
	h.relayed = true
	h.mu.Unlock()

	go func() {
		sub := rdb.Subscribe(ctx, game.MatchEventsChannel)
		defer sub.Close()
		ch := sub.Channel()

		log.Printf("[REDIS] Subscribed to %s", game.MatchEventsChannel)

		for {
			select {
			case <-ctx.Done():
				log.Println("[REDIS] Match event subscriber stopping")
				return
			case msg, ok := <-ch:
				if !ok {
					log.Println("[REDIS] Match event channel closed")
					return
				}
				h.relay([]byte(msg.Payload))
			}
		}
	}()
}

// relay forwards a published event to the lobby, dropping anything that is
// not a lifecycle event.
func (h *Hub) relay(payload []byte) {
	var e game.Event
	if err := json.Unmarshal(payload, &e); err != nil {
		log.Printf("[REDIS] Invalid match event payload: %v", err)
		return
	}
	if !e.IsLifecycle() {
		return
	}
	h.broadcast(lobbyRoom, &outgoing{v: e, text: payload})
}
