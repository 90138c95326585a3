package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/plateplay/internal/events"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/services"
)

const publishTimeout = 2 * time.Second

// Bridge fans board snapshots out to other instances over the event bus and
// relays their snapshots into the local hub
type Bridge struct {
	log    logger.Logger
	local  services.Broadcaster
	pub    events.Publisher
	sub    events.Subscriber
	origin string
}

// NewBridge creates a Bridge. A nil pub publishes nowhere and a nil sub
// receives nothing, leaving only local delivery.
func NewBridge(log logger.Logger, local services.Broadcaster, pub events.Publisher, sub events.Subscriber) *Bridge {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &Bridge{
		log:    log,
		local:  local,
		pub:    pub,
		sub:    sub,
		origin: uuid.NewString(),
	}
}

// Origin identifies this instance on the bus
func (b *Bridge) Origin() string {
	return b.origin
}

// BroadcastBoard implements services.Broadcaster
func (b *Bridge) BroadcastBoard(board *models.Board) {
	if board == nil {
		return
	}
	b.local.BroadcastBoard(board)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	ev := events.BoardUpdated{Origin: b.origin, Board: board}
	if err := b.pub.Publish(ctx, events.BoardTopic(board.ID), ev); err != nil {
		b.log.Warn("Failed to publish board update", "board_id", board.ID, "error", err)
	}
}

// Run relays snapshots from other instances until ctx is cancelled
func (b *Bridge) Run(ctx context.Context) error {
	if b.sub == nil {
		<-ctx.Done()
		return nil
	}

	ch, cancel, err := b.sub.Subscribe(events.TopicAllBoards)
	if err != nil {
		return fmt.Errorf("subscribing to board updates: %w", err)
	}
	defer cancel()
	b.log.Info("Relaying board updates", "topic", events.TopicAllBoards, "origin", b.origin)

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			var ev events.BoardUpdated
			if err := json.Unmarshal(data, &ev); err != nil {
				b.log.Warn("Discarding malformed board update", "error", err)
				continue
			}
			if ev.Origin == b.origin || ev.Board == nil {
				continue
			}
			b.local.BroadcastBoard(ev.Board)
		}
	}
}
