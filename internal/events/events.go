// Package events carries board change notifications between PlatePlay
// instances.
package events

import (
	"context"

	"github.com/abrezinsky/plateplay/internal/models"
)

// Topic constants
const (
	// TopicBoardPrefix is followed by the board ID
	TopicBoardPrefix = "plateplay.board."
	// TopicAllBoards matches every board topic
	TopicAllBoards = TopicBoardPrefix + "*"
)

// BoardTopic returns the subject a board's snapshots are published on
func BoardTopic(boardID string) string {
	return TopicBoardPrefix + boardID
}

// BoardUpdated carries a whole-board snapshot. Origin identifies the
// publishing instance so it can ignore its own messages.
type BoardUpdated struct {
	Origin string        `json:"origin"`
	Board  *models.Board `json:"board"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
