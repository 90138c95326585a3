package services_test

import (
	"sync"

	"github.com/abrezinsky/plateplay/internal/errors"
	"github.com/abrezinsky/plateplay/internal/models"
)

// recordingBroadcaster remembers every snapshot it is asked to send
type recordingBroadcaster struct {
	mu     sync.Mutex
	boards []*models.Board
}

func (r *recordingBroadcaster) BroadcastBoard(b *models.Board) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boards = append(r.boards, b)
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

func (r *recordingBroadcaster) last() *models.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.boards) == 0 {
		return nil
	}
	return r.boards[len(r.boards)-1]
}

// hasKind reports whether err is an application error of the given kind
func hasKind(err error, kind errors.Kind) bool {
	return errors.IsKind(err, kind)
}
