// Package editor implements the reorder operations behind the dashboard's
// drag-and-drop board editor.
package editor

import "github.com/abrezinsky/plateplay/internal/models"

// Move returns a copy of list with the element at from moved to index to.
// The relative order of every other element is preserved. Out-of-range
// indexes return an unchanged copy.
func Move[T any](list []T, from, to int) []T {
	out := make([]T, len(list))
	copy(out, list)
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return out
	}

	v := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = v
	return out
}

// MoveSection moves the section activeID to the position of overID.
// It reports whether the board changed.
func MoveSection(b *models.Board, activeID, overID string) bool {
	from, to := b.SectionIndex(activeID), b.SectionIndex(overID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	b.Sections = Move(b.Sections, from, to)
	return true
}

// MoveItem moves item activeID to the position of overID. Both items must
// live in the same section; cross-section drops are ignored.
func MoveItem(b *models.Board, activeID, overID string) bool {
	for si := range b.Sections {
		items := b.Sections[si].Items
		from, to := indexOf(items, activeID), indexOf(items, overID)
		if from < 0 || to < 0 {
			continue
		}
		if from == to {
			return false
		}
		b.Sections[si].Items = Move(items, from, to)
		return true
	}
	return false
}

// Reorder applies a drag-end event: a section move when both IDs name
// sections, otherwise an item move.
func Reorder(b *models.Board, activeID, overID string) bool {
	if activeID == "" || overID == "" || activeID == overID {
		return false
	}
	if b.SectionIndex(activeID) >= 0 && b.SectionIndex(overID) >= 0 {
		return MoveSection(b, activeID, overID)
	}
	return MoveItem(b, activeID, overID)
}

func indexOf(items []models.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
