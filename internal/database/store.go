package database

import (
	"context"
	"strings"
	"time"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
)

const entriesTable = "guest_entries"

// EntryFilter narrows the set of entries a count or list sees.
type EntryFilter struct {
	// Search matches the name case-insensitively or any substring of the phone number.
	Search string
	// Since is the inclusive lower bound on created_at; zero means no bound.
	Since time.Time
}

// EntryStore persists guest entries. Implementations must return entries
// ordered by created_at descending.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *models.GuestEntry) error
	CountEntries(ctx context.Context, filter EntryFilter) (int64, error)
	ListEntries(ctx context.Context, filter EntryFilter, offset, limit int) ([]models.GuestEntry, error)
	Close() error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern that matches s literally anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
