package handlers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/database"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/services"
)

var errStoreDown = errors.New("connection refused")

// memStore is an in-memory database.EntryStore.
type memStore struct {
	mu      sync.Mutex
	entries []models.GuestEntry
	fail    bool
}

func (s *memStore) CreateEntry(ctx context.Context, entry *models.GuestEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memStore) matching(filter database.EntryFilter) []models.GuestEntry {
	var out []models.GuestEntry
	for _, e := range s.entries {
		if !filter.Since.IsZero() && e.CreatedAt.Before(filter.Since) {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(e.PhoneNumber, filter.Search) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memStore) CountEntries(ctx context.Context, filter database.EntryFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return 0, errStoreDown
	}
	return int64(len(s.matching(filter))), nil
}

func (s *memStore) ListEntries(ctx context.Context, filter database.EntryFilter, offset, limit int) ([]models.GuestEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	all := s.matching(filter)
	if offset >= len(all) {
		return []models.GuestEntry{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *memStore) Close() error { return nil }

var fixedNow = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

type testEnv struct {
	store   *memStore
	feed    *services.EntryFeed
	handler *Handler
}

func newTestEnv() *testEnv {
	store := &memStore{}
	feed := services.NewEntryFeed(nil)
	svc := services.NewEntryService(store, feed, services.EntryServiceOptions{
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	auth := services.NewAdminAuth("letmein", "", false)
	return &testEnv{
		store:   store,
		feed:    feed,
		handler: New(svc, auth, feed, "bella-ciao", []string{"https://bellaciao.in"}),
	}
}

func (e *testEnv) seed(n int) {
	for i := 0; i < n; i++ {
		e.store.entries = append(e.store.entries, models.GuestEntry{
			ID:          "id-" + string(rune('a'+i)),
			CreatedAt:   fixedNow.Add(-time.Duration(i) * time.Hour),
			Name:        "Guest " + string(rune('A'+i)),
			PhoneNumber: "98765432" + string(rune('0'+i%10)) + "0",
		})
	}
}
