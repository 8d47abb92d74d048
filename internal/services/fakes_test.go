package services

import (
	"context"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/database"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
)

type fakeStore struct {
	createFn func(ctx context.Context, entry *models.GuestEntry) error
	countFn  func(ctx context.Context, filter database.EntryFilter) (int64, error)
	listFn   func(ctx context.Context, filter database.EntryFilter, offset, limit int) ([]models.GuestEntry, error)

	created   []models.GuestEntry
	listCalls int
}

func (f *fakeStore) CreateEntry(ctx context.Context, entry *models.GuestEntry) error {
	if f.createFn != nil {
		if err := f.createFn(ctx, entry); err != nil {
			return err
		}
	}
	f.created = append(f.created, *entry)
	return nil
}

func (f *fakeStore) CountEntries(ctx context.Context, filter database.EntryFilter) (int64, error) {
	if f.countFn == nil {
		return 0, nil
	}
	return f.countFn(ctx, filter)
}

func (f *fakeStore) ListEntries(ctx context.Context, filter database.EntryFilter, offset, limit int) ([]models.GuestEntry, error) {
	f.listCalls++
	if f.listFn == nil {
		return []models.GuestEntry{}, nil
	}
	return f.listFn(ctx, filter, offset, limit)
}

func (f *fakeStore) Close() error { return nil }

type recordingPublisher struct {
	published []models.GuestEntry
	err       error
}

func (p *recordingPublisher) PublishEntry(ctx context.Context, entry models.GuestEntry) error {
	p.published = append(p.published, entry)
	return p.err
}
