package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/database"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
	apperrors "github.com/AnshRaj112/bellaciao-guestbook/pkg/errors"
)

var (
	testLoc = time.FixedZone("IST", 5*3600+1800)
	testNow = time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC) // 20:00 IST
)

func newTestService(store database.EntryStore, pub EntryPublisher) *EntryService {
	return NewEntryService(store, pub, EntryServiceOptions{
		Location: testLoc,
		Now:      func() time.Time { return testNow },
	})
}

func intp(i int) *int { return &i }

func TestSubmit_RequiredFieldsOnly(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)

	entry, err := svc.Submit(context.Background(), SubmitInput{Name: "John Doe", PhoneNumber: "9876543210"})
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	saved := store.created[0]
	assert.Equal(t, "John Doe", saved.Name)
	assert.Equal(t, "9876543210", saved.PhoneNumber)
	assert.Nil(t, saved.Area)
	assert.Nil(t, saved.Rating)
	assert.Nil(t, saved.Tags)
	assert.Nil(t, saved.Feedback)
	assert.Equal(t, testNow, saved.CreatedAt)
	_, err = uuid.Parse(saved.ID)
	assert.NoError(t, err)

	assert.Equal(t, saved.ID, entry.ID)
	require.Len(t, pub.published, 1)
	assert.Equal(t, saved.ID, pub.published[0].ID)
}

func TestSubmit_TrimsAndJoinsOptionalFields(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Name:        "  Asha Rao ",
		PhoneNumber: " 7012345678 ",
		Area:        "  Bandra ",
		Rating:      intp(5),
		Tags:        []string{"great-food", "good-value"},
		Feedback:    "  Loved the tiramisu  ",
	})
	require.NoError(t, err)

	saved := store.created[0]
	assert.Equal(t, "Asha Rao", saved.Name)
	assert.Equal(t, "7012345678", saved.PhoneNumber)
	assert.Equal(t, "Bandra", *saved.Area)
	assert.Equal(t, 5, *saved.Rating)
	assert.Equal(t, "great-food,good-value", *saved.Tags)
	assert.Equal(t, "Loved the tiramisu", *saved.Feedback)
}

func TestSubmit_ZeroRatingIsAbsent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{Name: "John", PhoneNumber: "9876543210", Rating: intp(0), Area: "   "})
	require.NoError(t, err)
	assert.Nil(t, store.created[0].Rating)
	assert.Nil(t, store.created[0].Area)
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		in       SubmitInput
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{"missing name", SubmitInput{PhoneNumber: "9876543210"}, apperrors.ErrorTypeMissingField, "Name and phone number are required."},
		{"missing phone", SubmitInput{Name: "John"}, apperrors.ErrorTypeMissingField, "Name and phone number are required."},
		{"digit in name", SubmitInput{Name: "John 2", PhoneNumber: "9876543210"}, apperrors.ErrorTypeValidation, "Name can only contain letters and spaces."},
		{"bad leading digit", SubmitInput{Name: "John Doe", PhoneNumber: "1234567890"}, apperrors.ErrorTypeValidation, "Phone number must start with 6-9 and be exactly 10 digits."},
		{"short phone", SubmitInput{Name: "John Doe", PhoneNumber: "98765"}, apperrors.ErrorTypeValidation, "Phone number must start with 6-9 and be exactly 10 digits."},
		{"rating out of range", SubmitInput{Name: "John Doe", PhoneNumber: "9876543210", Rating: intp(9)}, apperrors.ErrorTypeValidation, "Rating must be between 1 and 5."},
		{"unknown tag", SubmitInput{Name: "John Doe", PhoneNumber: "9876543210", Tags: []string{"free-wifi"}}, apperrors.ErrorTypeValidation, "Unknown tag: free-wifi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := newTestService(store, nil)

			_, err := svc.Submit(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantType), "got %v", err)
			assert.Equal(t, tt.wantMsg, apperrors.PublicMessage(err, ""))
			assert.Empty(t, store.created)
		})
	}
}

func TestSubmit_StorageFailure(t *testing.T) {
	store := &fakeStore{createFn: func(ctx context.Context, entry *models.GuestEntry) error {
		return sql.ErrConnDone
	}}
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)

	_, err := svc.Submit(context.Background(), SubmitInput{Name: "John Doe", PhoneNumber: "9876543210"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeStorage))
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Empty(t, pub.published)
}

func TestSubmit_PublishFailureDoesNotFailSubmit(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &recordingPublisher{err: errors.New("redis down")})

	_, err := svc.Submit(context.Background(), SubmitInput{Name: "John Doe", PhoneNumber: "9876543210"})
	assert.NoError(t, err)
	assert.Len(t, store.created, 1)
}

func TestList_FilterBounds(t *testing.T) {
	tests := []struct {
		filter models.DateFilter
		want   time.Time
	}{
		{models.FilterAll, time.Time{}},
		{models.FilterToday, time.Date(2026, 3, 14, 0, 0, 0, 0, testLoc)},
		{models.FilterWeek, testNow.Add(-7 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			var got database.EntryFilter
			store := &fakeStore{countFn: func(ctx context.Context, filter database.EntryFilter) (int64, error) {
				got = filter
				return 0, nil
			}}
			svc := newTestService(store, nil)

			_, err := svc.List(context.Background(), models.EntryQuery{Search: " doe ", Filter: tt.filter})
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Since), "want %v got %v", tt.want, got.Since)
			assert.Equal(t, "doe", got.Search)
		})
	}
}

func TestList_Pagination(t *testing.T) {
	var gotOffset, gotLimit int
	store := &fakeStore{
		countFn: func(ctx context.Context, filter database.EntryFilter) (int64, error) { return 45, nil },
		listFn: func(ctx context.Context, filter database.EntryFilter, offset, limit int) ([]models.GuestEntry, error) {
			gotOffset, gotLimit = offset, limit
			return []models.GuestEntry{{ID: "41"}, {ID: "42"}}, nil
		},
	}
	svc := newTestService(store, nil)

	page, err := svc.List(context.Background(), models.EntryQuery{Page: 3, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 40, gotOffset)
	assert.Equal(t, 20, gotLimit)
	assert.Len(t, page.Entries, 2)
	assert.Equal(t, models.Pagination{Total: 45, Page: 3, Limit: 20, TotalPages: 3}, page.Pagination)
}

func TestList_Defaults(t *testing.T) {
	var gotLimit int
	store := &fakeStore{
		countFn: func(ctx context.Context, filter database.EntryFilter) (int64, error) { return 1, nil },
		listFn: func(ctx context.Context, filter database.EntryFilter, offset, limit int) ([]models.GuestEntry, error) {
			gotLimit = limit
			return []models.GuestEntry{{ID: "1"}}, nil
		},
	}
	svc := newTestService(store, nil)

	page, err := svc.List(context.Background(), models.EntryQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageLimit, gotLimit)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	_, err = svc.List(context.Background(), models.EntryQuery{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageLimit, gotLimit)
}

func TestList_OutOfRangePageIsEmpty(t *testing.T) {
	store := &fakeStore{
		countFn: func(ctx context.Context, filter database.EntryFilter) (int64, error) { return 5, nil },
	}
	svc := newTestService(store, nil)

	page, err := svc.List(context.Background(), models.EntryQuery{Page: 9, Limit: 20})
	require.NoError(t, err)
	assert.NotNil(t, page.Entries)
	assert.Empty(t, page.Entries)
	assert.Equal(t, 0, store.listCalls)
	assert.Equal(t, models.Pagination{Total: 5, Page: 9, Limit: 20, TotalPages: 1}, page.Pagination)
}

func TestList_HugePageIsEmpty(t *testing.T) {
	store := &fakeStore{
		countFn: func(ctx context.Context, filter database.EntryFilter) (int64, error) { return 5, nil },
	}
	svc := newTestService(store, nil)

	for _, p := range []int{1 << 62, 1<<62 + 1, math.MaxInt} {
		page, err := svc.List(context.Background(), models.EntryQuery{Page: p, Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, page.Entries)
		assert.Equal(t, p, page.Pagination.Page)
	}
	assert.Equal(t, 0, store.listCalls)
}

func TestList_StorageFailure(t *testing.T) {
	store := &fakeStore{
		countFn: func(ctx context.Context, filter database.EntryFilter) (int64, error) { return 0, sql.ErrConnDone },
	}
	svc := newTestService(store, nil)

	_, err := svc.List(context.Background(), models.EntryQuery{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeStorage))
	assert.Equal(t, "Failed to fetch entries", apperrors.PublicMessage(err, ""))
}
