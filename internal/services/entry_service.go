package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/database"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
	apperrors "github.com/AnshRaj112/bellaciao-guestbook/pkg/errors"
	"github.com/AnshRaj112/bellaciao-guestbook/pkg/utils"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// EntryPublisher is notified after an entry has been stored.
type EntryPublisher interface {
	PublishEntry(ctx context.Context, entry models.GuestEntry) error
}

// SubmitInput is what a guest sends from the feedback form.
type SubmitInput struct {
	Name        string
	PhoneNumber string
	Area        string
	Rating      *int
	Tags        []string
	Feedback    string
}

type EntryServiceOptions struct {
	Location         *time.Location
	DefaultPageLimit int
	MaxPageLimit     int
	Now              func() time.Time
}

// EntryService validates and stores guest entries and answers admin list queries.
type EntryService struct {
	store        database.EntryStore
	publisher    EntryPublisher
	loc          *time.Location
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

func NewEntryService(store database.EntryStore, publisher EntryPublisher, opts EntryServiceOptions) *EntryService {
	s := &EntryService{
		store:        store,
		publisher:    publisher,
		loc:          opts.Location,
		defaultLimit: opts.DefaultPageLimit,
		maxLimit:     opts.MaxPageLimit,
		now:          opts.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = DefaultPageLimit
	}
	if s.maxLimit <= 0 {
		s.maxLimit = MaxPageLimit
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit validates the input and writes exactly one new entry.
func (s *EntryService) Submit(ctx context.Context, in SubmitInput) (*models.GuestEntry, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.PhoneNumber)

	if name == "" || phone == "" {
		return nil, apperrors.NewMissingFieldError("Name and phone number are required.")
	}

	if err := utils.ValidateName(name); err != nil {
		return nil, validationError(err)
	}
	if err := utils.ValidatePhone(phone); err != nil {
		return nil, validationError(err)
	}
	if err := utils.ValidateRating(in.Rating); err != nil {
		return nil, validationError(err)
	}
	tags, err := utils.NormalizeTags(in.Tags)
	if err != nil {
		return nil, validationError(err)
	}

	entry := models.GuestEntry{
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		Name:        name,
		PhoneNumber: phone,
		Area:        optionalString(in.Area),
		Tags:        optionalString(tags),
		Feedback:    optionalString(in.Feedback),
	}
	if in.Rating != nil && *in.Rating != 0 {
		rating := *in.Rating
		entry.Rating = &rating
	}

	if err := s.store.CreateEntry(ctx, &entry); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Error creating guest entry")
		return nil, apperrors.NewStorageError("Failed to save entry. Please try again.", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEntry(ctx, entry); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("entry_id", entry.ID).Msg("Failed to publish new entry")
		}
	}

	return &entry, nil
}

// List returns one page of entries matching the search text and date filter,
// newest first, with pagination computed over the whole matching set.
func (s *EntryService) List(ctx context.Context, q models.EntryQuery) (*models.EntryPage, error) {
	q = s.normalizeQuery(q)

	filter := database.EntryFilter{
		Search: strings.TrimSpace(q.Search),
		Since:  q.Filter.Since(s.now(), s.loc),
	}

	total, err := s.store.CountEntries(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Error counting entries")
		return nil, apperrors.NewStorageError("Failed to fetch entries", err)
	}

	entries := []models.GuestEntry{}
	offset := q.Offset()
	if int64(offset) < total {
		entries, err = s.store.ListEntries(ctx, filter, offset, q.Limit)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Error fetching entries")
			return nil, apperrors.NewStorageError("Failed to fetch entries", err)
		}
	}

	return &models.EntryPage{
		Entries:    entries,
		Pagination: models.NewPagination(total, q.Page, q.Limit),
	}, nil
}

// Location is the zone used for day boundaries and exported timestamps.
func (s *EntryService) Location() *time.Location {
	return s.loc
}

// Now is the service clock.
func (s *EntryService) Now() time.Time {
	return s.now()
}

func (s *EntryService) normalizeQuery(q models.EntryQuery) models.EntryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = s.defaultLimit
	}
	if q.Limit > s.maxLimit {
		q.Limit = s.maxLimit
	}
	if q.Filter == "" {
		q.Filter = models.FilterAll
	}
	return q
}

func validationError(err error) error {
	var vErr *utils.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.NewValidationError(vErr.Message)
	}
	return apperrors.NewValidationError(err.Error())
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
