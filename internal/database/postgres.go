package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
)

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Msg("Connected to PostgreSQL")
	return db, nil
}

// InitPostgresTables creates the guest entries table and its indexes if they don't exist
func InitPostgresTables(ctx context.Context, db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS guest_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(10) NOT NULL,
			area VARCHAR(255),
			rating SMALLINT CHECK (rating BETWEEN 1 AND 5),
			tags TEXT,
			feedback TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_guest_entries_created_at ON guest_entries(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_guest_entries_name_lower ON guest_entries(LOWER(name))`,
		`CREATE INDEX IF NOT EXISTS idx_guest_entries_phone_number ON guest_entries(phone_number)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	log.Info().Msg("PostgreSQL tables initialized")
	return nil
}

// PostgresEntryStore keeps guest entries in the guest_entries table.
type PostgresEntryStore struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewPostgresEntryStore(db *sqlx.DB) *PostgresEntryStore {
	return &PostgresEntryStore{
		db:      db,
		dialect: goqu.Dialect("postgres"),
	}
}

// CreateEntry inserts one row. The caller assigns ID and CreatedAt.
func (s *PostgresEntryStore) CreateEntry(ctx context.Context, entry *models.GuestEntry) error {
	record := goqu.Record{
		"id":           entry.ID,
		"created_at":   entry.CreatedAt,
		"name":         entry.Name,
		"phone_number": entry.PhoneNumber,
		"area":         nullString(entry.Area),
		"rating":       nullInt(entry.Rating),
		"tags":         nullString(entry.Tags),
		"feedback":     nullString(entry.Feedback),
	}

	query, args, err := s.dialect.Insert(entriesTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// CountEntries counts every row matching the filter, ignoring pagination.
func (s *PostgresEntryStore) CountEntries(ctx context.Context, filter EntryFilter) (int64, error) {
	query, args, err := s.filtered(filter).Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

// ListEntries returns one window of matching rows, newest first.
func (s *PostgresEntryStore) ListEntries(ctx context.Context, filter EntryFilter, offset, limit int) ([]models.GuestEntry, error) {
	query, args, err := s.listQuery(filter, offset, limit)
	if err != nil {
		return nil, err
	}

	entries := []models.GuestEntry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *PostgresEntryStore) Close() error {
	return s.db.Close()
}

func (s *PostgresEntryStore) listQuery(filter EntryFilter, offset, limit int) (string, []interface{}, error) {
	return s.filtered(filter).
		Select("id", "created_at", "name", "phone_number", "area", "rating", "tags", "feedback").
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Offset(uint(offset)).
		Limit(uint(limit)).
		ToSQL()
}

func (s *PostgresEntryStore) filtered(filter EntryFilter) *goqu.SelectDataset {
	ds := s.dialect.From(entriesTable).Prepared(true)

	if !filter.Since.IsZero() {
		ds = ds.Where(goqu.C("created_at").Gte(filter.Since))
	}

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		ds = ds.Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("phone_number").Like(pattern),
		))
	}

	return ds
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
