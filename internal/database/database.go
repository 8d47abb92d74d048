package database

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
)

const defaultMongoDatabase = "bellaciao"

// ConnectMongo connects to MongoDB and returns the database named in the URI
// (or "bellaciao" when the URI names none).
func ConnectMongo(mongoURI string) (*mongo.Client, *mongo.Database, error) {
	// Use longer timeout for Atlas connections
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info().Msg("Connected to MongoDB")
	return client, client.Database(mongoDatabaseName(mongoURI)), nil
}

// mongoDatabaseName extracts the database from mongodb://host/<name>?opts.
func mongoDatabaseName(mongoURI string) string {
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			return dbPart
		}
	}
	return defaultMongoDatabase
}

// MongoEntryStore keeps guest entries in the guest_entries collection.
type MongoEntryStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoEntryStore(client *mongo.Client, db *mongo.Database) *MongoEntryStore {
	return &MongoEntryStore{
		client: client,
		col:    db.Collection(entriesTable),
	}
}

// EnsureEntryIndexes configures indexes for the guest_entries collection.
func (s *MongoEntryStore) EnsureEntryIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
		{
			Keys:    bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().SetName("idx_phone_number"),
		},
	}

	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *MongoEntryStore) CreateEntry(ctx context.Context, entry *models.GuestEntry) error {
	_, err := s.col.InsertOne(ctx, entry)
	return err
}

func (s *MongoEntryStore) CountEntries(ctx context.Context, filter EntryFilter) (int64, error) {
	return s.col.CountDocuments(ctx, mongoFilter(filter))
}

func (s *MongoEntryStore) ListEntries(ctx context.Context, filter EntryFilter, offset, limit int) ([]models.GuestEntry, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, mongoFilter(filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.GuestEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *MongoEntryStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoFilter(filter EntryFilter) bson.M {
	query := bson.M{}

	if !filter.Since.IsZero() {
		query["created_at"] = bson.M{"$gte": filter.Since}
	}

	if filter.Search != "" {
		quoted := regexp.QuoteMeta(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": quoted, "$options": "i"}},
			bson.M{"phone_number": bson.M{"$regex": quoted}},
		}
	}

	return query
}
