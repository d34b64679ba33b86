package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/config"
)

// taskRecord is the collection shape: the wire document plus the ObjectID
type taskRecord struct {
	ObjectID                primitive.ObjectID `bson:"_id,omitempty"`
	repository.TaskDocument `bson:",inline"`
}

// DocumentStore implements repository.DocumentStore over one MongoDB
// collection; owners are separated by the ownerId field.
type DocumentStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// Connect opens a client, checks the connection and ensures the owner index
func Connect(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*DocumentStore, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	store := &DocumentStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger.With("component", "mongo-store"),
	}

	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	store.logger.Info("mongo connected", "database", cfg.Database, "collection", cfg.Collection)
	return store, nil
}

// Close disconnects the client
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *DocumentStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: repository.FieldOwnerID, Value: 1},
			{Key: repository.FieldCreatedAt, Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create owner index: %w", err)
	}
	return nil
}

// Query returns the owner's documents, newest created first
func (s *DocumentStore) Query(ctx context.Context, ownerID string) ([]repository.TaskDocument, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: repository.FieldCreatedAt, Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := s.collection.Find(ctx, bson.M{repository.FieldOwnerID: ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	var records []taskRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	docs := make([]repository.TaskDocument, len(records))
	for i, r := range records {
		docs[i] = fromRecord(r)
	}
	return docs, nil
}

// Insert stores doc and returns the hex ObjectID
func (s *DocumentStore) Insert(ctx context.Context, ownerID string, doc repository.TaskDocument) (string, error) {
	doc.OwnerID = ownerID

	res, err := s.collection.InsertOne(ctx, taskRecord{TaskDocument: doc})
	if err != nil {
		return "", fmt.Errorf("failed to insert task: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// Patch $sets the given fields
func (s *DocumentStore) Patch(ctx context.Context, ownerID, docID string, fields repository.FieldSet) error {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return repository.ErrDocumentNotFound
	}

	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": oid, repository.FieldOwnerID: ownerID},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrDocumentNotFound
	}
	return nil
}

// Remove deletes a document
func (s *DocumentStore) Remove(ctx context.Context, ownerID, docID string) error {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return repository.ErrDocumentNotFound
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid, repository.FieldOwnerID: ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrDocumentNotFound
	}
	return nil
}

func fromRecord(r taskRecord) repository.TaskDocument {
	doc := r.TaskDocument
	doc.ID = r.ObjectID.Hex()
	if doc.StartDate != nil {
		t := doc.StartDate.UTC()
		doc.StartDate = &t
	}
	if doc.EndDate != nil {
		t := doc.EndDate.UTC()
		doc.EndDate = &t
	}
	return doc
}

// IsUnavailable reports whether err means the server could not be reached
func IsUnavailable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

var _ repository.DocumentStore = (*DocumentStore)(nil)
