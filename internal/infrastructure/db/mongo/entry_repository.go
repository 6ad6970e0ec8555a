package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dailypage/journal-api/internal/core/domain"
)

const collectionEntries = "entries"

type EntryRepository struct {
	col *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{col: db.Collection(collectionEntries)}
}

// User and prompt references are kept as hex strings rather than ObjectIDs so
// the document mirrors what the services pass around.
type entryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Date      time.Time          `bson:"date"`
	WordCount int                `bson:"word_count"`
	Mood      string             `bson:"mood,omitempty"`
	UserID    string             `bson:"user_id"`
	PromptID  string             `bson:"prompt_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *entryDoc) toDomain() *domain.Entry {
	return &domain.Entry{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		Date:      d.Date.UTC(),
		WordCount: d.WordCount,
		Mood:      d.Mood,
		UserID:    d.UserID,
		PromptID:  d.PromptID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := entryDoc{
		Content:   entry.Content,
		Date:      entry.Date.UTC(),
		WordCount: entry.WordCount,
		Mood:      entry.Mood,
		UserID:    entry.UserID,
		PromptID:  entry.PromptID,
		CreatedAt: entry.CreatedAt.UTC(),
		UpdatedAt: entry.UpdatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id string) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEntryNotFound
	}

	var doc entryDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByUser lists a user's entries, newest first. A non-nil day narrows the
// result to entries written on that calendar day (midnight-UTC instant).
func (r *EntryRepository) FindByUser(ctx context.Context, userID string, day *time.Time) ([]*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if day != nil {
		filter["date"] = day.UTC()
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "created_at", Value: -1},
	})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}

	entries := make([]*domain.Entry, 0, len(docs))
	for i := range docs {
		entries = append(entries, docs[i].toDomain())
	}
	return entries, nil
}

func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(entry.ID)
	if err != nil {
		return nil, domain.ErrEntryNotFound
	}

	update := bson.M{"$set": bson.M{
		"content":    entry.Content,
		"word_count": entry.WordCount,
		"mood":       entry.Mood,
		"updated_at": entry.UpdatedAt.UTC(),
	}}

	var doc entryDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEntryNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// Totals aggregates a user's entry and word counts server-side.
func (r *EntryRepository) Totals(ctx context.Context, userID string) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"entries": bson.M{"$sum": 1},
			"words":   bson.M{"$sum": "$word_count"},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate entry totals: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Entries int64 `bson:"entries"`
		Words   int64 `bson:"words"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("decode entry totals: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Entries, results[0].Words, nil
}

// EnsureIndexes creates the compound index behind per-user, per-day listing.
func (r *EntryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
