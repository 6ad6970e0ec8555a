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

const collectionPrompts = "prompts"

type PromptRepository struct {
	col *mongo.Collection
}

func NewPromptRepository(db *mongo.Database) *PromptRepository {
	return &PromptRepository{col: db.Collection(collectionPrompts)}
}

type promptDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Text          string             `bson:"text"`
	Category      string             `bson:"category,omitempty"`
	ScheduledDate *time.Time         `bson:"scheduled_date,omitempty"`
	IsUsed        bool               `bson:"is_used"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *promptDoc) toDomain() *domain.Prompt {
	p := &domain.Prompt{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Category:  d.Category,
		IsUsed:    d.IsUsed,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.ScheduledDate != nil {
		t := d.ScheduledDate.UTC()
		p.ScheduledDate = &t
	}
	return p
}

func (r *PromptRepository) Create(ctx context.Context, prompt *domain.Prompt) (*domain.Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := promptDoc{
		Text:          prompt.Text,
		Category:      prompt.Category,
		ScheduledDate: prompt.ScheduledDate,
		IsUsed:        prompt.IsUsed,
		CreatedAt:     prompt.CreatedAt.UTC(),
		UpdatedAt:     prompt.UpdatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert prompt: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PromptRepository) FindByID(ctx context.Context, id string) (*domain.Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPromptNotFound
	}

	var doc promptDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("find prompt: %w", err)
	}
	return doc.toDomain(), nil
}

// FindScheduledUnused returns the unused prompt scheduled for the given day.
// day must be a midnight-UTC instant; scheduled dates are stored normalized
// the same way, so equality matching is exact.
func (r *PromptRepository) FindScheduledUnused(ctx context.Context, day time.Time) (*domain.Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"scheduled_date": day.UTC(), "is_used": false}

	var doc promptDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("find scheduled prompt: %w", err)
	}
	return doc.toDomain(), nil
}

// FindRandomUnused samples one unused prompt server-side.
func (r *PromptRepository) FindRandomUnused(ctx context.Context) (*domain.Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_used": false}}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample prompt: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []promptDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sampled prompt: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrNoPromptsAvailable
	}
	return docs[0].toDomain(), nil
}

func (r *PromptRepository) MarkUsed(ctx context.Context, id string) (*domain.Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPromptNotFound
	}

	update := bson.M{"$set": bson.M{
		"is_used":    true,
		"updated_at": time.Now().UTC(),
	}}

	var doc promptDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("mark prompt used: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PromptRepository) ListUsed(ctx context.Context, limit int64) ([]*domain.Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_date", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, bson.M{"is_used": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list used prompts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []promptDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode used prompts: %w", err)
	}

	prompts := make([]*domain.Prompt, 0, len(docs))
	for i := range docs {
		prompts = append(prompts, docs[i].toDomain())
	}
	return prompts, nil
}

// EnsureIndexes creates the indexes backing the selection queries.
func (r *PromptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "scheduled_date", Value: 1}, {Key: "is_used", Value: 1}}},
		{Keys: bson.D{{Key: "is_used", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
