package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	outboxPending = "PENDING"
	outboxSent    = "SENT"

	channelOrderPlaced = "order.placed.v1"
)

type outboxDoc struct {
	ID            string    `bson:"_id"`
	Channel       string    `bson:"channel"`
	Payload       []byte    `bson:"payload"`
	Status        string    `bson:"status"`
	RetryCount    int       `bson:"retry_count"`
	NextAttemptAt time.Time `bson:"next_attempt_at"`
	CreatedAt     time.Time `bson:"created_at"`
	SentAt        time.Time `bson:"sent_at,omitempty"`
}

type MongoOutboxRepo struct {
	col *mongo.Collection
}

func NewMongoOutboxRepo(db *mongo.Database) *MongoOutboxRepo {
	return &MongoOutboxRepo{col: db.Collection(colOutbox)}
}

func (r *MongoOutboxRepo) InsertOrderPlaced(ctx context.Context, payload []byte) error {
	now := time.Now()
	doc := outboxDoc{
		ID:            uuid.NewString(),
		Channel:       channelOrderPlaced,
		Payload:       payload,
		Status:        outboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

func (r *MongoOutboxRepo) FetchPending(ctx context.Context, limit int64) ([]usecase.OutboxEntry, error) {
	filter := bson.M{
		"status":          outboxPending,
		"next_attempt_at": bson.M{"$lte": time.Now()},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch pending outbox: %w", err)
	}
	defer cur.Close(ctx)

	var docs []outboxDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode outbox: %w", err)
	}

	entries := make([]usecase.OutboxEntry, len(docs))
	for i, d := range docs {
		entries[i] = usecase.OutboxEntry{
			ID:         d.ID,
			Channel:    d.Channel,
			Payload:    d.Payload,
			RetryCount: d.RetryCount,
		}
	}
	return entries, nil
}

func (r *MongoOutboxRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": outboxSent, "sent_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("mark outbox sent: %w", err)
	}
	return nil
}

func (r *MongoOutboxRepo) MarkFailed(ctx context.Context, id string, nextAttempt time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"retry_count": 1},
			"$set": bson.M{"next_attempt_at": nextAttempt},
		},
	)
	if err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	return nil
}

var (
	_ usecase.OutboxRepo   = (*MongoOutboxRepo)(nil)
	_ usecase.OutboxSource = (*MongoOutboxRepo)(nil)
)
