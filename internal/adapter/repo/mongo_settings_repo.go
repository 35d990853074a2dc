package repo

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The store has exactly one settings document.
const settingsDocID = "store"

type MongoSettingsRepo struct {
	col *mongo.Collection
}

func NewMongoSettingsRepo(db *mongo.Database) *MongoSettingsRepo {
	return &MongoSettingsRepo{col: db.Collection(colSettings)}
}

func (r *MongoSettingsRepo) Get(ctx context.Context) (*domain.StoreSettings, error) {
	var s domain.StoreSettings
	if err := r.col.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

func (r *MongoSettingsRepo) Update(ctx context.Context, s *domain.StoreSettings) error {
	s.ID = settingsDocID
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, s, opts); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

var _ usecase.SettingsRepo = (*MongoSettingsRepo)(nil)
