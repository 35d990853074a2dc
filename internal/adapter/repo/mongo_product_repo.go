package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoProductRepo struct {
	col *mongo.Collection
}

func NewMongoProductRepo(db *mongo.Database) *MongoProductRepo {
	return &MongoProductRepo{col: db.Collection(colProducts)}
}

func (r *MongoProductRepo) List(ctx context.Context, f usecase.ProductFilter) ([]domain.Product, error) {
	filter := bson.M{}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.PublishedOnly {
		filter["published"] = true
	}
	if f.FeaturedOnly {
		filter["featured"] = true
	}
	price := bson.M{}
	if f.PriceMin > 0 {
		price["$gte"] = f.PriceMin
	}
	if f.PriceMax > 0 {
		price["$lte"] = f.PriceMax
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	opts := options.Find()
	switch f.SortBy {
	case "price_asc":
		opts.SetSort(bson.D{{Key: "price", Value: 1}})
	case "price_desc":
		opts.SetSort(bson.D{{Key: "price", Value: -1}})
	default:
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var products []domain.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *MongoProductRepo) Create(ctx context.Context, p *domain.Product) (string, error) {
	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

func (r *MongoProductRepo) Update(ctx context.Context, id string, p *domain.Product) error {
	p.ID = id
	p.UpdatedAt = time.Now()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, p)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepo) SetPublished(ctx context.Context, id string, published bool) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"published": published, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock adds delta atomically, then floors any negative result at
// zero in a follow-up write. Oversells at this level are tolerated; the
// cart already clamps against the stock snapshot.
func (r *MongoProductRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": delta}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$lt": 0}},
		bson.M{"$set": bson.M{"stock": 0}},
	)
	if err != nil {
		return fmt.Errorf("floor stock: %w", err)
	}
	return nil
}

var _ usecase.ProductRepo = (*MongoProductRepo)(nil)
