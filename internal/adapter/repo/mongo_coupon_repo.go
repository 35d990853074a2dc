package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/pricing"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoCouponRepo struct {
	col *mongo.Collection
}

func NewMongoCouponRepo(db *mongo.Database) *MongoCouponRepo {
	return &MongoCouponRepo{col: db.Collection(colCoupons)}
}

// FindByCode is case-insensitive on the stored uppercase code.
func (r *MongoCouponRepo) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := r.col.FindOne(ctx, bson.M{"_id": strings.ToUpper(code)}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pricing.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return &c, nil
}

func (r *MongoCouponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	c.Code = strings.ToUpper(c.Code)
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func (r *MongoCouponRepo) SetActive(ctx context.Context, code string, active bool) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": strings.ToUpper(code)},
		bson.M{"$set": bson.M{"active": active}},
	)
	if err != nil {
		return fmt.Errorf("set coupon active: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCouponRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer cur.Close(ctx)

	var coupons []domain.Coupon
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	return coupons, nil
}

var (
	_ pricing.CouponRepo      = (*MongoCouponRepo)(nil)
	_ usecase.CouponAdminRepo = (*MongoCouponRepo)(nil)
)
