package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quotemate/gateway/internal/core/domain"
)

const accountCollection = "demo_accounts"

// AccountRepository stores demo accounts, keyed by lower-cased email.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	Email        string `bson:"_id"`
	UserID       string `bson:"user_id"`
	Name         string `bson:"name"`
	Role         string `bson:"role"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.DemoAccount, error) {
	var doc mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	return &domain.DemoAccount{
		User: domain.User{
			ID:    doc.UserID,
			Email: doc.Email,
			Name:  doc.Name,
			Role:  domain.Role(doc.Role),
		},
		PasswordHash: doc.PasswordHash,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}, nil
}

// Upsert writes account, keeping the original creation time when the
// account already exists.
func (r *AccountRepository) Upsert(ctx context.Context, account *domain.DemoAccount) error {
	filter := bson.M{"_id": account.User.Email}
	update := bson.M{
		"$set": bson.M{
			"user_id":       account.User.ID,
			"name":          account.User.Name,
			"role":          string(account.User.Role),
			"password_hash": account.PasswordHash,
			"updated_at":    account.UpdatedAt.Unix(),
		},
		"$setOnInsert": bson.M{"created_at": account.CreatedAt.Unix()},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
