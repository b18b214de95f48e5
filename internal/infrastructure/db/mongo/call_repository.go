package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quotemate/gateway/internal/core/domain"
)

const callCollection = "call_log"

// CallRepository keeps the outbound call log.
type CallRepository struct {
	col *mongo.Collection
}

func NewCallRepository(db *mongo.Database) *CallRepository {
	return &CallRepository{col: db.Collection(callCollection)}
}

type mongoCall struct {
	ID              string    `bson:"_id"`
	BuilderID       string    `bson:"builder_id"`
	BuilderName     string    `bson:"builder_name"`
	SubcontractorID string    `bson:"subcontractor_id"`
	ProjectID       string    `bson:"project_id,omitempty"`
	PhoneNumber     string    `bson:"phone_number"`
	Status          string    `bson:"status"`
	Error           string    `bson:"error,omitempty"`
	CreatedAt       time.Time `bson:"created_at"`
}

func (r *CallRepository) Insert(ctx context.Context, rec *domain.CallRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCall{
		ID:              rec.ID,
		BuilderID:       rec.BuilderID,
		BuilderName:     rec.BuilderName,
		SubcontractorID: rec.SubcontractorID,
		ProjectID:       rec.ProjectID,
		PhoneNumber:     rec.PhoneNumber,
		Status:          rec.Status,
		Error:           rec.Error,
		CreatedAt:       rec.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert call: %w", err)
	}
	return nil
}

func (r *CallRepository) ListByBuilder(ctx context.Context, builderID string, limit int) ([]domain.CallRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if builderID != "" {
		filter["builder_id"] = builderID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoCall
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode calls: %w", err)
	}
	out := make([]domain.CallRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.CallRecord{
			ID:              d.ID,
			BuilderID:       d.BuilderID,
			BuilderName:     d.BuilderName,
			SubcontractorID: d.SubcontractorID,
			ProjectID:       d.ProjectID,
			PhoneNumber:     d.PhoneNumber,
			Status:          d.Status,
			Error:           d.Error,
			CreatedAt:       d.CreatedAt,
		})
	}
	return out, nil
}

// EnsureIndexes creates the indexes the call log queries rely on.
func (r *CallRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "builder_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
