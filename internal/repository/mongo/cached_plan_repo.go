// internal/repository/mongo/cached_plan_repo.go
package mongo

import (
	"coachsync/internal/domain"
	"coachsync/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cachedPlanCollectionName = "cached_plans"

// mongoCachedPlanRepository implements repository.CachedPlanRepository
type mongoCachedPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoCachedPlanRepository creates a new CachedPlan repository.
func NewMongoCachedPlanRepository(db *mongo.Database) repository.CachedPlanRepository {
	return &mongoCachedPlanRepository{
		collection: db.Collection(cachedPlanCollectionName),
	}
}

// Upsert replaces the cached record set for a client in a single write, so
// readers never observe a partially replaced plan.
func (r *mongoCachedPlanRepository) Upsert(ctx context.Context, plan *domain.CachedPlan) error {
	if plan.ClientID == primitive.NilObjectID {
		return errors.New("cached plan requires clientId")
	}

	plan.UpdatedAt = time.Now().UTC()

	filter := bson.M{"clientId": plan.ClientID}
	update := bson.M{
		"$set": bson.M{
			"exercises":    plan.Exercises,
			"totalCount":   plan.TotalCount,
			"muscleGroups": plan.MuscleGroups,
			"updatedAt":    plan.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"clientId": plan.ClientID,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByClientID retrieves the cached plan for a client, if any.
func (r *mongoCachedPlanRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CachedPlan, error) {
	var plan domain.CachedPlan
	filter := bson.M{"clientId": clientID}

	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// EnsureCachedPlanIndexes creates necessary indexes. Call during startup.
func EnsureCachedPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// At most one live cached plan per client.
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal, see EnsureUserIndexes.
	}
}
