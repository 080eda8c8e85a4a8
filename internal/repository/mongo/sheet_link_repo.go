// internal/repository/mongo/sheet_link_repo.go
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

const sheetLinkCollectionName = "sheet_links"

// mongoSheetLinkRepository implements repository.SheetLinkRepository
type mongoSheetLinkRepository struct {
	collection *mongo.Collection
}

// NewMongoSheetLinkRepository creates a new SheetLink repository.
func NewMongoSheetLinkRepository(db *mongo.Database) repository.SheetLinkRepository {
	return &mongoSheetLinkRepository{
		collection: db.Collection(sheetLinkCollectionName),
	}
}

// Upsert writes the link for a client, replacing any existing one. The
// unique clientId index makes concurrent writes resolve last-write-wins.
func (r *mongoSheetLinkRepository) Upsert(ctx context.Context, link *domain.SheetLink) error {
	if link.ClientID == primitive.NilObjectID || link.CoachID == primitive.NilObjectID || link.SpreadsheetID == "" {
		return errors.New("sheet link requires clientId, coachId, and spreadsheetId")
	}

	now := time.Now().UTC()
	link.LastSyncedAt = now

	filter := bson.M{"clientId": link.ClientID}
	update := bson.M{
		"$set": bson.M{
			"coachId":       link.CoachID,
			"spreadsheetId": link.SpreadsheetID,
			"tabName":       link.TabName,
			"active":        link.Active,
			"lastSyncedAt":  link.LastSyncedAt,
		},
		"$setOnInsert": bson.M{
			"clientId":  link.ClientID,
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByClientID retrieves the link for a client, if any.
func (r *mongoSheetLinkRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.SheetLink, error) {
	var link domain.SheetLink
	filter := bson.M{"clientId": clientID}

	err := r.collection.FindOne(ctx, filter).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// TouchSynced advances lastSyncedAt after a successful re-sync.
func (r *mongoSheetLinkRepository) TouchSynced(ctx context.Context, clientID primitive.ObjectID) error {
	filter := bson.M{"clientId": clientID}
	update := bson.M{"$set": bson.M{"lastSyncedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSheetLinkIndexes creates necessary indexes. Call during startup.
func EnsureSheetLinkIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One link per client; upserts key on this.
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal, see EnsureUserIndexes.
	}
}
