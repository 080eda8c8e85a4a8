// internal/domain/cached_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CachedPlan holds the most recent successfully parsed record set for a
// client. It is the source of truth for plan reads; a live re-fetch only
// happens when no cached row exists. Keyed uniquely by clientId and
// overwritten whole on every successful sync, never partially replaced.
type CachedPlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID     primitive.ObjectID `bson:"clientId" json:"clientId"`
	Exercises    []ExerciseRecord   `bson:"exercises" json:"exercises"`
	TotalCount   int                `bson:"totalCount" json:"totalCount"`
	MuscleGroups []string           `bson:"muscleGroups" json:"muscleGroups"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
