// internal/domain/sheet_link.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SheetLink associates a client with the coach-supplied spreadsheet that
// holds their workout plan. At most one link exists per client; re-linking
// overwrites it (upsert keyed by clientId).
type SheetLink struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	SpreadsheetID string             `bson:"spreadsheetId" json:"spreadsheetId"`
	TabName       string             `bson:"tabName" json:"tabName"`
	Active        bool               `bson:"active" json:"active"`
	LastSyncedAt  time.Time          `bson:"lastSyncedAt" json:"lastSyncedAt"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
