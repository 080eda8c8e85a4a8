// internal/domain/plan.go
package domain

import "time"

// ExerciseRecord is one row of a parsed workout plan, extracted from a
// coach-maintained spreadsheet. RecordID is derived from the source row
// position and is only stable within one sync, never across re-syncs.
type ExerciseRecord struct {
	RecordID    string `bson:"recordId" json:"recordId"`
	MuscleGroup string `bson:"muscleGroup" json:"muscleGroup"` // Normalized; "General" when the cell is blank
	Name        string `bson:"name" json:"name"`
	VideoRef    string `bson:"videoRef,omitempty" json:"videoRef,omitempty"`
	SetCount    int    `bson:"setCount" json:"setCount"`
	RepsSpec    string `bson:"repsSpec,omitempty" json:"repsSpec,omitempty"` // Free-form, e.g. "6-8"
	RIR         *int   `bson:"rir,omitempty" json:"rir"`                     // Reps in reserve; nil when the cell has no digits
	RestSpec    string `bson:"restSpec,omitempty" json:"restSpec,omitempty"`
}

// PlanMetadata summarizes one parse run. It is always produced together with
// the record set as a single unit.
type PlanMetadata struct {
	TotalCount   int       `bson:"totalCount" json:"totalCount"`
	MuscleGroups []string  `bson:"muscleGroups" json:"muscleGroups"` // Distinct values, first-seen order
	ParsedAt     time.Time `bson:"parsedAt" json:"parsedAt"`
}
