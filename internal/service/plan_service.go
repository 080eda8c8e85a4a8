package service

import (
	"coachsync/internal/domain"
	"coachsync/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanMeta summarizes a returned plan.
type PlanMeta struct {
	TotalCount   int       `json:"totalCount"`
	MuscleGroups []string  `json:"muscleGroups"`
	SyncedAt     time.Time `json:"syncedAt"`
}

// PlanResult is the answer to a plan fetch. Linked=false means no plan is
// assigned (not an error); Available=false with Linked=true means the link
// exists but the content could not be loaded.
type PlanResult struct {
	Personalized bool                    `json:"personalized"`
	Linked       bool                    `json:"linked"`
	Available    bool                    `json:"available"`
	Message      string                  `json:"message,omitempty"`
	Exercises    []domain.ExerciseRecord `json:"exercises"`
	Metadata     *PlanMeta               `json:"metadata,omitempty"`
}

// unavailableMessage is what clients see when a read-through fill fails.
// They get told to contact their coach, never shown the raw error.
const unavailableMessage = "Your plan could not be loaded right now. Please contact your coach."

// --- Service Interface ---
type PlanService interface {
	// GetPlan returns the client's current workout plan, serving from the
	// cache and falling back to a live fetch only on a miss.
	GetPlan(ctx context.Context, clientID primitive.ObjectID) (*PlanResult, error)
}

// --- Service Implementation ---

type planService struct {
	linkRepo     repository.SheetLinkRepository
	planRepo     repository.CachedPlanRepository
	reader       SheetReader
	planParser   planParser
	fetchTimeout time.Duration
}

// planParser is the slice of *parser.Parser the read path needs.
type planParser interface {
	Parse(rows [][]string) ([]domain.ExerciseRecord, domain.PlanMetadata)
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	linkRepo repository.SheetLinkRepository,
	planRepo repository.CachedPlanRepository,
	reader SheetReader,
	p planParser,
	fetchTimeout time.Duration,
) PlanService {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &planService{
		linkRepo:     linkRepo,
		planRepo:     planRepo,
		reader:       reader,
		planParser:   p,
		fetchTimeout: fetchTimeout,
	}
}

// GetPlan implements read-through caching: cache hit is returned directly
// with no live fetch; a miss with an active link triggers fetch+parse and
// populates the cache; no link yields an explicit "no plan assigned" result.
func (s *planService) GetPlan(ctx context.Context, clientID primitive.ObjectID) (*PlanResult, error) {
	cached, err := s.planRepo.GetByClientID(ctx, clientID)
	if err == nil {
		return resultFromCache(cached), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	link, err := s.linkRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unlinkedResult(), nil
		}
		return nil, err
	}
	if !link.Active {
		return unlinkedResult(), nil
	}

	// Read-through fill. A failure here degrades to a soft result; the
	// spreadsheet being unreachable is the coach's problem to fix, not a
	// server error.
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	rows, err := s.reader.ReadRows(fetchCtx, link.SpreadsheetID, link.TabName)
	if err != nil {
		log.Printf("WARN: read-through fetch failed for client %s: %v", clientID.Hex(), err)
		return &PlanResult{
			Personalized: true,
			Linked:       true,
			Available:    false,
			Message:      unavailableMessage,
			Exercises:    []domain.ExerciseRecord{},
		}, nil
	}

	// Zero records on a read is a legitimate empty plan.
	records, meta := s.planParser.Parse(rows)
	cached = &domain.CachedPlan{
		ClientID:     clientID,
		Exercises:    records,
		TotalCount:   meta.TotalCount,
		MuscleGroups: meta.MuscleGroups,
	}
	if err := s.planRepo.Upsert(ctx, cached); err != nil {
		return nil, err
	}

	return resultFromCache(cached), nil
}

func resultFromCache(cached *domain.CachedPlan) *PlanResult {
	exercises := cached.Exercises
	if exercises == nil {
		exercises = []domain.ExerciseRecord{}
	}
	return &PlanResult{
		Personalized: true,
		Linked:       true,
		Available:    true,
		Exercises:    exercises,
		Metadata: &PlanMeta{
			TotalCount:   cached.TotalCount,
			MuscleGroups: cached.MuscleGroups,
			SyncedAt:     cached.UpdatedAt,
		},
	}
}

func unlinkedResult() *PlanResult {
	return &PlanResult{
		Personalized: false,
		Linked:       false,
		Available:    false,
		Exercises:    []domain.ExerciseRecord{},
	}
}
