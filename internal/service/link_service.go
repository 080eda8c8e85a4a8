package service

import (
	"coachsync/internal/domain"
	"coachsync/internal/gsheets"
	"coachsync/internal/parser"
	"coachsync/internal/repository"
	"coachsync/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUnknownCoach        = errors.New("coach not found")
	ErrClientNotFound      = errors.New("client user not found")
	ErrInvalidDocumentURL  = errors.New("document URL is not a shareable spreadsheet link")
	ErrDocumentUnavailable = errors.New("the spreadsheet could not be reached")
	ErrEmptyDocument       = errors.New("the spreadsheet tab contains no rows")
	ErrNoExercisesFound    = errors.New("no exercises could be parsed from the spreadsheet")
	ErrNotLinked           = errors.New("client has no linked spreadsheet")
)

// SheetReader is the surface of the document service the sync pipeline
// consumes. *gsheets.Client satisfies it.
type SheetReader interface {
	HealthCheck(ctx context.Context, spreadsheetID string) error
	ReadRows(ctx context.Context, spreadsheetID, tabName string) ([][]string, error)
}

// LinkResult reports what an initial link produced.
type LinkResult struct {
	SpreadsheetID string    `json:"spreadsheetId"`
	ExerciseCount int       `json:"exerciseCount"`
	MuscleGroups  []string  `json:"muscleGroups"`
	SyncedAt      time.Time `json:"syncedAt"`
}

// --- Service Interface ---
type LinkService interface {
	// LinkClientToDocument associates a client with a coach-supplied
	// spreadsheet, parses it, and caches the result — atomically.
	LinkClientToDocument(ctx context.Context, coachID, clientID primitive.ObjectID, documentURL string) (*LinkResult, error)
	// Resync re-fetches and re-parses the already linked spreadsheet,
	// refreshing the cached plan.
	Resync(ctx context.Context, clientID primitive.ObjectID) (*PlanResult, error)
}

// --- Service Implementation ---

type linkService struct {
	userRepo     repository.UserRepository
	linkRepo     repository.SheetLinkRepository
	planRepo     repository.CachedPlanRepository
	tx           repository.TxManager
	reader       SheetReader
	archive      storage.ObjectStorage // nil when snapshot archiving is disabled
	planParser   *parser.Parser
	defaultTab   string
	fetchTimeout time.Duration
}

// NewLinkService creates a new instance of linkService. archive may be nil.
func NewLinkService(
	userRepo repository.UserRepository,
	linkRepo repository.SheetLinkRepository,
	planRepo repository.CachedPlanRepository,
	tx repository.TxManager,
	reader SheetReader,
	archive storage.ObjectStorage,
	planParser *parser.Parser,
	defaultTab string,
	fetchTimeout time.Duration,
) LinkService {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &linkService{
		userRepo:     userRepo,
		linkRepo:     linkRepo,
		planRepo:     planRepo,
		tx:           tx,
		reader:       reader,
		archive:      archive,
		planParser:   planParser,
		defaultTab:   defaultTab,
		fetchTimeout: fetchTimeout,
	}
}

// LinkClientToDocument validates the request, probes and parses the
// spreadsheet, then upserts the SheetLink and CachedPlan rows in one
// transaction. A failure at any step leaves no partial state: the external
// calls happen before the transaction opens, and the two writes commit
// together or not at all.
func (s *linkService) LinkClientToDocument(ctx context.Context, coachID, clientID primitive.ObjectID, documentURL string) (*LinkResult, error) {
	// 1. Validate the coach resolves to a real coach account.
	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownCoach
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrUnknownCoach
	}

	// 2. Validate the client exists.
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotFound
	}

	// 3. Extract the spreadsheet id from the shareable URL.
	spreadsheetID, err := gsheets.ExtractSpreadsheetID(documentURL)
	if err != nil {
		return nil, ErrInvalidDocumentURL
	}

	// 4. Live health probe before anything is written.
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	if err := s.reader.HealthCheck(fetchCtx, spreadsheetID); err != nil {
		// Both sentinels stay matchable: callers branch on the gsheets
		// cause, the service error marks which step failed.
		return nil, fmt.Errorf("%w: %w", ErrDocumentUnavailable, err)
	}

	// 5. Fetch and parse.
	rows, records, meta, err := s.fetchAndParse(ctx, spreadsheetID, s.defaultTab)
	if err != nil {
		return nil, err
	}
	if meta.TotalCount == 0 {
		// Zero records on an initial link signals column misalignment,
		// not an intentionally empty plan.
		return nil, ErrNoExercisesFound
	}

	// 6. Upsert link and cache together.
	link := &domain.SheetLink{
		ClientID:      clientID,
		CoachID:       coachID,
		SpreadsheetID: spreadsheetID,
		TabName:       s.defaultTab,
		Active:        true,
	}
	cached := &domain.CachedPlan{
		ClientID:     clientID,
		Exercises:    records,
		TotalCount:   meta.TotalCount,
		MuscleGroups: meta.MuscleGroups,
	}
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.linkRepo.Upsert(txCtx, link); err != nil {
			return err
		}
		return s.planRepo.Upsert(txCtx, cached)
	})
	if err != nil {
		correlationID := uuid.NewString()
		log.Printf("ERROR: [%s] link transaction failed for client %s: %v", correlationID, clientID.Hex(), err)
		return nil, fmt.Errorf("failed to store sheet link (ref %s)", correlationID)
	}

	s.archiveSnapshot(clientID, spreadsheetID, rows)

	return &LinkResult{
		SpreadsheetID: spreadsheetID,
		ExerciseCount: meta.TotalCount,
		MuscleGroups:  meta.MuscleGroups,
		SyncedAt:      cached.UpdatedAt,
	}, nil
}

// Resync refreshes the cached plan from the already linked spreadsheet.
// Unlike the initial link, a parse yielding zero records is stored as a
// legitimate empty plan: the coach may have cleared the sheet on purpose.
func (s *linkService) Resync(ctx context.Context, clientID primitive.ObjectID) (*PlanResult, error) {
	link, err := s.linkRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotLinked
		}
		return nil, err
	}
	if !link.Active {
		return nil, ErrNotLinked
	}

	rows, records, meta, err := s.fetchAndParse(ctx, link.SpreadsheetID, link.TabName)
	if err != nil {
		return nil, err
	}

	cached := &domain.CachedPlan{
		ClientID:     clientID,
		Exercises:    records,
		TotalCount:   meta.TotalCount,
		MuscleGroups: meta.MuscleGroups,
	}
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.planRepo.Upsert(txCtx, cached); err != nil {
			return err
		}
		return s.linkRepo.TouchSynced(txCtx, clientID)
	})
	if err != nil {
		correlationID := uuid.NewString()
		log.Printf("ERROR: [%s] resync transaction failed for client %s: %v", correlationID, clientID.Hex(), err)
		return nil, fmt.Errorf("failed to store refreshed plan (ref %s)", correlationID)
	}

	s.archiveSnapshot(clientID, link.SpreadsheetID, rows)

	return resultFromCache(cached), nil
}

// fetchAndParse reads the tab under the fetch timeout and runs the parser.
// An empty tab is an error here; callers decide what zero parsed records
// mean for their path.
func (s *linkService) fetchAndParse(ctx context.Context, spreadsheetID, tabName string) ([][]string, []domain.ExerciseRecord, domain.PlanMetadata, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	rows, err := s.reader.ReadRows(fetchCtx, spreadsheetID, tabName)
	if err != nil {
		return nil, nil, domain.PlanMetadata{}, err
	}
	if len(rows) == 0 {
		return nil, nil, domain.PlanMetadata{}, ErrEmptyDocument
	}

	records, meta := s.planParser.Parse(rows)
	return rows, records, meta, nil
}

// archiveSnapshot stores the raw rows of a successful sync for later replay.
// Best effort: archive failures are logged, never surfaced.
func (s *linkService) archiveSnapshot(clientID primitive.ObjectID, spreadsheetID string, rows [][]string) {
	if s.archive == nil {
		return
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		log.Printf("WARN: failed to marshal snapshot for client %s: %v", clientID.Hex(), err)
		return
	}

	key := fmt.Sprintf("snapshots/%s/%s.json", clientID.Hex(), uuid.NewString())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.archive.PutObject(ctx, key, payload, "application/json"); err != nil {
		log.Printf("WARN: failed to archive snapshot of %s: %v", spreadsheetID, err)
	}
}
