package service

import (
	"coachsync/internal/domain"
	"coachsync/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository and collaborator interfaces. They model
// only the behavior the services depend on: upsert-by-clientId semantics and
// ErrNotFound on misses.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrUpdateFailed
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeLinkRepo struct {
	links      map[primitive.ObjectID]*domain.SheetLink
	upsertErr  error
	touchCalls int
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[primitive.ObjectID]*domain.SheetLink{}}
}

func (r *fakeLinkRepo) Upsert(ctx context.Context, link *domain.SheetLink) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	link.LastSyncedAt = time.Now().UTC()
	cp := *link
	r.links[link.ClientID] = &cp
	return nil
}

func (r *fakeLinkRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.SheetLink, error) {
	link, ok := r.links[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (r *fakeLinkRepo) TouchSynced(ctx context.Context, clientID primitive.ObjectID) error {
	if _, ok := r.links[clientID]; !ok {
		return repository.ErrNotFound
	}
	r.touchCalls++
	r.links[clientID].LastSyncedAt = time.Now().UTC()
	return nil
}

type fakePlanRepo struct {
	plans       map[primitive.ObjectID]*domain.CachedPlan
	upsertErr   error
	upsertCalls int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.CachedPlan{}}
}

func (r *fakePlanRepo) Upsert(ctx context.Context, plan *domain.CachedPlan) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upsertCalls++
	plan.UpdatedAt = time.Now().UTC()
	cp := *plan
	r.plans[plan.ClientID] = &cp
	return nil
}

func (r *fakePlanRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CachedPlan, error) {
	plan, ok := r.plans[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *plan
	return &cp, nil
}

// fakeTx runs the function directly; the real implementation wraps it in a
// Mongo session.
type fakeTx struct {
	err error
}

func (t *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.err != nil {
		return t.err
	}
	return fn(ctx)
}

type fakeReader struct {
	rows        [][]string
	readErr     error
	healthErr   error
	readCalls   int
	healthCalls int
}

func (r *fakeReader) HealthCheck(ctx context.Context, spreadsheetID string) error {
	r.healthCalls++
	return r.healthErr
}

func (r *fakeReader) ReadRows(ctx context.Context, spreadsheetID, tabName string) ([][]string, error) {
	r.readCalls++
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.rows, nil
}

type fakeArchive struct {
	keys []string
}

func (a *fakeArchive) PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error {
	a.keys = append(a.keys, objectKey)
	return nil
}

// planRows is a minimal well-formed sheet: header marker plus two exercises.
func planRows() [][]string {
	return [][]string{
		{"", "", "EXERCISES", "", "", "", "", "", ""},
		{"", "", "Legs", "Squat", "http://v", "3", "8-10", "r(2)", "90s"},
		{"", "", "Chest", "Bench Press", "", "4", "6-8", "1", "120s"},
	}
}

// noiseRows reaches the parser but yields zero records.
func noiseRows() [][]string {
	return [][]string{
		{"", "", "EXERCISES", "", "", "", "", "", ""},
		{"", "", "Chest", "**Notes**", "", "0", "", "", ""},
	}
}

func newCoach() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "Coach", Email: "coach@example.com", Role: domain.RoleCoach}
}

func newClient() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "Client", Email: "client@example.com", Role: domain.RoleClient}
}
