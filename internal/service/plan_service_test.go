package service

import (
	"coachsync/internal/domain"
	"coachsync/internal/gsheets"
	"coachsync/internal/parser"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planFixture struct {
	links  *fakeLinkRepo
	plans  *fakePlanRepo
	reader *fakeReader
	svc    PlanService
}

func newPlanFixture(t *testing.T, reader *fakeReader) *planFixture {
	t.Helper()
	f := &planFixture{
		links:  newFakeLinkRepo(),
		plans:  newFakePlanRepo(),
		reader: reader,
	}
	f.svc = NewPlanService(f.links, f.plans, f.reader,
		parser.New(parser.DefaultColumnLayout()), 5*time.Second)
	return f
}

func (f *planFixture) linkClient(clientID primitive.ObjectID, active bool) {
	f.links.links[clientID] = &domain.SheetLink{
		ClientID:      clientID,
		CoachID:       primitive.NewObjectID(),
		SpreadsheetID: "ABC123",
		TabName:       "4 semanas",
		Active:        active,
		LastSyncedAt:  time.Now().UTC(),
	}
}

func TestGetPlan_NoLink(t *testing.T) {
	f := newPlanFixture(t, &fakeReader{rows: planRows()})

	result, err := f.svc.GetPlan(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.False(t, result.Personalized)
	assert.False(t, result.Linked)
	assert.NotNil(t, result.Exercises)
	assert.Empty(t, result.Exercises)
	assert.Zero(t, f.reader.readCalls)
}

func TestGetPlan_InactiveLinkIsUnlinked(t *testing.T) {
	f := newPlanFixture(t, &fakeReader{rows: planRows()})
	clientID := primitive.NewObjectID()
	f.linkClient(clientID, false)

	result, err := f.svc.GetPlan(context.Background(), clientID)
	require.NoError(t, err)
	assert.False(t, result.Linked)
	assert.Zero(t, f.reader.readCalls)
}

func TestGetPlan_ReadThroughFill(t *testing.T) {
	f := newPlanFixture(t, &fakeReader{rows: planRows()})
	clientID := primitive.NewObjectID()
	f.linkClient(clientID, true)

	result, err := f.svc.GetPlan(context.Background(), clientID)
	require.NoError(t, err)

	assert.True(t, result.Personalized)
	assert.True(t, result.Linked)
	assert.True(t, result.Available)
	assert.Len(t, result.Exercises, 2)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, 2, result.Metadata.TotalCount)
	assert.Equal(t, 1, f.reader.readCalls)
	assert.Equal(t, 1, f.plans.upsertCalls, "cache should be populated")
}

func TestGetPlan_CachePrecedence(t *testing.T) {
	f := newPlanFixture(t, &fakeReader{rows: planRows()})
	clientID := primitive.NewObjectID()
	f.linkClient(clientID, true)

	first, err := f.svc.GetPlan(context.Background(), clientID)
	require.NoError(t, err)

	// Second fetch is served from the cache without touching the sheet.
	second, err := f.svc.GetPlan(context.Background(), clientID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.reader.readCalls, "cache hit must not re-fetch")
	assert.Equal(t, first.Exercises, second.Exercises)
	assert.Equal(t, first.Metadata.SyncedAt, second.Metadata.SyncedAt)
}

func TestGetPlan_SoftDegradeWhenFetchFails(t *testing.T) {
	f := newPlanFixture(t, &fakeReader{readErr: gsheets.ErrUnavailable})
	clientID := primitive.NewObjectID()
	f.linkClient(clientID, true)

	result, err := f.svc.GetPlan(context.Background(), clientID)
	require.NoError(t, err, "fetch failure degrades softly, not into an error")

	assert.True(t, result.Linked)
	assert.False(t, result.Available)
	assert.Equal(t, unavailableMessage, result.Message)
	assert.Empty(t, result.Exercises)
	assert.Empty(t, f.plans.plans, "no cache row for a failed fill")
}

func TestGetPlan_EmptyParseOnReadIsLegitimate(t *testing.T) {
	f := newPlanFixture(t, &fakeReader{rows: noiseRows()})
	clientID := primitive.NewObjectID()
	f.linkClient(clientID, true)

	result, err := f.svc.GetPlan(context.Background(), clientID)
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.Empty(t, result.Exercises)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, 0, result.Metadata.TotalCount)
}
