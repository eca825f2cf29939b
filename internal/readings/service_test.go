package readings

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
	"scale-monitor-backend/internal/timerange"
)

type listCall struct {
	branchID string
	from, to time.Time
	limit    int
}

type fakeStore struct {
	readings   []models.WeightReading
	aggregates []models.BranchReadingAggregate
	branches   []models.Branch

	listCalls []listCall
	aggScope  []string
}

func (f *fakeStore) ListReadings(_ context.Context, branchID string, from, to time.Time, limit int) ([]models.WeightReading, error) {
	f.listCalls = append(f.listCalls, listCall{branchID, from, to, limit})
	out := make([]models.WeightReading, 0)
	for _, r := range f.readings {
		if r.BranchID == branchID && !r.RecordedAt.Before(from) && !r.RecordedAt.After(to) {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) AggregateReadingsByBranch(_ context.Context, _, _ time.Time, branchIDs []string) ([]models.BranchReadingAggregate, error) {
	f.aggScope = branchIDs
	out := make([]models.BranchReadingAggregate, 0)
	for _, a := range f.aggregates {
		if branchIDs == nil || slices.Contains(branchIDs, a.BranchID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBranches(_ context.Context, ids []string) ([]models.Branch, error) {
	out := make([]models.Branch, 0)
	for _, b := range f.branches {
		if ids == nil || slices.Contains(ids, b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

var (
	globalActor = &access.Actor{UserID: "admin", Role: models.RoleGlobalManager, BranchIDs: []string{}}
	norteActor  = &access.Actor{UserID: "norte", Role: models.RoleBranchManager, BranchIDs: []string{"north"}}
	day         = timerange.Range{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
)

func f64(v float64) *float64 { return &v }

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{200, 200},
		{500, 500},
		{501, MaxLimit},
		{100000, MaxLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in), "limit %d", tt.in)
	}
}

func TestList(t *testing.T) {
	store := &fakeStore{readings: []models.WeightReading{
		{
			ID: "r2", BranchID: "north", ScaleID: "s1", RecordedAt: day.To, Weight: 4.5,
			Scale: &models.Scale{ID: "s1", DeviceID: "SCALE-001", Label: "Balanza Helado 1"},
		},
		{
			ID: "r1", BranchID: "north", ScaleID: "s1", RecordedAt: day.From, Weight: 5.2, Battery: f64(80),
			Scale: &models.Scale{ID: "s1", DeviceID: "SCALE-001", Label: "Balanza Helado 1"},
		},
		{ID: "r3", BranchID: "center", ScaleID: "s2", RecordedAt: day.From, Weight: 9},
	}}
	svc := NewService(store)

	items, err := svc.List(context.Background(), norteActor, ListQuery{BranchID: "north", Range: day})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "r2", items[0].ID)
	assert.Equal(t, ScaleSummary{ID: "s1", DeviceID: "SCALE-001", Label: "Balanza Helado 1"}, items[0].Scale)
	assert.Equal(t, 80.0, *items[1].Battery)
	assert.Equal(t, DefaultLimit, store.listCalls[0].limit)

	_, err = svc.List(context.Background(), globalActor, ListQuery{BranchID: "north", Range: day, Limit: 9000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, store.listCalls[1].limit)
}

func TestList_ForbiddenOutsideGrants(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.List(context.Background(), norteActor, ListQuery{BranchID: "center", Range: day})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Empty(t, store.listCalls)

	_, err = svc.List(context.Background(), nil, ListQuery{BranchID: "center", Range: day})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func comparisonStore() *fakeStore {
	latest := day.To
	return &fakeStore{
		aggregates: []models.BranchReadingAggregate{
			{BranchID: "north", ReadingsCount: 3, AverageWeight: f64(4.0), LatestRecordedAt: &latest},
			{BranchID: "center", ReadingsCount: 2, AverageWeight: f64(12.5), LatestRecordedAt: &latest},
			{BranchID: "ghost", ReadingsCount: 7, AverageWeight: f64(99)},
			{BranchID: "south", ReadingsCount: 1, AverageWeight: nil},
		},
		branches: []models.Branch{
			{ID: "center", Code: "CENTRO", Name: "Sucursal Centro"},
			{ID: "north", Code: "NORTE", Name: "Sucursal Norte"},
			{ID: "south", Code: "SUR", Name: "Sucursal Sur"},
		},
	}
}

func TestComparison_Global(t *testing.T) {
	store := comparisonStore()
	got, err := NewService(store).Comparison(context.Background(), globalActor, day)
	require.NoError(t, err)

	assert.Nil(t, store.aggScope)
	require.Len(t, got, 3, "branch without a record is dropped")

	assert.Equal(t, "center", got[0].BranchID)
	assert.Equal(t, "CENTRO", got[0].BranchCode)
	assert.Equal(t, "north", got[1].BranchID)
	assert.Equal(t, "south", got[2].BranchID)
	assert.Equal(t, 0.0, got[2].AverageWeight)
	assert.Nil(t, got[2].LatestRecordedAt)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].AverageWeight, got[i].AverageWeight)
	}

	var sum int64
	for _, g := range got {
		sum += g.ReadingsCount
	}
	assert.Equal(t, int64(3+2+1), sum)
}

func TestComparison_BranchManagerScoped(t *testing.T) {
	store := comparisonStore()
	got, err := NewService(store).Comparison(context.Background(), norteActor, day)
	require.NoError(t, err)

	assert.Equal(t, []string{"north"}, store.aggScope)
	require.Len(t, got, 1)
	assert.Equal(t, "north", got[0].BranchID)
}

func TestComparison_NoGrantsForbidden(t *testing.T) {
	_, err := NewService(comparisonStore()).Comparison(context.Background(), &access.Actor{Role: models.RoleBranchManager}, day)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestComparison_Empty(t *testing.T) {
	got, err := NewService(&fakeStore{}).Comparison(context.Background(), globalActor, day)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComparison_StableOnTies(t *testing.T) {
	store := &fakeStore{
		aggregates: []models.BranchReadingAggregate{
			{BranchID: "a", ReadingsCount: 1, AverageWeight: f64(5)},
			{BranchID: "b", ReadingsCount: 1, AverageWeight: f64(5)},
			{BranchID: "c", ReadingsCount: 1, AverageWeight: f64(6)},
		},
		branches: []models.Branch{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}
	got, err := NewService(store).Comparison(context.Background(), globalActor, day)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].BranchID, got[1].BranchID, got[2].BranchID})
}
