package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"GuardianAngelAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeActivityRepo keeps records by date, like the real backends.
type fakeActivityRepo struct {
	mu     sync.Mutex
	byDate map[string]models.ActivityRecord
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{byDate: make(map[string]models.ActivityRecord)}
}

func (r *fakeActivityRepo) Upsert(_ context.Context, records []models.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.byDate[rec.Date] = rec
	}
	return nil
}

func (r *fakeActivityRepo) LoadAll(_ context.Context) ([]models.ActivityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ActivityRecord, 0, len(r.byDate))
	for _, rec := range r.byDate {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func TestImportCSVNormalizesDateFormats(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), testLogger(t))
	ctx := context.Background()

	csvData := strings.Join([]string{
		"Date,Steps,Calories,Distance,ActiveMinutes",
		"2024-03-01,8000,420,4.2,55",
		"03/02/2024,9500,480,5.1,62",
		"2024/03/03,7200,390,3.8,48",
	}, "\n")

	result, err := svc.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Zero(t, result.Skipped)

	records, err := svc.GetRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2024-03-03", records[0].Date)
	assert.Equal(t, "2024-03-01", records[2].Date)
}

func TestImportCSVSkipsBadRows(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), testLogger(t))
	ctx := context.Background()

	csvData := strings.Join([]string{
		"Date,Steps,Calories,Distance,ActiveMinutes",
		"not-a-date,8000,420,4.2,55",
		"2024-03-01,8000,420,4.2,55",
		",9500,480,5.1,62",
	}, "\n")

	result, err := svc.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Skipped)
}

func TestImportCSVToleratesMissingColumns(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), testLogger(t))
	ctx := context.Background()

	csvData := "Date,Steps\n2024-03-01,8000\n"

	result, err := svc.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	records, err := svc.GetRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Steps)
	assert.Equal(t, 8000, *records[0].Steps)
	assert.Nil(t, records[0].Calories)
	assert.Nil(t, records[0].Distance)
}

func TestImportCSVRequiresDateColumn(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), testLogger(t))

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("Steps,Calories\n8000,420\n"))
	require.Error(t, err)
}

func TestImportCSVUpsertsByDate(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), testLogger(t))
	ctx := context.Background()

	_, err := svc.ImportCSV(ctx, strings.NewReader("Date,Steps\n2024-03-01,5000\n"))
	require.NoError(t, err)

	_, err = svc.ImportCSV(ctx, strings.NewReader("Date,Steps\n2024-03-01,8000\n"))
	require.NoError(t, err)

	records, err := svc.GetRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 8000, *records[0].Steps)
}

func TestSummaryAveragesAndLatest(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), testLogger(t))
	ctx := context.Background()

	csvData := strings.Join([]string{
		"Date,Steps,Calories,Distance,ActiveMinutes",
		"2024-03-01,6000,300,3.0,40",
		"2024-03-02,10000,500,5.0,70",
	}, "\n")
	_, err := svc.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Days)
	require.NotNil(t, summary.Latest)
	assert.Equal(t, "2024-03-02", summary.Latest.Date)
	assert.InDelta(t, 8000, summary.AvgSteps, 0.001)
	assert.Equal(t, models.DefaultActivityGoals(), summary.Goals)
}

func TestSummaryEmptyStore(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), testLogger(t))

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Days)
	assert.Nil(t, summary.Latest)
	assert.Zero(t, summary.AvgSteps)
}
