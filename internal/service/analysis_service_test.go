package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"GuardianAngelAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifier returns a canned result and counts invocations.
type fakeClassifier struct {
	result models.ClassificationResult
	err    error
	calls  int
}

func (c *fakeClassifier) Classify(_ context.Context, _ string) (models.ClassificationResult, error) {
	c.calls++
	if c.err != nil {
		return models.ClassificationResult{}, c.err
	}
	return c.result, nil
}

func (c *fakeClassifier) IsConfigured() bool { return true }

func newTestAnalysisService(t *testing.T, c *fakeClassifier) *AnalysisService {
	t.Helper()
	alerts, _, _ := newTestAlertService(t)
	return NewAnalysisService(c, alerts, testLogger(t))
}

func TestAnalyzeBothFlagsCreateTwoAlerts(t *testing.T) {
	sev := 0.8
	fc := &fakeClassifier{result: models.ClassificationResult{
		IsBullying:         true,
		BullyingSeverity:   &sev,
		IsDepressive:       true,
		DepressiveSeverity: &sev,
		Explanation:        "threatening language and hopeless statements",
	}}
	svc := newTestAnalysisService(t, fc)

	resp, err := svc.Analyze(context.Background(), "you are worthless and nobody would miss you")
	require.NoError(t, err)
	require.Len(t, resp.Alerts, 2)

	types := []string{resp.Alerts[0].Type, resp.Alerts[1].Type}
	assert.Contains(t, types, models.AlertTypeBullying)
	assert.Contains(t, types, models.AlertTypeDepressive)

	for _, a := range resp.Alerts {
		assert.Equal(t, "threatening language and hopeless statements", a.Explanation)
		assert.Equal(t, "you are worthless and nobody would miss you", a.OriginalText)
		require.NotNil(t, a.Severity)
		assert.InDelta(t, 0.8, *a.Severity, 0.001)
	}
}

func TestAnalyzeNegativeResultCreatesNoAlerts(t *testing.T) {
	fc := &fakeClassifier{result: models.ClassificationResult{
		Explanation: "benign conversation about homework",
	}}
	svc := newTestAnalysisService(t, fc)

	resp, err := svc.Analyze(context.Background(), "did you finish the math homework yet?")
	require.NoError(t, err)
	assert.Empty(t, resp.Alerts)
	assert.False(t, resp.Result.IsBullying)
}

func TestAnalyzeRejectsOutOfBoundsText(t *testing.T) {
	fc := &fakeClassifier{}
	svc := newTestAnalysisService(t, fc)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, "too short")
	require.ErrorIs(t, err, ErrTextOutOfBounds)
	assert.True(t, IsValidationError(err))

	_, err = svc.Analyze(ctx, strings.Repeat("a", 1001))
	require.ErrorIs(t, err, ErrTextOutOfBounds)

	assert.Zero(t, fc.calls, "validation must happen before the classifier is called")
}

func TestAnalyzeAcceptsBoundaryLengths(t *testing.T) {
	fc := &fakeClassifier{}
	svc := newTestAnalysisService(t, fc)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, strings.Repeat("a", 10))
	require.NoError(t, err)

	_, err = svc.Analyze(ctx, strings.Repeat("a", 1000))
	require.NoError(t, err)

	assert.Equal(t, 2, fc.calls)
}

func TestAnalyzeClassifierFailureCreatesNoAlert(t *testing.T) {
	fc := &fakeClassifier{err: errors.New("upstream timeout")}
	alerts, repo, _ := newTestAlertService(t)
	svc := NewAnalysisService(fc, alerts, testLogger(t))

	_, err := svc.Analyze(context.Background(), "some text long enough to pass validation")
	require.Error(t, err)

	stored, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestAnalyzeDuplicateSuppressedThroughPipeline(t *testing.T) {
	sev := 0.6
	fc := &fakeClassifier{result: models.ClassificationResult{
		IsBullying:       true,
		BullyingSeverity: &sev,
		Explanation:      "insulting language",
	}}
	svc := newTestAnalysisService(t, fc)
	ctx := context.Background()

	first, err := svc.Analyze(ctx, "everyone at school thinks you are a loser")
	require.NoError(t, err)
	require.Len(t, first.Alerts, 1)

	second, err := svc.Analyze(ctx, "nobody wants you on the team, just quit")
	require.NoError(t, err)
	assert.Empty(t, second.Alerts, "active bullying alert within the window suppresses the second")
	assert.True(t, second.Result.IsBullying, "classification result is still returned")
}
