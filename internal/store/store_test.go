package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careguide/internal/types"
)

func sampleReport() *types.HealthReport {
	return &types.HealthReport{
		PatientSummary:        "55 year old male with hypertension.",
		TotalActivities:       2,
		CompletedCount:        1,
		RecommendedCount:      1,
		HealthEngagementScore: 60.0,
		ActivityAssessments: []types.ActivityAssessment{
			{
				ActivityID:         "a1",
				ShortDescription:   "Colonoscopy",
				Status:             types.StatusCompleted,
				Urgency:            types.UrgencyHigh,
				SupportingEvidence: "done 2024",
			},
			{
				ActivityID:         "a2",
				ShortDescription:   "Flu vaccine",
				Status:             types.StatusRecommended,
				Urgency:            types.UrgencyMedium,
				SupportingEvidence: "not mentioned",
			},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "careguide.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetReport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveReport(ctx, sampleReport())
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.GetReport(ctx, id)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleReport(), got); diff != "" {
		t.Errorf("report round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetReportMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetReport(context.Background(), 999)
	assert.Error(t, err)
}

func TestListReportsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.SaveReport(ctx, sampleReport())
	require.NoError(t, err)
	second, err := s.SaveReport(ctx, sampleReport())
	require.NoError(t, err)

	records, err := s.ListReports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second, records[0].ID)
	assert.Equal(t, first, records[1].ID)
	assert.Equal(t, 2, records[0].TotalActivities)
	assert.False(t, records[0].CreatedAt.IsZero())

	limited, err := s.ListReports(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second, limited[0].ID)
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, ExportJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got types.HealthReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got.TotalActivities)
	assert.InDelta(t, 60.0, got.HealthEngagementScore, 0.001)
}
