package controller

import (
	"defects-register/models"
	"defects-register/services"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaFromQuery(t *testing.T) {
	fallback := time.Date(2024, 7, 1, 15, 30, 0, 0, time.UTC)

	criteria, now, err := CriteriaFromQuery(models.ListQuery{
		Vessels:     []string{"V1, V2", "", "V3"},
		Status:      "in_progress",
		Criticality: "MEDIUM",
		Search:      "  pump ",
		From:        "2024-06-01",
		To:          "2024-06-30",
	}, fallback)
	require.NoError(t, err)

	assert.Equal(t, []string{"V1", "V2", "V3"}, criteria.VesselIDs)
	assert.Equal(t, models.StatusInProgress, criteria.Status)
	assert.Equal(t, models.CriticalityMedium, criteria.Criticality)
	assert.Equal(t, "pump", criteria.SearchTerm)
	require.NotNil(t, criteria.DateFrom)
	require.NotNil(t, criteria.DateTo)
	assert.Equal(t, "2024-06-01", criteria.DateFrom.Format(models.DateLayout))
	assert.Equal(t, "2024-06-30", criteria.DateTo.Format(models.DateLayout))
	assert.Equal(t, fallback, now)
}

func TestCriteriaFromQueryEmpty(t *testing.T) {
	criteria, _, err := CriteriaFromQuery(models.ListQuery{}, time.Now())
	require.NoError(t, err)
	assert.True(t, criteria.IsEmpty())
}

func TestCriteriaFromQueryNow(t *testing.T) {
	_, now, err := CriteriaFromQuery(models.ListQuery{Now: "2024-02-29"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), now)
}

func TestCriteriaFromQueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		query models.ListQuery
		field string
	}{
		{name: "unknown status", query: models.ListQuery{Status: "pending"}, field: "status"},
		{name: "unknown criticality", query: models.ListQuery{Criticality: "severe"}, field: "criticality"},
		{name: "inverted range", query: models.ListQuery{From: "2024-06-30", To: "2024-06-01"}, field: "from"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := CriteriaFromQuery(tt.query, time.Now())
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrValidation))
			var verr *services.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestPaginate(t *testing.T) {
	records := sampleDefects()

	all := paginate(records, 0, 0)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 1, all.Page)

	second := paginate(records, 2, 2)
	assert.Equal(t, 3, second.Total)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "d1", second.Items[0].ID)

	beyond := paginate(records, 5, 2)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}
