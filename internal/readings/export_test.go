package readings

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
)

func TestBuildWorkbook(t *testing.T) {
	status := "ok"
	items := []Item{
		{
			RecordedAt: time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
			Weight:     5.2,
			Battery:    f64(87),
			Status:     &status,
			Scale:      ScaleSummary{ID: "s1", DeviceID: "SCALE-001", Label: "Balanza Helado 1"},
		},
		{
			RecordedAt: time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
			Weight:     3,
			Scale:      ScaleSummary{ID: "s1", DeviceID: "SCALE-001", Label: "Balanza Helado 1"},
		},
	}

	data, err := BuildWorkbook(items)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{"2024-01-01 12:30:00", "SCALE-001", "Balanza Helado 1", "5.2", "87", "ok"}, rows[1])
	assert.Equal(t, []string{"2024-01-01 11:00:00", "SCALE-001", "Balanza Helado 1", "3"}, rows[2])
}

func TestExport(t *testing.T) {
	store := &fakeStore{readings: []models.WeightReading{
		{ID: "r1", BranchID: "north", ScaleID: "s1", RecordedAt: day.From, Weight: 5.2},
	}}
	svc := NewService(store)

	data, err := svc.Export(context.Background(), norteActor, "north", day)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	require.Len(t, store.listCalls, 1)
	assert.Equal(t, ExportLimit, store.listCalls[0].limit)

	_, err = svc.Export(context.Background(), norteActor, "center", day)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Len(t, store.listCalls, 1)
}
