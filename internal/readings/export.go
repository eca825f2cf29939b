package readings

import (
	"bytes"
	"context"
	"fmt"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/timerange"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Readings"

var exportHeader = []string{"Recorded At (UTC)", "Device ID", "Scale", "Weight (kg)", "Battery (%)", "Status"}

var exportColumnWidths = []float64{22, 16, 24, 14, 14, 16}

// Export renders the branch's readings in range, newest first, as an XLSX
// workbook. At most ExportLimit rows are written.
func (s *Service) Export(ctx context.Context, actor *access.Actor, branchID string, r timerange.Range) ([]byte, error) {
	if err := access.AssertBranchAccess(actor, branchID); err != nil {
		return nil, err
	}
	items, err := s.list(ctx, branchID, r, ExportLimit)
	if err != nil {
		return nil, err
	}
	return BuildWorkbook(items)
}

// BuildWorkbook writes items into a single-sheet workbook.
func BuildWorkbook(items []Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, fmt.Errorf("writing header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, exportColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("setting width of %s: %w", name, err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	for i, item := range items {
		row := []interface{}{
			item.RecordedAt.UTC().Format("2006-01-02 15:04:05"),
			item.Scale.DeviceID,
			item.Scale.Label,
			item.Weight,
			nil,
			nil,
		}
		if item.Battery != nil {
			row[4] = *item.Battery
		}
		if item.Status != nil {
			row[5] = *item.Status
		}

		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("writing %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
