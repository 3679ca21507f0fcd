package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/adburn/internal/pipeline"
)

// WorkbookName is the combined workbook written next to the CSV files.
const WorkbookName = "report.xlsx"

// WriteXLSX writes one worksheet per non-empty table into dir/report.xlsx.
func WriteXLSX(dir string, tables []Table) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const defaultSheet = "Sheet1"
	written := 0
	for _, t := range tables {
		if t.Empty() {
			continue
		}
		sheet := t.SheetName()
		if written == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return "", fmt.Errorf("naming sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("adding sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return "", err
		}
		written++
	}
	if written == 0 {
		return "", fmt.Errorf("%s: %w", WorkbookName, pipeline.ErrEmptyDataset)
	}

	path := filepath.Join(dir, WorkbookName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", WorkbookName, err)
	}
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	for i, h := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
		}
	}
	return nil
}
