// Package report renders usage history as an Excel workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"drawbook/internal/domain"
)

const sheetName = "Usage"

// columns defines the header row.
var columns = []string{
	"Date",
	"File Name",
	"Pages Charged",
}

// WriteUsageXLSX writes a usage report workbook to w. Entries are emitted in
// the order given, followed by a totals row.
func WriteUsageXLSX(w io.Writer, entries []domain.UsageLogEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	total := 0
	for row, entry := range entries {
		values := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.PagesProcessed,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
		total += entry.PagesProcessed
	}

	totalRow := len(entries) + 2
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(3, totalRow)
	if err := f.SetCellValue(sheetName, labelCell, "Total"); err != nil {
		return fmt.Errorf("write total label: %w", err)
	}
	if err := f.SetCellValue(sheetName, valueCell, total); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
