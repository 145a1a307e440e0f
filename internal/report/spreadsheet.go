package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mosaicops/mosaic-merger/internal/batch"
)

const sheetName = "Batch"

// Spreadsheet builds an xlsx summary of a batch run: one row per group with
// its outcome, the merged image embedded beside each successful row so
// operators can spot the failed groups and re-select only those inputs.
func Spreadsheet(res *batch.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Group", "File", "Bytes", "Status", "Preview"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, art := range res.Artifacts {
		setRow(f, row, art.GroupKey, art.FileName, len(art.Data), "merged")

		previewCell, _ := excelize.CoordinatesToCellName(5, row)
		if err := f.AddPictureFromBytes(sheetName, previewCell, &excelize.Picture{
			Extension: ".jpg",
			File:      art.Data,
			Format:    &excelize.GraphicOptions{ScaleX: 0.25, ScaleY: 0.25},
		}); err != nil {
			return nil, fmt.Errorf("embed image for group %s: %w", art.GroupKey, err)
		}
		f.SetRowHeight(sheetName, row, 60)
		row++
	}

	for _, fail := range res.Failures {
		setRow(f, row, fail.GroupKey, "", 0, fail.Err.Error())
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, group, file string, bytes int, status string) {
	values := []any{group, file, bytes, status}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheetName, cell, v)
	}
}
