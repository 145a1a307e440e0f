package report

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/xuri/excelize/v2"

	"github.com/mosaicops/mosaic-merger/internal/batch"
	"github.com/mosaicops/mosaic-merger/internal/mosaic"
)

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(8, 8, color.NRGBA{R: 200, A: 255})
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestSpreadsheetRows(t *testing.T) {
	res := &batch.Result{
		BatchID: "batch-test",
		Artifacts: []mosaic.MergedArtifact{
			{GroupKey: "A1", FileName: "A1-merged.jpg", Data: jpegBytes(t), Width: 16, Height: 16},
		},
		Failures: []batch.Failure{
			{GroupKey: "B2", Err: errors.New("decode B2-2.png: bad header")},
		},
	}

	data, err := Spreadsheet(res)
	if err != nil {
		t.Fatalf("Spreadsheet failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open spreadsheet: %v", err)
	}
	defer f.Close()

	checks := []struct {
		cell string
		want string
	}{
		{"A1", "Group"},
		{"A2", "A1"},
		{"B2", "A1-merged.jpg"},
		{"D2", "merged"},
		{"A3", "B2"},
		{"D3", "decode B2-2.png: bad header"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(sheetName, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", c.cell, err)
		}
		if got != c.want {
			t.Errorf("cell %s = %q, want %q", c.cell, got, c.want)
		}
	}

	pics, err := f.GetPictures(sheetName, "E2")
	if err != nil {
		t.Fatalf("GetPictures: %v", err)
	}
	if len(pics) != 1 {
		t.Errorf("got %d embedded pictures at E2, want 1", len(pics))
	}
}

func TestSpreadsheetEmptyResult(t *testing.T) {
	data, err := Spreadsheet(&batch.Result{BatchID: "empty"})
	if err != nil {
		t.Fatalf("Spreadsheet failed: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open spreadsheet: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetName, "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "Group" {
		t.Errorf("header A1 = %q, want Group", got)
	}
}
