package importer

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Source yields the raw rows of the catalog sheet.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// WorkbookSource reads an .xlsx file. The file is reopened on every call so
// edits are picked up by the next run.
type WorkbookSource struct {
	Path string
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
}

// NewWorkbookSource returns a source for the workbook at path.
func NewWorkbookSource(path, sheet string) *WorkbookSource {
	return &WorkbookSource{Path: path, Sheet: sheet}
}

// Rows implements Source.
func (s *WorkbookSource) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// StaticSource serves fixed rows.
type StaticSource [][]string

// Rows implements Source.
func (s StaticSource) Rows(context.Context) ([][]string, error) {
	return s, nil
}
